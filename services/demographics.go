package services

import (
	"sort"

	"beer-vote/models"
	"beer-vote/utils"
)

// DemographicService turns raw exit-poll rows into normalised democrat
// shares per state, age bracket and election year.
type DemographicService struct {
	logger *utils.Logger
}

// NewDemographicService creates a DemographicService with the given logger.
func NewDemographicService(logger *utils.Logger) *DemographicService {
	return &DemographicService{logger: logger}
}

// Normalize keeps states that have a winner for the year, rescales every
// bracket so democrat and republican shares sum to one, and drops states
// with any missing or degenerate share.
func (s *DemographicService) Normalize(rows []models.AgeVoteRow, winners map[string]models.Party, year int) []models.DemographicObservation {
	var out []models.DemographicObservation
	dropped := 0

	for _, row := range rows {
		if _, ok := winners[row.State]; !ok {
			dropped++
			continue
		}

		obs := make([]models.DemographicObservation, 0, len(models.AgeBrackets))
		for _, b := range models.AgeBrackets {
			dem, okD := row.Democrat[b]
			rep, okR := row.Republican[b]
			if !okD || !okR || dem+rep == 0 {
				obs = nil
				break
			}
			obs = append(obs, models.DemographicObservation{
				State:    row.State,
				Bracket:  b,
				Year:     year,
				Democrat: dem / (dem + rep),
			})
		}
		if obs == nil {
			dropped++
			continue
		}
		out = append(out, obs...)
	}

	s.logger.Info("[demographics] %d: kept %d states, dropped %d", year, len(out)/len(models.AgeBrackets), dropped)
	return out
}

// JoinElectionYears keeps only the states observed in every election year.
func (s *DemographicService) JoinElectionYears(perYear map[int][]models.DemographicObservation, electionYears []int) []models.DemographicObservation {
	seen := make(map[string]map[int]struct{})
	for _, y := range electionYears {
		for _, o := range perYear[y] {
			years, ok := seen[o.State]
			if !ok {
				years = make(map[int]struct{})
				seen[o.State] = years
			}
			years[y] = struct{}{}
		}
	}

	var out []models.DemographicObservation
	kept := 0
	for _, y := range electionYears {
		for _, o := range perYear[y] {
			if len(seen[o.State]) == len(electionYears) {
				out = append(out, o)
			}
		}
	}
	for _, years := range seen {
		if len(years) == len(electionYears) {
			kept++
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.Bracket != b.Bracket {
			return a.Bracket < b.Bracket
		}
		return a.Year < b.Year
	})

	s.logger.Info("[demographics] %d of %d states observed in all %d election years",
		kept, len(seen), len(electionYears))
	return out
}
