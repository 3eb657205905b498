package services

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"beer-vote/models"
	"beer-vote/utils"
)

// ElectionService derives election winners and state classifications from
// presidential vote totals.
type ElectionService struct {
	logger *utils.Logger
}

// NewElectionService creates an ElectionService with the given logger.
func NewElectionService(logger *utils.Logger) *ElectionService {
	return &ElectionService{logger: logger}
}

type stateYear struct {
	state string
	year  int
}

type partyVotes struct {
	votes int64
	total int64
}

// ComputeWinners sums candidate votes per party for each state and election
// year inside [fromYear, toYear], converts them to percentages of the votes
// cast and picks the plurality party. Ties go to the party listed first in
// models.Parties. State names are title-cased.
func (s *ElectionService) ComputeWinners(votes []models.VoteTotal, fromYear, toYear int) ([]models.ElectionOutcome, error) {
	known := make(map[models.Party]struct{}, len(models.Parties))
	for _, p := range models.Parties {
		known[p] = struct{}{}
	}
	title := cases.Title(language.English)

	sums := make(map[stateYear]map[models.Party]*partyVotes)
	for i, v := range votes {
		if v.Year < fromYear || v.Year > toYear {
			continue
		}
		if _, ok := known[v.Party]; !ok {
			return nil, fmt.Errorf("elections: row %d: unknown party %q", i, v.Party)
		}
		if v.TotalVotes <= 0 {
			return nil, fmt.Errorf("elections: row %d: non-positive total votes %d for %s %d",
				i, v.TotalVotes, v.State, v.Year)
		}

		key := stateYear{state: title.String(strings.TrimSpace(v.State)), year: v.Year}
		byParty, ok := sums[key]
		if !ok {
			byParty = make(map[models.Party]*partyVotes)
			sums[key] = byParty
		}
		pv, ok := byParty[v.Party]
		if !ok {
			pv = &partyVotes{total: v.TotalVotes}
			byParty[v.Party] = pv
		}
		pv.votes += v.CandidateVotes
	}

	out := make([]models.ElectionOutcome, 0, len(sums))
	for key, byParty := range sums {
		outcome := models.ElectionOutcome{
			State:       key.state,
			Year:        key.year,
			Percentages: make(map[models.Party]float64, len(byParty)),
		}
		best := -1.0
		for _, p := range models.Parties {
			pv, ok := byParty[p]
			if !ok {
				continue
			}
			pct := float64(pv.votes) / float64(pv.total) * 100
			outcome.Percentages[p] = pct
			if pct > best {
				best = pct
				outcome.Winner = p
			}
		}
		out = append(out, outcome)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Year < out[j].Year
	})

	s.logger.Info("[elections] Computed %d state-year outcomes between %d and %d", len(out), fromYear, toYear)
	return out, nil
}

// ClassifyStates labels each state SWING when more than one party won it
// over the observed years, and with the single winning party otherwise.
func (s *ElectionService) ClassifyStates(outcomes []models.ElectionOutcome) []models.StateClassification {
	winners := make(map[string]map[models.Party]struct{})
	for _, o := range outcomes {
		set, ok := winners[o.State]
		if !ok {
			set = make(map[models.Party]struct{})
			winners[o.State] = set
		}
		set[o.Winner] = struct{}{}
	}

	out := make([]models.StateClassification, 0, len(winners))
	for state, set := range winners {
		c := models.StateClassification{State: state, Party: models.PartySwing}
		if len(set) == 1 {
			for p := range set {
				c.Party = p
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// WinnersForYear indexes the winners of one election year by state.
func WinnersForYear(outcomes []models.ElectionOutcome, year int) map[string]models.Party {
	out := make(map[string]models.Party)
	for _, o := range outcomes {
		if o.Year == year {
			out[o.State] = o.Winner
		}
	}
	return out
}
