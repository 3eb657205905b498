package services

import (
	"sort"

	"beer-vote/models"
	"beer-vote/utils"
)

// PopulationService derives age-group population shares per state for the
// election years.
type PopulationService struct {
	logger *utils.Logger
}

func NewPopulationService(logger *utils.Logger) *PopulationService {
	return &PopulationService{logger: logger}
}

// Shares keeps rows of the given election years and converts them to 0..1
// shares. A group's share is its head count over the annual population when
// both are known, else its published percentage divided by 100. Output is
// sorted by state and year.
func (s *PopulationService) Shares(rows []models.PopulationRow, electionYears []int) []models.PopulationShare {
	yearOK := intFilter(electionYears)

	var out []models.PopulationShare
	for _, r := range rows {
		if !yearOK(r.Year) {
			continue
		}
		share := models.PopulationShare{
			State:         r.State,
			Year:          r.Year,
			Population:    r.Population,
			HasPopulation: r.HasPopulation,
			Shares:        make(map[models.PopulationGroup]float64, len(models.PopulationGroups)),
		}
		for _, g := range models.PopulationGroups {
			if n, ok := r.Counts[g]; ok && r.HasPopulation && r.Population > 0 {
				share.Shares[g] = n / r.Population
				continue
			}
			if pct, ok := r.Percents[g]; ok {
				share.Shares[g] = pct / 100
			}
		}
		out = append(out, share)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Year < out[j].Year
	})

	s.logger.Info("[population] %d state-year rows for %d election years", len(out), len(electionYears))
	return out
}
