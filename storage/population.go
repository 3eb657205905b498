package storage

import (
	"context"
	"fmt"
	"strconv"

	"beer-vote/models"
)

var populationColumns = map[models.PopulationGroup]struct{ count, percent string }{
	models.Pop25to44: {"pop25to44", "pctpop25to44"},
	models.Pop45to64: {"pop45to64", "pctpop45to64"},
	models.PopOver65: {"popover65", "pctpopover65"},
}

// LoadPopulation reads the state correlates table (one row per state and
// year, several hundred columns) keeping only the population columns.
func LoadPopulation(ctx context.Context, path string) ([]models.PopulationRow, error) {
	required := []string{"year", "state", "pop_annual"}
	for _, g := range models.PopulationGroups {
		cols := populationColumns[g]
		required = append(required, cols.count, cols.percent)
	}

	var rows []models.PopulationRow
	err := eachRecord(ctx, path, ',', required,
		func(h header, rec []string, _ int) error {
			yearCell := h.get(rec, "year")
			year, err := strconv.Atoi(yearCell)
			if err != nil {
				f, ferr := strconv.ParseFloat(yearCell, 64)
				if ferr != nil {
					return fmt.Errorf("parse year %q: %w", yearCell, err)
				}
				year = int(f)
			}

			row := models.PopulationRow{
				State:    h.get(rec, "state"),
				Year:     year,
				Counts:   make(map[models.PopulationGroup]float64),
				Percents: make(map[models.PopulationGroup]float64),
			}
			if v, ok, err := optionalFloat(h, rec, "pop_annual"); err != nil {
				return err
			} else if ok {
				row.Population, row.HasPopulation = v, true
			}
			for _, g := range models.PopulationGroups {
				cols := populationColumns[g]
				if v, ok, err := optionalFloat(h, rec, cols.count); err != nil {
					return err
				} else if ok {
					row.Counts[g] = v
				}
				if v, ok, err := optionalFloat(h, rec, cols.percent); err != nil {
					return err
				} else if ok {
					row.Percents[g] = v
				}
			}
			rows = append(rows, row)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("population: %w", err)
	}
	return rows, nil
}

func optionalFloat(h header, rec []string, col string) (float64, bool, error) {
	cell := h.get(rec, col)
	if isMissing(cell) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s %q: %w", col, cell, err)
	}
	return v, true, nil
}
