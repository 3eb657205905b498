package services

import (
	"sort"

	"beer-vote/models"
)

// ToWide pivots long aggregates into one row per state with `{style}_{year}`
// columns. Years are merged with outer-join semantics: a state present in
// any year gets a row, and cells without an aggregate stay empty. Columns
// are grouped by year in the given order, styles alphabetical within a year;
// the style set is the union of styles seen in any of the years. Repeated
// years are ignored after their first occurrence.
func ToWide(aggregates []models.AggregateRecord, years []int) models.WideTable {
	years = uniqueYears(years)
	yearOK := intFilter(years)

	styleSet := make(map[models.StyleCategory]struct{})
	rows := make(map[string]map[string]float64)
	for _, a := range aggregates {
		if !yearOK(a.Year) {
			continue
		}
		styleSet[a.Style] = struct{}{}
		cells, ok := rows[a.State]
		if !ok {
			cells = make(map[string]float64)
			rows[a.State] = cells
		}
		cells[models.WideColumn(a.Style, a.Year)] = a.AvgRating
	}

	styles := make([]models.StyleCategory, 0, len(styleSet))
	for s := range styleSet {
		styles = append(styles, s)
	}
	sort.Slice(styles, func(i, j int) bool { return styles[i] < styles[j] })

	table := models.WideTable{
		Columns: make([]string, 0, len(styles)*len(years)),
		Rows:    make([]models.WideRow, 0, len(rows)),
	}
	if len(styles) > 0 {
		for _, y := range years {
			for _, s := range styles {
				table.Columns = append(table.Columns, models.WideColumn(s, y))
			}
		}
	}

	for state, cells := range rows {
		table.Rows = append(table.Rows, models.WideRow{State: state, Values: cells})
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i].State < table.Rows[j].State })
	return table
}

func uniqueYears(years []int) []int {
	seen := make(map[int]struct{}, len(years))
	out := make([]int, 0, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	return out
}

// Melt turns a wide table back into long aggregates, skipping empty cells.
// Review counts are not part of the wide table and come back as zero.
func Melt(table models.WideTable) ([]models.AggregateRecord, error) {
	type parsed struct {
		name  string
		style models.StyleCategory
		year  int
	}
	cols := make([]parsed, 0, len(table.Columns))
	for _, c := range table.Columns {
		style, year, err := models.SplitWideColumn(c)
		if err != nil {
			return nil, err
		}
		cols = append(cols, parsed{name: c, style: style, year: year})
	}

	var out []models.AggregateRecord
	for _, row := range table.Rows {
		for _, c := range cols {
			v, ok := row.Value(c.name)
			if !ok {
				continue
			}
			out = append(out, models.AggregateRecord{
				State:     row.State,
				Year:      c.year,
				Style:     c.style,
				AvgRating: v,
			})
		}
	}
	SortAggregates(out)
	return out, nil
}
