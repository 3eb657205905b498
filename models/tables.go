package models

import (
	"fmt"
	"strconv"
	"strings"
)

// WideColumn names a `{style}_{year}` column of the wide preference table.
func WideColumn(style StyleCategory, year int) string {
	return fmt.Sprintf("%s_%d", style, year)
}

// SplitWideColumn reverses WideColumn. The split happens on the last
// underscore so style labels containing "/" or spaces survive.
func SplitWideColumn(col string) (StyleCategory, int, error) {
	idx := strings.LastIndex(col, "_")
	if idx <= 0 || idx == len(col)-1 {
		return "", 0, fmt.Errorf("malformed wide column %q", col)
	}
	style, ok := ParseStyleCategory(col[:idx])
	if !ok {
		return "", 0, fmt.Errorf("unknown style in wide column %q", col)
	}
	year, err := strconv.Atoi(col[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("bad year in wide column %q: %w", col, err)
	}
	return style, year, nil
}

// WideRow holds one state's cells. A column missing from Values is an
// empty cell, never a zero rating.
type WideRow struct {
	State  string
	Values map[string]float64
}

// Value returns the cell for col and whether it is present.
func (r WideRow) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// WideTable is the per-state preference table.
type WideTable struct {
	Columns []string
	Rows    []WideRow
}

// Row returns the row for a state, if any.
func (t WideTable) Row(state string) (WideRow, bool) {
	for _, r := range t.Rows {
		if r.State == state {
			return r, true
		}
	}
	return WideRow{}, false
}

// FavouriteStyle is the best rated style of a state in a year. Style is
// empty when the state has no data at all for that year.
type FavouriteStyle struct {
	State  string
	Year   int
	Rank   int
	Style  StyleCategory
	Rating float64
}

// NoInformation is how a missing favourite is rendered.
const NoInformation = "No Information"
