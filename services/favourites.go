package services

import (
	"sort"

	"beer-vote/models"
)

// Favourites returns, for every state row and every year, the best rated
// general style. A state with no rating at all in a year gets an entry with
// an empty Style. Ties go to the alphabetically first style.
func Favourites(table models.WideTable, years []int) []models.FavouriteStyle {
	var out []models.FavouriteStyle
	for _, y := range years {
		for _, row := range table.Rows {
			fav := models.FavouriteStyle{State: row.State, Year: y, Rank: 1}
			found := false
			for _, s := range models.AllStyles {
				v, ok := row.Value(models.WideColumn(s, y))
				if !ok {
					continue
				}
				if !found || v > fav.Rating {
					fav.Style, fav.Rating = s, v
					found = true
				}
			}
			out = append(out, fav)
		}
	}
	return out
}

// TopStyles returns up to n best rated styles per (state, year), ranked from 1.
// States without data in a year are omitted.
func TopStyles(table models.WideTable, n int) ([]models.FavouriteStyle, error) {
	long, err := Melt(table)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[stateYear][]models.AggregateRecord)
	var order []stateYear
	for _, a := range long {
		k := stateYear{state: a.State, year: a.Year}
		if _, ok := byGroup[k]; !ok {
			order = append(order, k)
		}
		byGroup[k] = append(byGroup[k], a)
	}

	var out []models.FavouriteStyle
	for _, k := range order {
		group := byGroup[k]
		sort.SliceStable(group, func(i, j int) bool { return group[i].AvgRating > group[j].AvgRating })
		for i, a := range group {
			if i == n {
				break
			}
			out = append(out, models.FavouriteStyle{
				State:  a.State,
				Year:   a.Year,
				Rank:   i + 1,
				Style:  a.Style,
				Rating: a.AvgRating,
			})
		}
	}
	return out, nil
}
