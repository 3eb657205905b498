package services

import (
	"fmt"
	"sort"

	"beer-vote/models"
)

type seriesKey struct {
	state   string
	bracket models.AgeBracket
}

// Interpolate densifies democrat shares to every year between the first and
// last election year, interpolating linearly between neighbouring
// elections. Each (state, bracket) series is independent and must have an
// observation at every election year. Republican share is 1 - democrat on
// every produced row. With a single election year each series yields its one
// observed point. Output is sorted by state, bracket and year.
func Interpolate(series []models.DemographicObservation, electionYears []int) ([]models.DemographicPoint, error) {
	if len(electionYears) == 0 {
		return nil, fmt.Errorf("interpolate: no election years")
	}
	years := append([]int(nil), electionYears...)
	sort.Ints(years)
	for i := 1; i < len(years); i++ {
		if years[i] == years[i-1] {
			return nil, fmt.Errorf("interpolate: duplicate election year %d", years[i])
		}
	}

	known := make(map[seriesKey]map[int]float64)
	for _, o := range series {
		k := seriesKey{state: o.State, bracket: o.Bracket}
		points, ok := known[k]
		if !ok {
			points = make(map[int]float64, len(years))
			known[k] = points
		}
		if _, dup := points[o.Year]; dup {
			return nil, fmt.Errorf("interpolate: duplicate observation %s/%s/%d", o.State, o.Bracket, o.Year)
		}
		points[o.Year] = o.Democrat
	}

	keys := make([]seriesKey, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].bracket < keys[j].bracket
	})

	first, last := years[0], years[len(years)-1]
	out := make([]models.DemographicPoint, 0, len(keys)*(last-first+1))
	for _, k := range keys {
		points := known[k]
		values := make([]float64, len(years))
		for i, y := range years {
			v, ok := points[y]
			if !ok {
				return nil, fmt.Errorf("interpolate: %s/%s has no observation for %d", k.state, k.bracket, y)
			}
			values[i] = v
		}

		if len(years) == 1 {
			out = append(out, models.DemographicPoint{
				State:      k.state,
				Bracket:    k.bracket,
				Year:       first,
				Democrat:   values[0],
				Republican: 1 - values[0],
			})
			continue
		}

		seg := 0
		for y := first; y <= last; y++ {
			for seg < len(years)-2 && y > years[seg+1] {
				seg++
			}
			dem := lerp(years[seg], values[seg], years[seg+1], values[seg+1], y)
			out = append(out, models.DemographicPoint{
				State:      k.state,
				Bracket:    k.bracket,
				Year:       y,
				Democrat:   dem,
				Republican: 1 - dem,
			})
		}
	}
	return out, nil
}

// lerp returns the exact endpoint values at x0 and x1.
func lerp(x0 int, y0 float64, x1 int, y1 float64, x int) float64 {
	switch x {
	case x0:
		return y0
	case x1:
		return y1
	}
	return y0 + (y1-y0)*float64(x-x0)/float64(x1-x0)
}
