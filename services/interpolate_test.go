package services

import (
	"math"
	"testing"

	"beer-vote/models"
)

func TestInterpolateLinear(t *testing.T) {
	series := []models.DemographicObservation{
		{State: "Ohio", Bracket: models.Bracket18to29, Year: 2004, Democrat: 0.4},
		{State: "Ohio", Bracket: models.Bracket18to29, Year: 2008, Democrat: 0.6},
	}
	got, err := Interpolate(series, []int{2004, 2008})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	want := []float64{0.4, 0.45, 0.5, 0.55, 0.6}
	if len(got) != len(want) {
		t.Fatalf("points: got %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		p := got[i]
		if p.Year != 2004+i {
			t.Errorf("point %d: year %d", i, p.Year)
		}
		if math.Abs(p.Democrat-w) > 1e-9 {
			t.Errorf("%d: democrat %.6f, want %.6f", p.Year, p.Democrat, w)
		}
		if math.Abs(p.Democrat+p.Republican-1) > 1e-12 {
			t.Errorf("%d: shares do not sum to one", p.Year)
		}
	}
	if got[0].Democrat != 0.4 || got[4].Democrat != 0.6 {
		t.Error("election years must keep their observed values exactly")
	}
}

func TestInterpolateSegments(t *testing.T) {
	years := []int{2004, 2008, 2012, 2016}
	values := []float64{0.4, 0.6, 0.2, 0.2}
	var series []models.DemographicObservation
	for i, y := range years {
		for _, b := range models.AgeBrackets {
			series = append(series, models.DemographicObservation{State: "Iowa", Bracket: b, Year: y, Democrat: values[i]})
		}
	}

	got, err := Interpolate(series, years)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 13*len(models.AgeBrackets) {
		t.Fatalf("points: got %d, want %d", len(got), 13*len(models.AgeBrackets))
	}

	byYear := make(map[int]float64)
	for _, p := range got {
		if p.Bracket == models.Bracket30to44 {
			byYear[p.Year] = p.Democrat
		}
	}
	tests := map[int]float64{2004: 0.4, 2006: 0.5, 2008: 0.6, 2010: 0.4, 2012: 0.2, 2014: 0.2, 2016: 0.2}
	for y, w := range tests {
		if math.Abs(byYear[y]-w) > 1e-9 {
			t.Errorf("%d: got %.6f, want %.6f", y, byYear[y], w)
		}
	}
}

func TestInterpolateErrors(t *testing.T) {
	obs := func(y int) models.DemographicObservation {
		return models.DemographicObservation{State: "Ohio", Bracket: models.Bracket18to29, Year: y, Democrat: 0.5}
	}
	tests := []struct {
		name   string
		series []models.DemographicObservation
		years  []int
	}{
		{"no election years", []models.DemographicObservation{obs(2004)}, nil},
		{"duplicate year", []models.DemographicObservation{obs(2004)}, []int{2004, 2004}},
		{"missing observation", []models.DemographicObservation{obs(2004), obs(2012)}, []int{2004, 2008, 2012}},
		{"duplicate observation", []models.DemographicObservation{obs(2004), obs(2004), obs(2008)}, []int{2004, 2008}},
	}
	for _, tt := range tests {
		if _, err := Interpolate(tt.series, tt.years); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestInterpolateSingleElectionYear(t *testing.T) {
	series := []models.DemographicObservation{
		{State: "Ohio", Bracket: models.Bracket18to29, Year: 2008, Democrat: 0.62},
		{State: "Ohio", Bracket: models.Bracket45to64, Year: 2008, Democrat: 0.48},
	}
	got, err := Interpolate(series, []int{2008})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("points: got %d, want one per series", len(got))
	}
	if got[0].Year != 2008 || got[0].Democrat != 0.62 || math.Abs(got[0].Republican-0.38) > 1e-12 {
		t.Errorf("point = %+v", got[0])
	}
	if got[1].Bracket != models.Bracket45to64 || got[1].Democrat != 0.48 {
		t.Errorf("point = %+v", got[1])
	}
}
