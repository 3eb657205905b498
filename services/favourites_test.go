package services

import (
	"testing"

	"beer-vote/models"
)

func TestFavourites(t *testing.T) {
	aggs := []models.AggregateRecord{
		{State: "California", Year: 2010, Style: models.StyleIPA, AvgRating: 4.1},
		{State: "California", Year: 2010, Style: models.StyleStout, AvgRating: 4.1},
		{State: "California", Year: 2010, Style: models.StyleLager, AvgRating: 3.0},
		{State: "Oregon", Year: 2010, Style: models.StylePorter, AvgRating: 3.7},
		{State: "Oregon", Year: 2011, Style: models.StyleStout, AvgRating: 4.4},
		{State: "Oregon", Year: 2011, Style: models.StylePilsner, AvgRating: 2.0},
	}
	years := []int{2010, 2011}
	got := Favourites(ToWide(aggs, years), years)

	want := []models.FavouriteStyle{
		{State: "California", Year: 2010, Rank: 1, Style: models.StyleIPA, Rating: 4.1},
		{State: "Oregon", Year: 2010, Rank: 1, Style: models.StylePorter, Rating: 3.7},
		{State: "California", Year: 2011, Rank: 1},
		{State: "Oregon", Year: 2011, Rank: 1, Style: models.StyleStout, Rating: 4.4},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d favourites, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("favourite %d = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestTopStyles(t *testing.T) {
	aggs := []models.AggregateRecord{
		{State: "Ohio", Year: 2012, Style: models.StyleIPA, AvgRating: 3.5},
		{State: "Ohio", Year: 2012, Style: models.StyleLager, AvgRating: 2.5},
		{State: "Ohio", Year: 2012, Style: models.StylePorter, AvgRating: 4.0},
		{State: "Ohio", Year: 2012, Style: models.StyleStout, AvgRating: 3.9},
		{State: "Ohio", Year: 2013, Style: models.StyleIPA, AvgRating: 3.0},
	}
	got, err := TopStyles(ToWide(aggs, []int{2012, 2013}), 3)
	if err != nil {
		t.Fatalf("TopStyles: %v", err)
	}
	want := []struct {
		year  int
		rank  int
		style models.StyleCategory
	}{
		{2012, 1, models.StylePorter},
		{2012, 2, models.StyleStout},
		{2012, 3, models.StyleIPA},
		{2013, 1, models.StyleIPA},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Year != w.year || got[i].Rank != w.rank || got[i].Style != w.style {
			t.Errorf("entry %d = %+v; want %d #%d %s", i, got[i], w.year, w.rank, w.style)
		}
	}
}
