package services

import (
	"testing"

	"beer-vote/models"
	"beer-vote/utils"
)

func TestReportGenerate(t *testing.T) {
	s := NewReportService(utils.Discard())
	res := &models.Results{
		Categorized: []models.ReviewerReview{
			{GeneralStyle: models.StyleIPA},
			{GeneralStyle: models.StyleIPA},
			{GeneralStyle: models.StyleStout},
		},
		Classifications: []models.StateClassification{
			{State: "California", Party: models.PartyDemocrat},
			{State: "Ohio", Party: models.PartySwing},
			{State: "Texas", Party: models.PartyRepublican},
		},
		Favourites: []models.FavouriteStyle{
			{State: "Ohio", Year: 2011, Rank: 1, Style: models.StyleIPA, Rating: 4},
			{State: "Texas", Year: 2011, Rank: 1},
			{State: "Ohio", Year: 2010, Rank: 1, Style: models.StyleStout, Rating: 3},
		},
	}
	aggregates := []models.AggregateRecord{
		{State: "Ohio", Year: 2010, Style: models.StyleStout, AvgRating: 3},
		{State: "Ohio", Year: 2011, Style: models.StyleIPA, AvgRating: 4},
		{State: "Texas", Year: 2010, Style: models.StyleLager, AvgRating: 2},
	}

	r := s.Generate(10, res, aggregates)

	if r.Reviews != 10 || r.USReviews != 3 || r.Aggregates != 3 || r.States != 2 {
		t.Errorf("counts: %+v", r)
	}
	if r.LatestYear != 2011 {
		t.Errorf("LatestYear = %d, want 2011", r.LatestYear)
	}
	if r.StyleReviewMix[models.StyleIPA] != 2 || r.StyleReviewMix[models.StyleStout] != 1 {
		t.Errorf("StyleReviewMix = %v", r.StyleReviewMix)
	}
	if len(r.SwingStates) != 1 || r.SwingStates[0] != "Ohio" {
		t.Errorf("SwingStates = %v", r.SwingStates)
	}
	if r.PartyCounts[models.PartyDemocrat] != 1 || r.PartyCounts[models.PartyRepublican] != 1 {
		t.Errorf("PartyCounts = %v", r.PartyCounts)
	}
	if len(r.Favourites) != 1 || r.Favourites[0].Style != models.StyleIPA {
		t.Errorf("Favourites = %+v", r.Favourites)
	}
}

func TestReportEmpty(t *testing.T) {
	s := NewReportService(utils.Discard())
	r := s.Generate(0, &models.Results{}, nil)
	if r.States != 0 || r.LatestYear != 0 || len(r.Favourites) != 0 {
		t.Errorf("empty report: %+v", r)
	}
	s.Print(r)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Ohio", 10, "Ohio"},
		{"District Of Columbia", 10, "Distric..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q; want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
