package services

import (
	"math"
	"reflect"
	"testing"

	"beer-vote/models"
	"beer-vote/utils"
)

func sampleVotes() []models.VoteTotal {
	return []models.VoteTotal{
		// Ohio flips.
		{Year: 2004, State: "OHIO", Party: models.PartyRepublican, CandidateVotes: 510, TotalVotes: 1000},
		{Year: 2004, State: "OHIO", Party: models.PartyDemocrat, CandidateVotes: 480, TotalVotes: 1000},
		{Year: 2004, State: "OHIO", Party: models.PartyOther, CandidateVotes: 6, TotalVotes: 1000},
		{Year: 2004, State: "OHIO", Party: models.PartyOther, CandidateVotes: 4, TotalVotes: 1000},
		{Year: 2008, State: "OHIO", Party: models.PartyDemocrat, CandidateVotes: 520, TotalVotes: 1000},
		{Year: 2008, State: "OHIO", Party: models.PartyRepublican, CandidateVotes: 470, TotalVotes: 1000},
		// California stays blue.
		{Year: 2004, State: "CALIFORNIA", Party: models.PartyDemocrat, CandidateVotes: 550, TotalVotes: 1000},
		{Year: 2004, State: "CALIFORNIA", Party: models.PartyRepublican, CandidateVotes: 440, TotalVotes: 1000},
		{Year: 2008, State: "CALIFORNIA", Party: models.PartyDemocrat, CandidateVotes: 610, TotalVotes: 1000},
		{Year: 2008, State: "CALIFORNIA", Party: models.PartyRepublican, CandidateVotes: 370, TotalVotes: 1000},
		{Year: 2008, State: "CALIFORNIA", Party: models.PartyLibertarian, CandidateVotes: 20, TotalVotes: 1000},
		// Out of the window.
		{Year: 1996, State: "CALIFORNIA", Party: models.PartyRepublican, CandidateVotes: 900, TotalVotes: 1000},
		{Year: 2020, State: "DISTRICT OF COLUMBIA", Party: models.PartyDemocrat, CandidateVotes: 900, TotalVotes: 1000},
	}
}

func newTestElectionService() *ElectionService {
	return NewElectionService(utils.Discard())
}

func TestComputeWinners(t *testing.T) {
	s := newTestElectionService()
	got, err := s.ComputeWinners(sampleVotes(), 2001, 2017)
	if err != nil {
		t.Fatalf("ComputeWinners: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("outcomes: got %d, want 4", len(got))
	}

	wantOrder := []struct {
		state  string
		year   int
		winner models.Party
	}{
		{"California", 2004, models.PartyDemocrat},
		{"California", 2008, models.PartyDemocrat},
		{"Ohio", 2004, models.PartyRepublican},
		{"Ohio", 2008, models.PartyDemocrat},
	}
	for i, w := range wantOrder {
		if got[i].State != w.state || got[i].Year != w.year || got[i].Winner != w.winner {
			t.Errorf("outcome %d: got %s %d %s; want %s %d %s",
				i, got[i].State, got[i].Year, got[i].Winner, w.state, w.year, w.winner)
		}
	}

	ohio04 := got[2]
	if pct := ohio04.Percentages[models.PartyOther]; math.Abs(pct-1.0) > 1e-9 {
		t.Errorf("third-party votes should be summed: OTHER = %.4f, want 1.0", pct)
	}
	if _, ok := ohio04.Percentages[models.PartyLibertarian]; ok {
		t.Error("party without candidates should have no percentage")
	}
	if pct := got[1].Percentages[models.PartyLibertarian]; math.Abs(pct-2.0) > 1e-9 {
		t.Errorf("LIBERTARIAN: got %.4f, want 2.0", pct)
	}
}

func TestComputeWinnersTieBreak(t *testing.T) {
	s := newTestElectionService()
	votes := []models.VoteTotal{
		{Year: 2012, State: "IOWA", Party: models.PartyRepublican, CandidateVotes: 500, TotalVotes: 1000},
		{Year: 2012, State: "IOWA", Party: models.PartyDemocrat, CandidateVotes: 500, TotalVotes: 1000},
		{Year: 2012, State: "UTAH", Party: models.PartyRepublican, CandidateVotes: 400, TotalVotes: 1000},
		{Year: 2012, State: "UTAH", Party: models.PartyOther, CandidateVotes: 400, TotalVotes: 1000},
	}
	got, err := s.ComputeWinners(votes, 2001, 2017)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Winner != models.PartyDemocrat {
		t.Errorf("Iowa tie: got %s, want DEMOCRAT", got[0].Winner)
	}
	if got[1].Winner != models.PartyOther {
		t.Errorf("Utah tie: got %s, want OTHER", got[1].Winner)
	}
}

func TestComputeWinnersRejectsMalformedRows(t *testing.T) {
	s := newTestElectionService()
	tests := [][]models.VoteTotal{
		{{Year: 2004, State: "OHIO", Party: "GREEN", CandidateVotes: 1, TotalVotes: 10}},
		{{Year: 2004, State: "OHIO", Party: models.PartyDemocrat, CandidateVotes: 1, TotalVotes: 0}},
	}
	for _, votes := range tests {
		if _, err := s.ComputeWinners(votes, 2001, 2017); err == nil {
			t.Errorf("expected error for %+v", votes)
		}
	}
}

func TestClassifyStates(t *testing.T) {
	s := newTestElectionService()
	outcomes := []models.ElectionOutcome{
		{State: "Ohio", Year: 2004, Winner: models.PartyRepublican},
		{State: "Ohio", Year: 2008, Winner: models.PartyDemocrat},
		{State: "California", Year: 2004, Winner: models.PartyDemocrat},
		{State: "California", Year: 2008, Winner: models.PartyDemocrat},
		{State: "Texas", Year: 2004, Winner: models.PartyRepublican},
	}

	got := s.ClassifyStates(outcomes)
	want := []models.StateClassification{
		{State: "California", Party: models.PartyDemocrat},
		{State: "Ohio", Party: models.PartySwing},
		{State: "Texas", Party: models.PartyRepublican},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClassifyStates = %+v; want %+v", got, want)
	}
}

func TestClassifyStatesTitleCase(t *testing.T) {
	s := newTestElectionService()
	outcomes, err := s.ComputeWinners(sampleVotes(), 2001, 2020)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range s.ClassifyStates(outcomes) {
		if c.State == "District Of Columbia" {
			found = true
		}
	}
	if !found {
		t.Error("expected title-cased District Of Columbia")
	}
}

func TestWinnersForYear(t *testing.T) {
	outcomes := []models.ElectionOutcome{
		{State: "Ohio", Year: 2004, Winner: models.PartyRepublican},
		{State: "Ohio", Year: 2008, Winner: models.PartyDemocrat},
	}
	got := WinnersForYear(outcomes, 2008)
	if len(got) != 1 || got["Ohio"] != models.PartyDemocrat {
		t.Errorf("WinnersForYear: got %v", got)
	}
}
