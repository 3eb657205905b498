package storage

import (
	"testing"

	"beer-vote/models"
)

const agePollHeader = "state;division;region;pop18_29_democrat;pop18_29_republican;" +
	"pop30_44_democrat;pop30_44_republican;pop45_64_democrat;pop45_64_republican;pop65_democrat\n"

func TestLoadAgeVotes(t *testing.T) {
	path := writeTemp(t, "2008_per_age_region.csv", agePollHeader+
		"Ohio;East North Central;Midwest;0,61;0,37;0,52;0,46;0,48;0,5;0,4\n"+
		"Utah;Mountain;West;0.3;0.65;;0.6;0.3;0.68;0.3\n")

	rows, err := LoadAgeVotes(path)
	if err != nil {
		t.Fatalf("LoadAgeVotes: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	ohio := rows[0]
	if ohio.State != "Ohio" || ohio.Region != "Midwest" {
		t.Errorf("ohio: %+v", ohio)
	}
	if ohio.Democrat[models.Bracket18to29] != 0.61 || ohio.Republican[models.Bracket45to64] != 0.5 {
		t.Errorf("decimal commas not parsed: %+v", ohio)
	}

	utah := rows[1]
	if _, ok := utah.Democrat[models.Bracket30to44]; ok {
		t.Error("empty share should be absent")
	}
	if utah.Republican[models.Bracket18to29] != 0.65 {
		t.Errorf("utah: %+v", utah)
	}
}

func TestLoadAgeVotesErrors(t *testing.T) {
	missing := writeTemp(t, "poll.csv", "state;pop18_29_democrat\nOhio;0,5\n")
	if _, err := LoadAgeVotes(missing); err == nil {
		t.Error("expected missing column error")
	}
	bad := writeTemp(t, "poll.csv", agePollHeader+"Ohio;a;b;x;0,5;0,5;0,5;0,5;0,5;0,5\n")
	if _, err := LoadAgeVotes(bad); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadAgeVotes("does-not-exist.csv"); err == nil {
		t.Error("expected open error")
	}
}
