package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"beer-vote/models"
)

func shareColumn(b models.AgeBracket, party string) string {
	return "pop" + string(b) + "_" + party
}

// LoadAgeVotes reads one `;`-delimited exit-poll file with vote share per
// age bracket and party. Every bracket in models.AgeBrackets must have a
// democrat and republican column; empty cells are left absent.
func LoadAgeVotes(path string) ([]models.AgeVoteRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("age votes: open %q: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(';'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("age votes: read %q: %w", path, df.Err)
	}

	present := make(map[string]struct{})
	for _, n := range df.Names() {
		present[n] = struct{}{}
	}
	required := []string{"state"}
	for _, b := range models.AgeBrackets {
		required = append(required, shareColumn(b, "democrat"), shareColumn(b, "republican"))
	}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			return nil, fmt.Errorf("age votes: %q: missing required column %q", path, col)
		}
	}

	column := func(name string) []string {
		if _, ok := present[name]; !ok {
			return make([]string, df.Nrow())
		}
		return df.Col(name).Records()
	}

	states := column("state")
	divisions := column("division")
	regions := column("region")

	rows := make([]models.AgeVoteRow, df.Nrow())
	for i := range rows {
		rows[i] = models.AgeVoteRow{
			State:      strings.TrimSpace(states[i]),
			Division:   divisions[i],
			Region:     regions[i],
			Democrat:   make(map[models.AgeBracket]float64),
			Republican: make(map[models.AgeBracket]float64),
		}
	}

	for _, b := range models.AgeBrackets {
		for party, target := range map[string]func(i int) map[models.AgeBracket]float64{
			"democrat":   func(i int) map[models.AgeBracket]float64 { return rows[i].Democrat },
			"republican": func(i int) map[models.AgeBracket]float64 { return rows[i].Republican },
		} {
			name := shareColumn(b, party)
			for i, cell := range column(name) {
				cell = strings.TrimSpace(cell)
				if isMissing(cell) {
					continue
				}
				v, err := strconv.ParseFloat(strings.Replace(cell, ",", ".", 1), 64)
				if err != nil {
					return nil, fmt.Errorf("age votes: %q row %d: parse %s %q: %w", path, i+2, name, cell, err)
				}
				target(i)[b] = v
			}
		}
	}
	return rows, nil
}
