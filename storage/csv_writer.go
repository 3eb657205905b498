package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"beer-vote/models"
)

// Output file names, relative to the output directory.
const (
	WinnersFile         = "party_winners_over_years.csv"
	ClassificationsFile = "party_winners.csv"
	CategorizedFile     = "reviews_categorized.csv"
	WideFile            = "beer_preferences_wide.csv"
	DemographicsFile    = "voting_age_interpolated.csv"
	FavouritesFile      = "favourite_styles.csv"
	PopulationFile      = "population_shares.csv"
)

// CSVWriter writes pipeline results as CSV files. Every file is first
// written to a temporary file next to its target; targets are only replaced
// once all files of a Write call were written successfully.
type CSVWriter struct {
	dir string
}

// NewCSVWriter prepares the output directory.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// Path returns the full path of an output file.
func (c *CSVWriter) Path(name string) string {
	return filepath.Join(c.dir, name)
}

type stagedFile struct {
	tmp    string
	target string
}

// Write stages and then commits every result table.
func (c *CSVWriter) Write(r *models.Results) error {
	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{WinnersFile, winnersHeader(), winnersRows(r.Outcomes)},
		{ClassificationsFile, []string{"state", "party"}, classificationRows(r.Classifications)},
		{CategorizedFile, categorizedHeader(), categorizedRows(r.Categorized)},
		{WideFile, append([]string{"state"}, r.Wide.Columns...), wideRows(r.Wide)},
		{DemographicsFile, []string{"state", "age_bracket", "year", "democrat", "republican"}, demographicRows(r.Demographics)},
		{FavouritesFile, []string{"state", "year", "rank", "beer_style", "rating"}, favouriteRows(r.Favourites, r.TopStyles)},
		{PopulationFile, populationHeader(), populationRows(r.Population)},
	}

	staged := make([]stagedFile, 0, len(tables))
	cleanup := func() {
		for _, s := range staged {
			_ = os.Remove(s.tmp)
		}
	}

	for _, t := range tables {
		target := c.Path(t.name)
		tmp, err := stage(target, t.header, t.rows)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, stagedFile{tmp: tmp, target: target})
	}

	return commit(staged)
}

// rename is swapped out in tests.
var rename = os.Rename

// commit moves every staged file onto its target. Existing targets are kept
// aside until all renames succeeded; on failure they are put back so the
// directory never mixes files from two runs.
func commit(staged []stagedFile) error {
	type committed struct {
		target string
		backup string
	}
	var done []committed

	rollback := func(pending []stagedFile) {
		for i := len(done) - 1; i >= 0; i-- {
			c := done[i]
			if c.backup == "" {
				_ = os.Remove(c.target)
				continue
			}
			_ = rename(c.backup, c.target)
		}
		for _, s := range pending {
			_ = os.Remove(s.tmp)
		}
	}

	for i, s := range staged {
		c := committed{target: s.target}
		if _, err := os.Lstat(s.target); err == nil {
			c.backup = s.tmp + ".prev"
			if err := rename(s.target, c.backup); err != nil {
				rollback(staged[i:])
				return fmt.Errorf("csv: back up %q: %w", s.target, err)
			}
		}
		if err := rename(s.tmp, s.target); err != nil {
			if c.backup != "" {
				_ = rename(c.backup, s.target)
			}
			rollback(staged[i:])
			return fmt.Errorf("csv: commit %q: %w", s.target, err)
		}
		done = append(done, c)
	}

	for _, c := range done {
		if c.backup != "" {
			_ = os.Remove(c.backup)
		}
	}
	return nil
}

// Close is a no-op; files are closed as soon as they are staged.
func (c *CSVWriter) Close() error { return nil }

func stage(target string, header []string, rows [][]string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("csv: create temp for %q: %w", target, err)
	}
	tmp := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("csv: write %q: %w", target, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fail(err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("csv: close %q: %w", target, err)
	}
	return tmp, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func winnersHeader() []string {
	h := []string{"state", "year"}
	for _, p := range models.Parties {
		h = append(h, string(p))
	}
	return append(h, "winner")
}

func winnersRows(outcomes []models.ElectionOutcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		row := []string{o.State, strconv.Itoa(o.Year)}
		for _, p := range models.Parties {
			if v, ok := o.Percentages[p]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, append(row, string(o.Winner)))
	}
	return rows
}

func classificationRows(cs []models.StateClassification) [][]string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.State, string(c.Party)})
	}
	return rows
}

func categorizedHeader() []string {
	return []string{
		"user_id", "user_name", "beer_name", "beer_id", "brewery_name", "brewery_id",
		"style", "abv", "rating", "date", "location", "state", "year", "age", "general_style",
	}
}

func categorizedRows(reviews []models.ReviewerReview) [][]string {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		age := ""
		if r.HasAge() {
			age = formatFloat(r.Age)
		}
		rows = append(rows, []string{
			r.UserID, r.UserName, r.BeerName, r.BeerID, r.BreweryName, r.BreweryID,
			r.Style, r.ABV, formatFloat(r.Rating), strconv.FormatInt(r.Date, 10),
			r.Location, r.State, strconv.Itoa(r.Year), age, string(r.GeneralStyle),
		})
	}
	return rows
}

func wideRows(t models.WideTable) [][]string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(t.Columns)+1)
		row = append(row, r.State)
		for _, c := range t.Columns {
			if v, ok := r.Value(c); ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func demographicRows(points []models.DemographicPoint) [][]string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.State, string(p.Bracket), strconv.Itoa(p.Year),
			formatFloat(p.Democrat), formatFloat(p.Republican),
		})
	}
	return rows
}

func favouriteRows(favourites, top []models.FavouriteStyle) [][]string {
	rows := make([][]string, 0, len(favourites)+len(top))
	for _, f := range favourites {
		if f.Style == "" {
			rows = append(rows, []string{f.State, strconv.Itoa(f.Year), "1", models.NoInformation, ""})
			continue
		}
		rows = append(rows, []string{f.State, strconv.Itoa(f.Year), "1", string(f.Style), formatFloat(f.Rating)})
	}
	for _, f := range top {
		if f.Rank == 1 {
			continue
		}
		rows = append(rows, []string{f.State, strconv.Itoa(f.Year), strconv.Itoa(f.Rank), string(f.Style), formatFloat(f.Rating)})
	}
	return rows
}

func populationHeader() []string {
	h := []string{"state", "year", "population"}
	for _, g := range models.PopulationGroups {
		h = append(h, "share_"+string(g))
	}
	return h
}

func populationRows(shares []models.PopulationShare) [][]string {
	rows := make([][]string, 0, len(shares))
	for _, p := range shares {
		row := []string{p.State, strconv.Itoa(p.Year), ""}
		if p.HasPopulation {
			row[2] = strconv.FormatFloat(p.Population, 'f', -1, 64)
		}
		for _, g := range models.PopulationGroups {
			if v, ok := p.Shares[g]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}
