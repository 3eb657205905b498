package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"beer-vote/models"
)

// header indexes columns by lower-cased name and keeps the names as written.
type header struct {
	index map[string]int
	names []string
}

func readHeader(r *csv.Reader, required ...string) (header, error) {
	names, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return header{}, fmt.Errorf("empty file, expected header")
		}
		return header{}, fmt.Errorf("read header: %w", err)
	}

	h := header{index: make(map[string]int, len(names)), names: make([]string, len(names))}
	for i, n := range names {
		n = strings.TrimSpace(n)
		h.names[i] = n
		h.index[strings.ToLower(n)] = i
	}
	for _, col := range required {
		if _, ok := h.index[col]; !ok {
			return header{}, fmt.Errorf("missing required column %q", col)
		}
	}
	return h, nil
}

func (h header) get(record []string, col string) string {
	if idx, ok := h.index[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// parseUnix accepts integer or float formatted unix seconds, the latter
// being what pandas writes for columns that once held NaN.
func parseUnix(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return true
	}
	return false
}

// eachRecord opens path and calls fn for every data record. line is the
// 1-based line number including the header.
func eachRecord(ctx context.Context, path string, comma rune, required []string,
	fn func(h header, record []string, line int) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	h, err := readHeader(r, required...)
	if err != nil {
		return fmt.Errorf("%q: %w", path, err)
	}

	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%q line %d: %w", path, line, err)
		}
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(h, record, line); err != nil {
			return fmt.Errorf("%q line %d: %w", path, line, err)
		}
	}
}

// LoadUsers reads users.csv (user_id, joined, location). Empty joined or
// location values are kept as absent.
func LoadUsers(ctx context.Context, path string) ([]models.User, error) {
	var users []models.User
	err := eachRecord(ctx, path, ',', []string{"user_id", "joined", "location"},
		func(h header, rec []string, _ int) error {
			u := models.User{
				UserID:   h.get(rec, "user_id"),
				Location: h.get(rec, "location"),
			}
			if isMissing(u.Location) {
				u.Location = ""
			}
			if joined := h.get(rec, "joined"); !isMissing(joined) {
				ts, err := parseUnix(joined)
				if err != nil {
					return fmt.Errorf("parse joined %q: %w", joined, err)
				}
				u.Joined, u.HasJoined = ts, true
			}
			users = append(users, u)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	return users, nil
}

// LoadReviewsCSV reads the parsed reviews table. Beer identifying columns
// are optional.
func LoadReviewsCSV(ctx context.Context, path string) ([]models.Review, error) {
	var reviews []models.Review
	err := eachRecord(ctx, path, ',', []string{"user_id", "style", "rating", "date"},
		func(h header, rec []string, _ int) error {
			rv, err := reviewFromFields(func(col string) string { return h.get(rec, col) })
			if err != nil {
				return err
			}
			reviews = append(reviews, rv)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("reviews: %w", err)
	}
	return reviews, nil
}

func reviewFromFields(get func(col string) string) (models.Review, error) {
	rv := models.Review{
		UserID:      get("user_id"),
		UserName:    get("user_name"),
		BeerName:    get("beer_name"),
		BeerID:      get("beer_id"),
		BreweryName: get("brewery_name"),
		BreweryID:   get("brewery_id"),
		Style:       get("style"),
		ABV:         get("abv"),
	}

	rating := get("rating")
	r, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return models.Review{}, fmt.Errorf("parse rating %q: %w", rating, err)
	}
	rv.Rating = r

	date := get("date")
	d, err := parseUnix(date)
	if err != nil {
		return models.Review{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	rv.Date = d
	return rv, nil
}

// LoadVotes reads the presidential vote table.
func LoadVotes(ctx context.Context, path string) ([]models.VoteTotal, error) {
	var votes []models.VoteTotal
	err := eachRecord(ctx, path, ',',
		[]string{"year", "state", "party_simplified", "candidatevotes", "totalvotes"},
		func(h header, rec []string, _ int) error {
			year, err := strconv.Atoi(h.get(rec, "year"))
			if err != nil {
				return fmt.Errorf("parse year: %w", err)
			}
			cand, err := strconv.ParseInt(h.get(rec, "candidatevotes"), 10, 64)
			if err != nil {
				return fmt.Errorf("parse candidatevotes: %w", err)
			}
			total, err := strconv.ParseInt(h.get(rec, "totalvotes"), 10, 64)
			if err != nil {
				return fmt.Errorf("parse totalvotes: %w", err)
			}
			votes = append(votes, models.VoteTotal{
				Year:           year,
				State:          h.get(rec, "state"),
				Party:          models.Party(strings.ToUpper(h.get(rec, "party_simplified"))),
				CandidateVotes: cand,
				TotalVotes:     total,
			})
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("votes: %w", err)
	}
	return votes, nil
}

// LoadWide reads a wide preference table written by CSVWriter.
func LoadWide(ctx context.Context, path string) (models.WideTable, error) {
	var table models.WideTable
	var stateIdx int
	err := eachRecord(ctx, path, ',', []string{"state"},
		func(h header, rec []string, _ int) error {
			if table.Columns == nil {
				stateIdx = h.index["state"]
				table.Columns = make([]string, 0, len(h.names)-1)
				for i, n := range h.names {
					if i != stateIdx {
						table.Columns = append(table.Columns, n)
					}
				}
			}

			row := models.WideRow{State: h.get(rec, "state"), Values: make(map[string]float64)}
			for i, n := range h.names {
				if i == stateIdx || i >= len(rec) {
					continue
				}
				cell := strings.TrimSpace(rec[i])
				if isMissing(cell) {
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return fmt.Errorf("parse %s: %w", n, err)
				}
				row.Values[n] = v
			}
			table.Rows = append(table.Rows, row)
			return nil
		})
	if err != nil {
		return models.WideTable{}, fmt.Errorf("wide: %w", err)
	}
	return table, nil
}
