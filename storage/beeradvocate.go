package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"beer-vote/models"
)

type reviewFormat int

const (
	formatCSV reviewFormat = iota + 1
	formatBeerAdvocateText
)

// ReviewSource is where reviews are read from: either the parsed CSV table
// or the raw BeerAdvocate text dump. Build one with ReviewsFromCSV or
// ReviewsFromText.
type ReviewSource struct {
	format reviewFormat
	path   string
}

// ReviewsFromCSV reads reviews from a CSV table with a header row.
func ReviewsFromCSV(path string) ReviewSource {
	return ReviewSource{format: formatCSV, path: path}
}

// ReviewsFromText reads reviews from the raw BeerAdvocate dump.
func ReviewsFromText(path string) ReviewSource {
	return ReviewSource{format: formatBeerAdvocateText, path: path}
}

func (s ReviewSource) String() string {
	switch s.format {
	case formatCSV:
		return "csv:" + s.path
	case formatBeerAdvocateText:
		return "text:" + s.path
	}
	return "invalid"
}

// Load reads every review from the source.
func (s ReviewSource) Load(ctx context.Context) ([]models.Review, error) {
	switch s.format {
	case formatCSV:
		return LoadReviewsCSV(ctx, s.path)
	case formatBeerAdvocateText:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, fmt.Errorf("reviews: open %q: %w", s.path, err)
		}
		defer f.Close()
		reviews, err := ParseBeerAdvocate(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("reviews: %q: %w", s.path, err)
		}
		return reviews, nil
	}
	return nil, fmt.Errorf("reviews: source not initialised")
}

const maxReviewLine = 16 << 20

// ParseBeerAdvocate parses the BeerAdvocate dump: one `key: value` pair per
// line, records separated by blank lines.
func ParseBeerAdvocate(ctx context.Context, r io.Reader) ([]models.Review, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxReviewLine)

	var (
		reviews []models.Review
		fields  = make(map[string]string)
		line    int
		start   int
	)

	flush := func() error {
		if len(fields) == 0 {
			return nil
		}
		for _, k := range []string{"user_id", "style", "rating", "date"} {
			if _, ok := fields[k]; !ok {
				return fmt.Errorf("record at line %d: missing %q", start, k)
			}
		}
		rv, err := reviewFromFields(func(col string) string { return fields[col] })
		if err != nil {
			return fmt.Errorf("record at line %d: %w", start, err)
		}
		reviews = append(reviews, rv)
		fields = make(map[string]string)
		if len(reviews)%10000 == 0 {
			return ctx.Err()
		}
		return nil
	}

	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(fields) == 0 {
			start = line
		}
		key, value, ok := strings.Cut(text, ": ")
		if !ok {
			key, value = strings.TrimSuffix(text, ":"), ""
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan line %d: %w", line+1, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return reviews, nil
}
