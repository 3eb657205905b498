package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"beer-vote/models"
	"beer-vote/utils"
)

const (
	usLocationPrefix = "United States"
	secondsPerYear   = 365.25 * 24 * 60 * 60
	drinkingAge      = 21
)

// ReviewAggregator joins reviews with their reviewers and computes mean
// ratings per state, year and general style.
type ReviewAggregator struct {
	logger     *utils.Logger
	classifier *StyleClassifier
}

// NewReviewAggregator creates a ReviewAggregator using the given classifier.
func NewReviewAggregator(logger *utils.Logger, classifier *StyleClassifier) *ReviewAggregator {
	return &ReviewAggregator{logger: logger, classifier: classifier}
}

// Join inner-joins reviews to users and keeps U.S. reviewers only. Reviews
// whose reviewer has no location are dropped silently.
func (a *ReviewAggregator) Join(reviews []models.Review, users []models.User) []models.ReviewerReview {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		if _, dup := byID[u.UserID]; dup {
			a.logger.Debug("[reviews] Duplicate user id kept first: %s", u.UserID)
			continue
		}
		byID[u.UserID] = u
	}

	var noUser, noLocation, abroad int
	result := make([]models.ReviewerReview, 0, len(reviews))
	for _, r := range reviews {
		u, ok := byID[r.UserID]
		if !ok {
			noUser++
			continue
		}
		if u.Location == "" {
			noLocation++
			continue
		}
		if !strings.HasPrefix(u.Location, usLocationPrefix) {
			abroad++
			continue
		}

		result = append(result, models.ReviewerReview{
			Review:   r,
			Location: u.Location,
			State:    stateFromLocation(u.Location),
			Year:     time.Unix(r.Date, 0).UTC().Year(),
			Age:      approximateAge(r.Date, u),
		})
	}

	a.logger.Info("[reviews] Joined %d reviews → %d U.S. rows (no user %d, no location %d, abroad %d)",
		len(reviews), len(result), noUser, noLocation, abroad)
	return result
}

// Categorize joins and classifies reviews. Rows whose style matched no rule
// are dropped, or tagged models.StyleOther when keepUnmatched is set.
func (a *ReviewAggregator) Categorize(reviews []models.Review, users []models.User, keepUnmatched bool) ([]models.ReviewerReview, error) {
	joined := a.Join(reviews, users)
	result := make([]models.ReviewerReview, 0, len(joined))

	unmatched := 0
	for _, r := range joined {
		category, ok, err := a.classifier.Classify(r.Style)
		if err != nil {
			return nil, err
		}
		if !ok {
			unmatched++
			if !keepUnmatched {
				continue
			}
			category = models.StyleOther
		}
		r.GeneralStyle = category
		result = append(result, r)
	}

	a.logger.Info("[reviews] Categorized %d rows (%d with unmatched style, kept: %t)",
		len(result), unmatched, keepUnmatched)
	return result, nil
}

// Aggregate computes the mean rating per (state, year, general style).
// An empty states filter keeps every state and an empty years filter keeps
// every year. Groups without reviews produce no record.
func (a *ReviewAggregator) Aggregate(reviews []models.Review, users []models.User, states []string, years []int) ([]models.AggregateRecord, error) {
	rows, err := a.Categorize(reviews, users, false)
	if err != nil {
		return nil, err
	}
	return AggregateCategorized(rows, states, years), nil
}

type groupKey struct {
	state string
	year  int
	style models.StyleCategory
}

type groupSum struct {
	sum   float64
	count int
}

// AggregateCategorized groups already categorized rows. Rows tagged
// models.StyleOther are never aggregated. Output is sorted by state, year
// and style.
func AggregateCategorized(rows []models.ReviewerReview, states []string, years []int) []models.AggregateRecord {
	stateOK := stringFilter(states)
	yearOK := intFilter(years)

	groups := make(map[groupKey]*groupSum)
	for _, r := range rows {
		if r.GeneralStyle == "" || r.GeneralStyle == models.StyleOther {
			continue
		}
		if !stateOK(r.State) || !yearOK(r.Year) {
			continue
		}
		k := groupKey{state: r.State, year: r.Year, style: r.GeneralStyle}
		g, ok := groups[k]
		if !ok {
			g = &groupSum{}
			groups[k] = g
		}
		g.sum += r.Rating
		g.count++
	}

	out := make([]models.AggregateRecord, 0, len(groups))
	for k, g := range groups {
		out = append(out, models.AggregateRecord{
			State:     k.state,
			Year:      k.year,
			Style:     k.style,
			AvgRating: g.sum / float64(g.count),
			Reviews:   g.count,
		})
	}
	SortAggregates(out)
	return out
}

// SortAggregates orders records by state, year and style.
func SortAggregates(records []models.AggregateRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Style < b.Style
	})
}

// stateFromLocation returns the text after the last comma, trimmed.
func stateFromLocation(location string) string {
	if idx := strings.LastIndex(location, ","); idx >= 0 {
		return strings.TrimSpace(location[idx+1:])
	}
	return strings.TrimSpace(location)
}

func approximateAge(date int64, u models.User) float64 {
	if !u.HasJoined {
		return math.NaN()
	}
	return float64(date-u.Joined)/secondsPerYear + drinkingAge
}

func stringFilter(values []string) func(string) bool {
	if len(values) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(s string) bool {
		_, ok := set[s]
		return ok
	}
}

func intFilter(values []int) func(int) bool {
	if len(values) == 0 {
		return func(int) bool { return true }
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(n int) bool {
		_, ok := set[n]
		return ok
	}
}
