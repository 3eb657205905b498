package models

import "math"

// StyleCategory is one of the general beer styles reviews are bucketed into.
type StyleCategory string

const (
	StylePaleAle     StyleCategory = "Pale Ale"
	StyleOtherAle    StyleCategory = "Other Ale"
	StyleLager       StyleCategory = "Lager"
	StyleRedAmberAle StyleCategory = "Red/Amber Ale"
	StyleStout       StyleCategory = "Stout"
	StylePorter      StyleCategory = "Porter"
	StyleIPA         StyleCategory = "IPA"
	StylePilsner     StyleCategory = "Pilsner"

	// StyleOther tags reviews whose style matched no rule. It never takes
	// part in aggregation.
	StyleOther StyleCategory = "Other"
)

// AllStyles lists the eight general styles in alphabetical order.
var AllStyles = []StyleCategory{
	StyleIPA, StyleLager, StyleOtherAle, StylePaleAle,
	StylePilsner, StylePorter, StyleRedAmberAle, StyleStout,
}

// ParseStyleCategory maps a label back to one of the eight general styles.
func ParseStyleCategory(s string) (StyleCategory, bool) {
	for _, c := range AllStyles {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// User is a reviewer profile as found in users.csv.
type User struct {
	UserID    string
	Joined    int64
	HasJoined bool
	Location  string
}

// Review is a single rating event. Beer identifying fields are carried
// through to the categorized export but are not used by aggregation.
type Review struct {
	UserID      string
	UserName    string
	BeerName    string
	BeerID      string
	BreweryName string
	BreweryID   string
	Style       string
	ABV         string
	Rating      float64
	Date        int64
}

// ReviewerReview is a review joined with its reviewer and enriched with the
// derived columns used downstream.
type ReviewerReview struct {
	Review
	Location     string
	State        string
	Year         int
	Age          float64
	GeneralStyle StyleCategory
}

// HasAge reports whether an approximate age could be derived.
func (r ReviewerReview) HasAge() bool {
	return !math.IsNaN(r.Age)
}

// AggregateRecord is the mean rating of one general style in one state and year.
type AggregateRecord struct {
	State     string
	Year      int
	Style     StyleCategory
	AvgRating float64
	Reviews   int
}
