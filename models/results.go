package models

// Results bundles every artifact of one pipeline run. Nothing is written
// until the whole bundle has been computed.
type Results struct {
	Categorized     []ReviewerReview
	Aggregates      []AggregateRecord
	Wide            WideTable
	Outcomes        []ElectionOutcome
	Classifications []StateClassification
	Demographics    []DemographicPoint
	Population      []PopulationShare
	Favourites      []FavouriteStyle
	TopStyles       []FavouriteStyle
}

// RunReport summarises a run for the console.
type RunReport struct {
	Reviews        int
	USReviews      int
	Aggregates     int
	States         int
	LatestYear     int
	Population     int
	Favourites     []FavouriteStyle
	PartyCounts    map[Party]int
	SwingStates    []string
	StyleReviewMix map[StyleCategory]int
}
