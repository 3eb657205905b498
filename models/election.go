package models

// Party is a simplified party label as used by the presidential vote table.
type Party string

const (
	PartyDemocrat    Party = "DEMOCRAT"
	PartyLibertarian Party = "LIBERTARIAN"
	PartyOther       Party = "OTHER"
	PartyRepublican  Party = "REPUBLICAN"

	// PartySwing classifies a state whose winner changed over the period.
	PartySwing Party = "SWING"
)

// Parties is the fixed column order of the winners table. It is also the
// tie-break order: on equal vote share the first party listed wins.
var Parties = []Party{PartyDemocrat, PartyLibertarian, PartyOther, PartyRepublican}

// VoteTotal is one row of the presidential vote table.
type VoteTotal struct {
	Year           int
	State          string
	Party          Party
	CandidateVotes int64
	TotalVotes     int64
}

// ElectionOutcome is the vote share of every party in a state and election
// year together with the plurality winner.
type ElectionOutcome struct {
	State       string
	Year        int
	Percentages map[Party]float64
	Winner      Party
}

// StateClassification labels a state DEMOCRAT, REPUBLICAN or SWING.
type StateClassification struct {
	State string
	Party Party
}

// AgeBracket is an exit-poll age group. The 65+ group is dropped on load.
type AgeBracket string

const (
	Bracket18to29 AgeBracket = "18_29"
	Bracket30to44 AgeBracket = "30_44"
	Bracket45to64 AgeBracket = "45_64"
)

// AgeBrackets lists the brackets carried through interpolation.
var AgeBrackets = []AgeBracket{Bracket18to29, Bracket30to44, Bracket45to64}

// DemographicObservation is the normalised democrat share of one age bracket
// in one state at one election year.
type DemographicObservation struct {
	State    string
	Bracket  AgeBracket
	Year     int
	Democrat float64
}

// DemographicPoint is one row of the annual, interpolated series.
type DemographicPoint struct {
	State      string
	Bracket    AgeBracket
	Year       int
	Democrat   float64
	Republican float64
}

// AgeVoteRow is one state's line of an exit-poll file. Shares missing from
// the file are absent from the maps.
type AgeVoteRow struct {
	State      string
	Division   string
	Region     string
	Democrat   map[AgeBracket]float64
	Republican map[AgeBracket]float64
}
