package models

// PopulationGroup is an age group of the state population table.
type PopulationGroup string

const (
	Pop25to44 PopulationGroup = "25_44"
	Pop45to64 PopulationGroup = "45_64"
	PopOver65 PopulationGroup = "65_plus"
)

// PopulationGroups is the fixed column order of the population output.
var PopulationGroups = []PopulationGroup{Pop25to44, Pop45to64, PopOver65}

// PopulationRow is one (state, year) line of the state correlates table.
// Counts are head counts, Percents are percentages in 0..100. Values missing
// from the file are absent from the maps.
type PopulationRow struct {
	State         string
	Year          int
	Population    float64
	HasPopulation bool
	Counts        map[PopulationGroup]float64
	Percents      map[PopulationGroup]float64
}

// PopulationShare is the fraction (0..1) of a state's population in each
// age group at an election year. Groups without data are absent.
type PopulationShare struct {
	State         string
	Year          int
	Population    float64
	HasPopulation bool
	Shares        map[PopulationGroup]float64
}
