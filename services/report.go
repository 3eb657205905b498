package services

import (
	"fmt"
	"sort"
	"strings"

	"beer-vote/models"
	"beer-vote/utils"
)

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate summarises a run. aggregates may come from the database instead
// of res when results were persisted.
func (s *ReportService) Generate(totalReviews int, res *models.Results, aggregates []models.AggregateRecord) *models.RunReport {
	report := &models.RunReport{
		Reviews:        totalReviews,
		USReviews:      len(res.Categorized),
		Aggregates:     len(aggregates),
		PartyCounts:    make(map[models.Party]int),
		StyleReviewMix: make(map[models.StyleCategory]int),
		Population:     len(res.Population),
	}

	states := make(map[string]struct{})
	for _, a := range aggregates {
		states[a.State] = struct{}{}
		if a.Year > report.LatestYear {
			report.LatestYear = a.Year
		}
	}
	report.States = len(states)

	for _, r := range res.Categorized {
		report.StyleReviewMix[r.GeneralStyle]++
	}

	for _, c := range res.Classifications {
		report.PartyCounts[c.Party]++
		if c.Party == models.PartySwing {
			report.SwingStates = append(report.SwingStates, c.State)
		}
	}

	for _, f := range res.Favourites {
		if f.Year == report.LatestYear && f.Style != "" {
			report.Favourites = append(report.Favourites, f)
		}
	}
	return report
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🍺 BEER PREFERENCES × VOTING PATTERNS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Reviews loaded          : \033[1m%d\033[0m\n", r.Reviews)
	fmt.Printf("  U.S. categorized rows   : \033[1m%d\033[0m\n", r.USReviews)
	fmt.Printf("  Aggregates              : \033[1m%d\033[0m\n", r.Aggregates)
	fmt.Printf("  States with preferences : \033[1m%d\033[0m\n", r.States)
	fmt.Printf("  Population rows         : \033[1m%d\033[0m\n", r.Population)
	fmt.Println()

	fmt.Printf("\033[1;33m  Reviews per General Style\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.StyleReviewMix) == 0 {
		fmt.Printf("  No categorized reviews\n")
	} else {
		type styleCount struct {
			style models.StyleCategory
			count int
		}
		var mix []styleCount
		for st, n := range r.StyleReviewMix {
			mix = append(mix, styleCount{st, n})
		}
		sort.Slice(mix, func(i, j int) bool {
			if mix[i].count != mix[j].count {
				return mix[i].count > mix[j].count
			}
			return mix[i].style < mix[j].style
		})
		for _, m := range mix {
			fmt.Printf("  %-16s %d\n", m.style, m.count)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  State Classification\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, p := range []models.Party{models.PartyDemocrat, models.PartyRepublican, models.PartySwing} {
		fmt.Printf("  %-12s %d\n", p, r.PartyCounts[p])
	}
	if len(r.SwingStates) > 0 {
		fmt.Printf("  Swing: %s\n", strings.Join(r.SwingStates, ", "))
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Favourite Style per State (%d)\033[0m\n", r.LatestYear)
	fmt.Printf("  %s\n", thin)
	if len(r.Favourites) == 0 {
		fmt.Printf("  No preference data\n")
	} else {
		for _, f := range r.Favourites {
			fmt.Printf("  %-24s %-16s \033[1;32m%.2f ★\033[0m\n", truncate(f.State, 22), f.Style, f.Rating)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
