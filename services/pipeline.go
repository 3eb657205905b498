package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"beer-vote/config"
	"beer-vote/models"
	"beer-vote/storage"
	"beer-vote/utils"
)

// Inputs holds every input table of a run, fully loaded in memory.
// Wide is set instead of Users and Reviews when preferences are read from
// an earlier wide table.
type Inputs struct {
	Users      []models.User
	Reviews    []models.Review
	Wide       *models.WideTable
	Votes      []models.VoteTotal
	AgeVotes   map[int][]models.AgeVoteRow
	Population []models.PopulationRow
}

// Pipeline runs the whole batch: load, classify, aggregate, pivot, derive
// election outcomes and interpolate demographics.
type Pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewPipeline creates a Pipeline for the given configuration.
func NewPipeline(cfg *config.Config, logger *utils.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// ReviewSource returns the configured review source.
func (p *Pipeline) ReviewSource() storage.ReviewSource {
	if p.cfg.ReviewsFormat == "text" {
		return storage.ReviewsFromText(p.cfg.ReviewsPath)
	}
	return storage.ReviewsFromCSV(p.cfg.ReviewsPath)
}

// LoadInputs reads the independent input files concurrently. The first
// failure cancels the remaining loads.
func (p *Pipeline) LoadInputs(ctx context.Context) (*Inputs, error) {
	in := &Inputs{AgeVotes: make(map[int][]models.AgeVoteRow)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.MaxParallelLoads > 0 {
		g.SetLimit(p.cfg.MaxParallelLoads)
	}

	if p.cfg.WideInputPath != "" {
		g.Go(func() error {
			wide, err := storage.LoadWide(gctx, p.cfg.WideInputPath)
			if err != nil {
				return err
			}
			in.Wide = &wide
			p.logger.Info("[load] %d states × %d columns from %s", len(wide.Rows), len(wide.Columns), p.cfg.WideInputPath)
			return nil
		})
	} else {
		g.Go(func() error {
			users, err := storage.LoadUsers(gctx, p.cfg.UsersPath)
			if err != nil {
				return err
			}
			in.Users = users
			p.logger.Info("[load] %d users from %s", len(users), p.cfg.UsersPath)
			return nil
		})

		src := p.ReviewSource()
		g.Go(func() error {
			reviews, err := src.Load(gctx)
			if err != nil {
				return err
			}
			in.Reviews = reviews
			p.logger.Info("[load] %d reviews from %s", len(reviews), src)
			return nil
		})
	}

	g.Go(func() error {
		votes, err := storage.LoadVotes(gctx, p.cfg.VotesPath)
		if err != nil {
			return err
		}
		in.Votes = votes
		p.logger.Info("[load] %d vote rows from %s", len(votes), p.cfg.VotesPath)
		return nil
	})

	if p.cfg.PopulationPath != "" {
		g.Go(func() error {
			rows, err := storage.LoadPopulation(gctx, p.cfg.PopulationPath)
			if err != nil {
				return err
			}
			in.Population = rows
			p.logger.Info("[load] %d population rows from %s", len(rows), p.cfg.PopulationPath)
			return nil
		})
	}

	for _, year := range p.cfg.Pipeline.ElectionYears {
		year := year
		path := p.cfg.DemographicsPath(year)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := storage.LoadAgeVotes(path)
			if err != nil {
				return err
			}
			mu.Lock()
			in.AgeVotes[year] = rows
			mu.Unlock()
			p.logger.Info("[load] %d exit-poll rows from %s", len(rows), path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return in, nil
}

// NewClassifier builds the style classifier from configured CEL rules, or
// the built-in keyword rules when none are configured.
func (p *Pipeline) NewClassifier() (*StyleClassifier, error) {
	if len(p.cfg.Pipeline.StyleRules) == 0 {
		return NewDefaultStyleClassifier(), nil
	}
	rules, err := CELStyleRules(p.cfg.Pipeline.StyleRules)
	if err != nil {
		return nil, err
	}
	p.logger.Info("[styles] Using %d configured style rules", len(rules))
	return NewStyleClassifier(rules), nil
}

// Compute runs every stage over loaded inputs. It writes nothing.
func (p *Pipeline) Compute(in *Inputs) (*models.Results, error) {
	settings := p.cfg.Pipeline

	categorized, aggregates, err := p.preferences(in)
	if err != nil {
		return nil, err
	}
	p.logger.Info("[reviews] %d (state, year, style) aggregates", len(aggregates))

	wide := ToWide(aggregates, settings.Years)
	p.logger.Info("[pivot] Wide table: %d states × %d columns", len(wide.Rows), len(wide.Columns))

	elections := NewElectionService(p.logger)
	outcomes, err := elections.ComputeWinners(in.Votes, settings.VoteYearFrom, settings.VoteYearTo)
	if err != nil {
		return nil, fmt.Errorf("stage elections: %w", err)
	}
	classifications := elections.ClassifyStates(outcomes)

	demographics := NewDemographicService(p.logger)
	perYear := make(map[int][]models.DemographicObservation, len(settings.ElectionYears))
	for _, year := range settings.ElectionYears {
		rows, ok := in.AgeVotes[year]
		if !ok {
			return nil, fmt.Errorf("stage demographics: no exit-poll data for %d", year)
		}
		perYear[year] = demographics.Normalize(rows, WinnersForYear(outcomes, year), year)
	}
	joined := demographics.JoinElectionYears(perYear, settings.ElectionYears)
	points, err := Interpolate(joined, settings.ElectionYears)
	if err != nil {
		return nil, fmt.Errorf("stage interpolate: %w", err)
	}

	population := NewPopulationService(p.logger).Shares(in.Population, settings.ElectionYears)

	top, err := TopStyles(wide, 3)
	if err != nil {
		return nil, fmt.Errorf("stage favourites: %w", err)
	}

	return &models.Results{
		Categorized:     categorized,
		Aggregates:      aggregates,
		Wide:            wide,
		Outcomes:        outcomes,
		Classifications: classifications,
		Demographics:    points,
		Population:      population,
		Favourites:      Favourites(wide, settings.Years),
		TopStyles:       top,
	}, nil
}

// preferences returns the categorized reviews and per (state, year, style)
// aggregates. With a wide input table there are no reviews and the
// aggregates are melted from the table.
func (p *Pipeline) preferences(in *Inputs) ([]models.ReviewerReview, []models.AggregateRecord, error) {
	settings := p.cfg.Pipeline

	if in.Wide != nil {
		long, err := Melt(*in.Wide)
		if err != nil {
			return nil, nil, fmt.Errorf("stage melt: %w", err)
		}
		stateOK, yearOK := stringFilter(settings.States), intFilter(settings.Years)
		aggregates := make([]models.AggregateRecord, 0, len(long))
		for _, a := range long {
			if stateOK(a.State) && yearOK(a.Year) {
				aggregates = append(aggregates, a)
			}
		}
		return nil, aggregates, nil
	}

	classifier, err := p.NewClassifier()
	if err != nil {
		return nil, nil, fmt.Errorf("stage styles: %w", err)
	}
	aggregator := NewReviewAggregator(p.logger, classifier)
	categorized, err := aggregator.Categorize(in.Reviews, in.Users, p.cfg.KeepUnmatchedStyles)
	if err != nil {
		return nil, nil, fmt.Errorf("stage categorize: %w", err)
	}
	return categorized, AggregateCategorized(categorized, settings.States, settings.Years), nil
}

// Run loads the inputs and computes the results.
func (p *Pipeline) Run(ctx context.Context) (*Inputs, *models.Results, error) {
	in, err := p.LoadInputs(ctx)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Compute(in)
	if err != nil {
		return nil, nil, err
	}
	return in, res, nil
}
