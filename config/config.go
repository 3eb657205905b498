package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultElectionYears are the presidential elections inside the review period.
var DefaultElectionYears = []int{2004, 2008, 2012, 2016}

// OverlapStates are the states with reviews in every year of the period.
var OverlapStates = []string{
	"New York", "California", "New Hampshire", "Wisconsin", "Nevada",
	"Pennsylvania", "Virginia", "Ohio", "Florida", "North Carolina",
	"Arizona", "Indiana", "Georgia", "Texas", "South Carolina", "Iowa", "Kentucky",
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	UsersPath           string
	ReviewsPath         string
	ReviewsFormat       string
	VotesPath           string
	DemographicsPattern string
	PopulationPath      string
	WideInputPath       string
	OutputDir           string

	KeepUnmatchedStyles bool
	MaxParallelLoads    int

	Pipeline Pipeline
}

// Pipeline holds the list-valued settings read from the optional YAML file.
type Pipeline struct {
	Years         []int       `yaml:"years"`
	ElectionYears []int       `yaml:"election_years"`
	VoteYearFrom  int         `yaml:"vote_year_from"`
	VoteYearTo    int         `yaml:"vote_year_to"`
	States        []string    `yaml:"states"`
	StyleRules    []StyleRule `yaml:"style_rules"`
}

// StyleRule maps a CEL expression over the style's `tokens` to a general style.
type StyleRule struct {
	Category string `yaml:"category"`
	Expr     string `yaml:"expr"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "beer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "beer123"),
		PostgresDB:       getEnv("POSTGRES_DB", "beer_vote"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		UsersPath:           getEnv("USERS_PATH", "./data/BeerAdvocate/users.csv"),
		ReviewsPath:         getEnv("REVIEWS_PATH", "./data/generated/reviews_df.csv"),
		ReviewsFormat:       getEnv("REVIEWS_FORMAT", "csv"),
		VotesPath:           getEnv("VOTES_PATH", "./data/1976-2020-president.csv"),
		DemographicsPattern: getEnv("DEMOGRAPHICS_PATTERN", "./data/%d_per_age_region.csv"),
		PopulationPath:      optionalPath(getEnv("POPULATION_PATH", "./data/correlates2-6.csv")),
		WideInputPath:       optionalPath(os.Getenv("WIDE_INPUT_PATH")),
		OutputDir:           getEnv("OUTPUT_DIR", "./data/generated"),

		KeepUnmatchedStyles: getEnvBool("KEEP_UNMATCHED_STYLES", false),
		MaxParallelLoads:    getEnvInt("MAX_PARALLEL_LOADS", 4),

		Pipeline: DefaultPipeline(),
	}

	if path := os.Getenv("PIPELINE_CONFIG"); path != "" {
		p, err := LoadPipeline(path)
		if err != nil {
			return nil, err
		}
		cfg.Pipeline = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPipeline covers 2004–2016 for all states with the built-in style rules.
func DefaultPipeline() Pipeline {
	years := make([]int, 0, 13)
	for y := 2004; y <= 2016; y++ {
		years = append(years, y)
	}
	return Pipeline{
		Years:         years,
		ElectionYears: append([]int(nil), DefaultElectionYears...),
		VoteYearFrom:  2001,
		VoteYearTo:    2017,
	}
}

// LoadPipeline reads a YAML pipeline file. Unset fields keep their defaults.
// The special states value "overlap" expands to OverlapStates.
func LoadPipeline(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: read pipeline file: %w", err)
	}
	return ParsePipeline(data)
}

// ParsePipeline decodes YAML pipeline settings on top of DefaultPipeline.
func ParsePipeline(data []byte) (Pipeline, error) {
	p := DefaultPipeline()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pipeline{}, fmt.Errorf("config: parse pipeline yaml: %w", err)
	}
	if len(p.States) == 1 && strings.EqualFold(p.States[0], "overlap") {
		p.States = append([]string(nil), OverlapStates...)
	}
	return p, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.ReviewsFormat {
	case "csv", "text":
	default:
		return fmt.Errorf("config: REVIEWS_FORMAT must be csv or text, got %q", c.ReviewsFormat)
	}
	if len(c.Pipeline.Years) == 0 {
		return fmt.Errorf("config: at least one review year is required")
	}
	if len(c.Pipeline.ElectionYears) == 0 {
		return fmt.Errorf("config: at least one election year is required")
	}
	if y, ok := firstDuplicate(c.Pipeline.Years); ok {
		return fmt.Errorf("config: year %d listed twice in years", y)
	}
	if y, ok := firstDuplicate(c.Pipeline.ElectionYears); ok {
		return fmt.Errorf("config: year %d listed twice in election_years", y)
	}
	if c.Pipeline.VoteYearFrom > c.Pipeline.VoteYearTo {
		return fmt.Errorf("config: vote_year_from %d after vote_year_to %d",
			c.Pipeline.VoteYearFrom, c.Pipeline.VoteYearTo)
	}
	if !strings.Contains(c.DemographicsPattern, "%d") {
		return fmt.Errorf("config: DEMOGRAPHICS_PATTERN must contain %%d for the year")
	}
	return nil
}

func firstDuplicate(years []int) (int, bool) {
	seen := make(map[int]struct{}, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			return y, true
		}
		seen[y] = struct{}{}
	}
	return 0, false
}

// DemographicsPath returns the exit-poll file for an election year.
func (c *Config) DemographicsPath(year int) string {
	return fmt.Sprintf(c.DemographicsPattern, year)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// optionalPath maps "none" to the empty path, which disables an input.
func optionalPath(path string) string {
	if strings.EqualFold(strings.TrimSpace(path), "none") {
		return ""
	}
	return path
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
