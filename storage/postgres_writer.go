package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"beer-vote/models"
	"beer-vote/utils"
)

// PostgresWriter persists aggregates, election outcomes and state
// classifications to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, maxRetries int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS state_preferences (
			state       TEXT         NOT NULL,
			year        INTEGER      NOT NULL,
			style       VARCHAR(32)  NOT NULL,
			avg_rating  DOUBLE PRECISION NOT NULL,
			reviews     INTEGER      NOT NULL DEFAULT 0,
			PRIMARY KEY (state, year, style)
		);

		CREATE TABLE IF NOT EXISTS election_outcomes (
			state        TEXT        NOT NULL,
			year         INTEGER     NOT NULL,
			democrat     DOUBLE PRECISION,
			libertarian  DOUBLE PRECISION,
			other        DOUBLE PRECISION,
			republican   DOUBLE PRECISION,
			winner       VARCHAR(16) NOT NULL,
			PRIMARY KEY (state, year)
		);

		CREATE TABLE IF NOT EXISTS state_classifications (
			state  TEXT        PRIMARY KEY,
			party  VARCHAR(16) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_state_preferences_year  ON state_preferences(year);
		CREATE INDEX IF NOT EXISTS idx_state_preferences_style ON state_preferences(style);
	`)
	return err
}

// Write replaces the stored results inside one transaction, so readers
// never observe a partially written run.
func (pw *PostgresWriter) Write(r *models.Results) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"state_preferences", "election_outcomes", "state_classifications"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("postgres: clear %s: %w", table, err)
		}
	}

	prefs := make([][]any, 0, len(r.Aggregates))
	for _, a := range r.Aggregates {
		prefs = append(prefs, []any{a.State, a.Year, string(a.Style), a.AvgRating, a.Reviews})
	}
	if err := insertBatches(tx, "state_preferences",
		[]string{"state", "year", "style", "avg_rating", "reviews"}, prefs); err != nil {
		return err
	}

	outcomes := make([][]any, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		row := []any{o.State, o.Year}
		for _, p := range models.Parties {
			if v, ok := o.Percentages[p]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		outcomes = append(outcomes, append(row, string(o.Winner)))
	}
	if err := insertBatches(tx, "election_outcomes",
		[]string{"state", "year", "democrat", "libertarian", "other", "republican", "winner"}, outcomes); err != nil {
		return err
	}

	classes := make([][]any, 0, len(r.Classifications))
	for _, c := range r.Classifications {
		classes = append(classes, []any{c.State, string(c.Party)})
	}
	if err := insertBatches(tx, "state_classifications", []string{"state", "party"}, classes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatches(tx *sql.Tx, table string, columns []string, rows [][]any) error {
	const batchSize = 200
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := insertBatch(tx, table, columns, rows[i:end]); err != nil {
			return fmt.Errorf("postgres: insert %s: %w", table, err)
		}
	}
	return nil
}

func insertBatch(tx *sql.Tx, table string, columns []string, batch [][]any) error {
	width := len(columns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*width)

	for idx, row := range batch {
		placeholders := make([]string, width)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*width+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(valueStrings, ","))

	_, err := tx.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchPreferences retrieves the stored aggregates, used by the run report.
func (pw *PostgresWriter) FetchPreferences() ([]models.AggregateRecord, error) {
	rows, err := pw.db.Query(`
		SELECT state, year, style, avg_rating, reviews
		FROM state_preferences
		ORDER BY state, year, style
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch preferences: %w", err)
	}
	defer rows.Close()

	var out []models.AggregateRecord
	for rows.Next() {
		var a models.AggregateRecord
		var style string
		if err := rows.Scan(&a.State, &a.Year, &style, &a.AvgRating, &a.Reviews); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		a.Style = models.StyleCategory(style)
		out = append(out, a)
	}
	return out, rows.Err()
}
