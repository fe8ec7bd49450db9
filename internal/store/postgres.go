// Package store persists normalized offers in postgres. The offer URL is the
// upsert key; each successful run replaces the previous run's results.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobscout-automation/internal/scraper"
)

type Store struct {
	db *pgxpool.Pool
}

func Connect(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Store{db: pool}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// EnsureSchema creates the offer table when it does not exist yet.
// date_posted stays TEXT: the value is a date-only string and NULL means the
// detail page yielded no structured posting date.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_offers (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			location TEXT NOT NULL,
			salary TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			date_posted TEXT,
			scraped_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure job_offers schema: %w", err)
	}
	return nil
}

// ReplaceOffers clears the previous run's results and upserts the new batch
// keyed by url, all in one transaction so readers never observe a partial
// write. Returns the number of rows written.
func (s *Store) ReplaceOffers(ctx context.Context, offers []scraper.JobOffer) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_offers`); err != nil {
		return 0, fmt.Errorf("clear stale offers: %w", err)
	}

	written := 0
	for _, offer := range offers {
		query := `
			INSERT INTO job_offers (title, company, location, salary, skills, url, source, date_posted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (url)
			DO UPDATE SET title = EXCLUDED.title, company = EXCLUDED.company, location = EXCLUDED.location,
				salary = EXCLUDED.salary, skills = EXCLUDED.skills, source = EXCLUDED.source,
				date_posted = EXCLUDED.date_posted`

		tag, err := tx.Exec(ctx, query,
			offer.Title, offer.Company, offer.Location, offer.Salary,
			offer.Skills, offer.URL, offer.Source, offer.DatePosted)
		if err != nil {
			return 0, fmt.Errorf("upsert offer %s: %w", offer.URL, err)
		}
		written += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

// RecentOffers returns the newest stored offers, most recent first.
func (s *Store) RecentOffers(ctx context.Context, limit int) ([]scraper.JobOffer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT title, company, location, salary, skills, url, source, date_posted
		FROM job_offers
		ORDER BY scraped_date DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent offers: %w", err)
	}
	defer rows.Close()

	var offers []scraper.JobOffer
	for rows.Next() {
		var offer scraper.JobOffer
		if err := rows.Scan(&offer.Title, &offer.Company, &offer.Location, &offer.Salary,
			&offer.Skills, &offer.URL, &offer.Source, &offer.DatePosted); err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer rows: %w", err)
	}
	return offers, nil
}
