// Package database opens the Postgres connection pool and bootstraps the
// schema. Stores receive the *sql.DB and stay pure I/O.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"bolao/internal/platform/config"
)

// Open connects to Postgres through the pgx stdlib driver and verifies the
// connection. Returns nil if no URL is configured (database disabled).
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables the stores expect. The unique indexes on
// participants and guesses are load-bearing: they are the authoritative
// enforcement point for the one-membership-per-poll and one-guess-per-game
// invariants under concurrent requests.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	google_id TEXT NOT NULL UNIQUE,
	avatar_url TEXT NOT NULL DEFAULT '',
	device TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS polls (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE,
	owner_id UUID REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS participants (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	poll_id UUID NOT NULL REFERENCES polls(id),
	UNIQUE (user_id, poll_id)
);

CREATE TABLE IF NOT EXISTS games (
	id UUID PRIMARY KEY,
	date TIMESTAMPTZ NOT NULL,
	first_team_country_code TEXT NOT NULL,
	second_team_country_code TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS guesses (
	id UUID PRIMARY KEY,
	game_id UUID NOT NULL REFERENCES games(id),
	participant_id UUID NOT NULL REFERENCES participants(id),
	first_team_points INTEGER NOT NULL,
	second_team_points INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (game_id, participant_id)
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
