package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists games in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed game store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, g Game) error {
	query := `
		INSERT INTO games (id, date, first_team_country_code, second_team_country_code)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, g.ID, g.Date, g.FirstTeamCountryCode, g.SecondTeamCountryCode); err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	query := `
		SELECT id, date, first_team_country_code, second_team_country_code
		FROM games
		WHERE id = $1
	`
	var g Game
	err := s.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Date, &g.FirstTeamCountryCode, &g.SecondTeamCountryCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find game: %w", err)
	}
	return &g, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Game, error) {
	query := `
		SELECT id, date, first_team_country_code, second_team_country_code
		FROM games
		ORDER BY date DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Date, &g.FirstTeamCountryCode, &g.SecondTeamCountryCode); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}
