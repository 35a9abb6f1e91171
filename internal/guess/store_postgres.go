package guess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresStore persists guesses in PostgreSQL.
// This store is pure I/O; the guard sequence belongs in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed guess store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, g Guess) error {
	query := `
		INSERT INTO guesses (id, game_id, participant_id, first_team_points, second_team_points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.GameID, g.ParticipantID, g.FirstTeamPoints, g.SecondTeamPoints, g.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create guess: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByGameAndParticipant(ctx context.Context, gameID, participantID uuid.UUID) (*Guess, error) {
	query := `
		SELECT id, game_id, participant_id, first_team_points, second_team_points, created_at
		FROM guesses
		WHERE game_id = $1 AND participant_id = $2
	`
	var g Guess
	err := s.db.QueryRowContext(ctx, query, gameID, participantID).
		Scan(&g.ID, &g.GameID, &g.ParticipantID, &g.FirstTeamPoints, &g.SecondTeamPoints, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find guess: %w", err)
	}
	return &g, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM guesses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count guesses: %w", err)
	}
	return count, nil
}
