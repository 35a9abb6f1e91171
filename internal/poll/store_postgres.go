package poll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresStore persists polls and participants in PostgreSQL.
// This store is pure I/O; membership and ownership rules belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed poll store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreatePoll(ctx context.Context, p Poll) error {
	query := `
		INSERT INTO polls (id, title, code, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	var ownerID any
	if p.OwnerID != nil {
		ownerID = *p.OwnerID
	}
	if _, err := s.db.ExecContext(ctx, query, p.ID, p.Title, p.Code, ownerID, p.CreatedAt); err != nil {
		return fmt.Errorf("create poll: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindPollByID(ctx context.Context, id uuid.UUID) (*Poll, error) {
	query := `
		SELECT id, title, code, owner_id, created_at
		FROM polls
		WHERE id = $1
	`
	p, err := scanPoll(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find poll by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindPollByCode(ctx context.Context, code string) (*Poll, error) {
	query := `
		SELECT id, title, code, owner_id, created_at
		FROM polls
		WHERE code = $1
	`
	p, err := scanPoll(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find poll by code: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) SetPollOwner(ctx context.Context, pollID, ownerID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE polls SET owner_id = $2 WHERE id = $1`, pollID, ownerID)
	if err != nil {
		return fmt.Errorf("set poll owner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set poll owner: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountPolls(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM polls`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count polls: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) ListPollsByUser(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	query := `
		SELECT p.id, p.title, p.code, p.owner_id, p.created_at,
		       (SELECT count(*) FROM participants c WHERE c.poll_id = p.id) AS participant_count
		FROM polls p
		JOIN participants me ON me.poll_id = p.id AND me.user_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list polls by user: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var ownerID sql.Null[uuid.UUID]
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Code, &ownerID, &sum.CreatedAt, &sum.ParticipantCount); err != nil {
			return nil, fmt.Errorf("scan poll summary: %w", err)
		}
		if ownerID.Valid {
			sum.OwnerID = &ownerID.V
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list polls by user: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateParticipant(ctx context.Context, p Participant) error {
	query := `
		INSERT INTO participants (id, user_id, poll_id)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, p.ID, p.UserID, p.PollID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateParticipant
		}
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindParticipantByUserAndPoll(ctx context.Context, userID, pollID uuid.UUID) (*Participant, error) {
	query := `
		SELECT id, user_id, poll_id
		FROM participants
		WHERE user_id = $1 AND poll_id = $2
	`
	var p Participant
	err := s.db.QueryRowContext(ctx, query, userID, pollID).Scan(&p.ID, &p.UserID, &p.PollID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return &p, nil
}

func scanPoll(row *sql.Row) (*Poll, error) {
	var p Poll
	var ownerID sql.Null[uuid.UUID]
	if err := row.Scan(&p.ID, &p.Title, &p.Code, &ownerID, &p.CreatedAt); err != nil {
		return nil, err
	}
	if ownerID.Valid {
		p.OwnerID = &ownerID.V
	}
	return &p, nil
}
