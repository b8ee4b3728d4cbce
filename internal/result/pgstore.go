package result

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS test_results (
	result_id     TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	owner_id      TEXT,
	answers       INTEGER[],
	cowboy        INTEGER NOT NULL,
	pirate        INTEGER NOT NULL,
	werewolf      INTEGER NOT NULL,
	vampire       INTEGER NOT NULL,
	dominant_type TEXT NOT NULL,
	completed_at  TIMESTAMPTZ NOT NULL,
	expires_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS test_results_by_session ON test_results (session_id, completed_at DESC);`

const pgColumns = `result_id, session_id, owner_id, answers, cowboy, pirate, werewolf, vampire, dominant_type, completed_at, expires_at`

// PGStore stores results in PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Migrate creates the results table if it does not exist yet.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PGStore) Insert(ctx context.Context, r domain.Result) error {
	const stmt = `INSERT INTO test_results (` + pgColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err := s.db.Exec(ctx, stmt,
		r.ID,
		r.SessionID,
		nullString(r.OwnerID),
		r.Answers,
		r.Scores.Cowboy,
		r.Scores.Pirate,
		r.Scores.Werewolf,
		r.Scores.Vampire,
		r.DominantType,
		r.CompletedAt,
		nullTime(r.ExpiresAt),
	)
	return err
}

func (s *PGStore) LatestBySession(ctx context.Context, sessionID string) (*domain.Result, error) {
	const stmt = `
SELECT ` + pgColumns + `
FROM test_results
WHERE session_id = $1
ORDER BY completed_at DESC, result_id DESC
LIMIT 1;`

	rows, err := s.db.Query(ctx, stmt, sessionID)
	if err != nil {
		return nil, err
	}

	r, err := pgx.CollectOneRow(rows, scanPGResult)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, err
	}

	return &r, nil
}

func (s *PGStore) All(ctx context.Context) ([]domain.Result, error) {
	const stmt = `
SELECT ` + pgColumns + `
FROM test_results
ORDER BY completed_at ASC, result_id ASC;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanPGResult)
}

func (s *PGStore) Patch(ctx context.Context, id string, scores archetype.Scores, dominantType string) error {
	const stmt = `
UPDATE test_results
SET cowboy = $2, pirate = $3, werewolf = $4, vampire = $5, dominant_type = $6
WHERE result_id = $1;`

	tag, err := s.db.Exec(ctx, stmt, id, scores.Cowboy, scores.Pirate, scores.Werewolf, scores.Vampire, dominantType)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoResult
	}

	return nil
}

func scanPGResult(row pgx.CollectableRow) (domain.Result, error) {
	var (
		r       domain.Result
		owner   *string
		expires *time.Time
	)

	err := row.Scan(
		&r.ID,
		&r.SessionID,
		&owner,
		&r.Answers,
		&r.Scores.Cowboy,
		&r.Scores.Pirate,
		&r.Scores.Werewolf,
		&r.Scores.Vampire,
		&r.DominantType,
		&r.CompletedAt,
		&expires,
	)
	if err != nil {
		return domain.Result{}, err
	}

	if owner != nil {
		r.OwnerID = *owner
	}
	if expires != nil {
		r.ExpiresAt = expires.UTC()
	}
	r.CompletedAt = r.CompletedAt.UTC()

	return r, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
