package result

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS test_results (
	result_id     TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	owner_id      TEXT,
	answers       TEXT,
	cowboy        INTEGER NOT NULL,
	pirate        INTEGER NOT NULL,
	werewolf      INTEGER NOT NULL,
	vampire       INTEGER NOT NULL,
	dominant_type TEXT NOT NULL,
	completed_at  INTEGER NOT NULL,
	expires_at    INTEGER
);

CREATE INDEX IF NOT EXISTS test_results_by_session ON test_results (session_id, completed_at DESC);`

const sqliteColumns = `result_id, session_id, owner_id, answers, cowboy, pirate, werewolf, vampire, dominant_type, completed_at, expires_at`

// SQLiteStore stores results in a SQLite database. Answers are kept as a
// JSON array, times as Unix milliseconds.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path, ":memory:" for a private
// in-memory database, and creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// A single connection serializes writes and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	s := NewSQLiteStore(db)
	if err := s.Migrate(ctx); err != nil {
		return nil, stderrors.Join(err, db.Close())
	}

	return s, nil
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, r domain.Result) error {
	const stmt = `INSERT INTO test_results (` + sqliteColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	var expires sql.NullInt64
	if !r.ExpiresAt.IsZero() {
		expires = sql.NullInt64{Int64: r.ExpiresAt.UnixMilli(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, stmt,
		r.ID,
		r.SessionID,
		sql.NullString{String: r.OwnerID, Valid: r.OwnerID != ""},
		string(answers),
		r.Scores.Cowboy,
		r.Scores.Pirate,
		r.Scores.Werewolf,
		r.Scores.Vampire,
		r.DominantType,
		r.CompletedAt.UnixMilli(),
		expires,
	)
	return err
}

func (s *SQLiteStore) LatestBySession(ctx context.Context, sessionID string) (*domain.Result, error) {
	const stmt = `
SELECT ` + sqliteColumns + `
FROM test_results
WHERE session_id = ?
ORDER BY completed_at DESC, result_id DESC
LIMIT 1;`

	r, err := scanSQLiteResult(s.db.QueryRowContext(ctx, stmt, sessionID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, err
	}

	return &r, nil
}

func (s *SQLiteStore) All(ctx context.Context) (_ []domain.Result, err error) {
	const stmt = `
SELECT ` + sqliteColumns + `
FROM test_results
ORDER BY completed_at ASC, result_id ASC;`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = stderrors.Join(err, rows.Close())
	}()

	var res []domain.Result
	for rows.Next() {
		r, err := scanSQLiteResult(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}

	return res, rows.Err()
}

func (s *SQLiteStore) Patch(ctx context.Context, id string, scores archetype.Scores, dominantType string) error {
	const stmt = `
UPDATE test_results
SET cowboy = ?, pirate = ?, werewolf = ?, vampire = ?, dominant_type = ?
WHERE result_id = ?;`

	res, err := s.db.ExecContext(ctx, stmt, scores.Cowboy, scores.Pirate, scores.Werewolf, scores.Vampire, dominantType, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoResult
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteResult(row rowScanner) (domain.Result, error) {
	var (
		r         domain.Result
		owner     sql.NullString
		answers   sql.NullString
		completed int64
		expires   sql.NullInt64
	)

	err := row.Scan(
		&r.ID,
		&r.SessionID,
		&owner,
		&answers,
		&r.Scores.Cowboy,
		&r.Scores.Pirate,
		&r.Scores.Werewolf,
		&r.Scores.Vampire,
		&r.DominantType,
		&completed,
		&expires,
	)
	if err != nil {
		return domain.Result{}, err
	}

	r.OwnerID = owner.String
	r.CompletedAt = time.UnixMilli(completed).UTC()
	if expires.Valid {
		r.ExpiresAt = time.UnixMilli(expires.Int64).UTC()
	}

	// A row with unreadable answers is kept and rescored as unanswered.
	if answers.Valid && answers.String != "" {
		if err := json.Unmarshal([]byte(answers.String), &r.Answers); err != nil {
			r.Answers = nil
		}
	}

	return r, nil
}
