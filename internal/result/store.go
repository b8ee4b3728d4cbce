package result

import (
	"context"
	"errors"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
)

// ErrNoResult is returned by a Store when the requested result does not exist.
var ErrNoResult = errors.New("result: no result")

// Store persists results. Every method is a single insert, read or patch,
// none of them is expected to coordinate with another.
type Store interface {
	// Insert appends a new result, results are never overwritten.
	Insert(ctx context.Context, r domain.Result) error
	// LatestBySession returns the most recently completed result of a
	// session, expired or not.
	LatestBySession(ctx context.Context, sessionID string) (*domain.Result, error)
	// All returns every stored result, oldest first.
	All(ctx context.Context) ([]domain.Result, error)
	// Patch overwrites the scores and dominant type of a result.
	Patch(ctx context.Context, id string, scores archetype.Scores, dominantType string) error
}
