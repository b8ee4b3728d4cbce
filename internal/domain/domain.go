package domain

import (
	"time"

	"github.com/victornm/compass/internal/archetype"
)

// Result is one completed questionnaire. A session may own many results,
// the latest non-expired one is the result of the session.
type Result struct {
	ID        string
	SessionID string
	// OwnerID tags the result with a signed-in user, empty when anonymous.
	OwnerID      string
	Answers      []int
	Scores       archetype.Scores
	DominantType string
	CompletedAt  time.Time
	// ExpiresAt is zero for a result that never expires.
	ExpiresAt time.Time
}

// Expired reports whether the result is no longer visible at now.
func (r Result) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// View is what a session gets back when it fetches its result.
type View struct {
	SessionID    string
	Answers      []int
	Scores       archetype.Scores
	DominantType string
	CompletedAt  time.Time
}

func (r Result) View() View {
	return View{
		SessionID:    r.SessionID,
		Answers:      r.Answers,
		Scores:       r.Scores,
		DominantType: r.DominantType,
		CompletedAt:  r.CompletedAt,
	}
}
