package api

import (
	stderrors "errors"
	"time"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
	"github.com/victornm/compass/internal/errors"
	"github.com/victornm/compass/internal/result"
)

type (
	submitRequest struct {
		SessionID string `json:"session_id"`
		Answers   []int  `json:"answers"`
		// Scores and DominantType are either both set, and trusted, or both absent.
		Scores       *archetype.Scores `json:"scores,omitempty"`
		DominantType *string           `json:"dominant_type,omitempty"`
	}

	submitResponse struct {
		ResultID     string           `json:"result_id"`
		Scores       archetype.Scores `json:"scores"`
		DominantType string           `json:"dominant_type"`
	}

	fetchRequest struct {
		SessionID string `json:"session_id"`
	}

	resultView struct {
		SessionID    string             `json:"session_id"`
		Answers      []int              `json:"answers"`
		Scores       archetype.Scores   `json:"scores"`
		DominantType string             `json:"dominant_type"`
		CompletedAt  time.Time          `json:"completed_at"`
		Profile      *archetype.Profile `json:"profile,omitempty"`
		Breakdown    archetype.Scores   `json:"breakdown"`
	}

	listRequest struct {
		OwnerID string `json:"owner_id" form:"owner_id"`
	}

	listResponse struct {
		Results []resultEntry `json:"results"`
	}

	resultEntry struct {
		ResultID     string           `json:"result_id"`
		SessionID    string           `json:"session_id"`
		OwnerID      string           `json:"owner_id,omitempty"`
		Scores       archetype.Scores `json:"scores"`
		DominantType string           `json:"dominant_type"`
		CompletedAt  time.Time        `json:"completed_at"`
		ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	}

	recomputeResponse struct {
		Patched int `json:"patched"`
	}

	questionsResponse struct {
		Questions []question `json:"questions"`
	}

	question struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
)

func (r submitRequest) evaluation() (result.Evaluation, error) {
	switch {
	case r.Scores == nil && r.DominantType == nil:
		return result.Computed{}, nil
	case r.Scores != nil && r.DominantType != nil:
		return result.Precomputed{Scores: *r.Scores, DominantType: *r.DominantType}, nil
	default:
		return nil, errors.Validation(stderrors.New("scores and dominant_type must be supplied together"))
	}
}

func newResultView(v domain.View) *resultView {
	rv := &resultView{
		SessionID:    v.SessionID,
		Answers:      v.Answers,
		Scores:       v.Scores,
		DominantType: v.DominantType,
		CompletedAt:  v.CompletedAt,
		Breakdown:    archetype.Breakdown(v.Scores),
	}
	if p, ok := archetype.ProfileOf(v.DominantType); ok {
		rv.Profile = &p
	}
	return rv
}

func newResultEntry(r domain.Result) resultEntry {
	e := resultEntry{
		ResultID:     r.ID,
		SessionID:    r.SessionID,
		OwnerID:      r.OwnerID,
		Scores:       r.Scores,
		DominantType: r.DominantType,
		CompletedAt:  r.CompletedAt,
	}
	if !r.ExpiresAt.IsZero() {
		t := r.ExpiresAt
		e.ExpiresAt = &t
	}
	return e
}
