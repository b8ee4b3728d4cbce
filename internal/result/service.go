package result

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
	"github.com/victornm/compass/internal/errors"
	"github.com/victornm/compass/internal/event"
)

// DefaultTTL is how long a result stays visible after it was completed.
const DefaultTTL = 24 * time.Hour

type Config struct {
	EventBus *event.Bus
	Store    Store
	// TTL defaults to DefaultTTL.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	eb    *event.Bus
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewService(c Config) *Service {
	s := &Service{
		eb:    c.EventBus,
		store: c.Store,
		ttl:   c.TTL,
		now:   c.Now,
	}

	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Evaluation tells Submit where the scores of a submission come from,
// either Computed or Precomputed.
type Evaluation interface {
	evaluate(answers []int) (archetype.Scores, string)
}

// Computed lets the service score the answers with the canonical weight table.
type Computed struct{}

func (Computed) evaluate(answers []int) (archetype.Scores, string) {
	sc := archetype.Score(answers)
	return sc, archetype.Resolve(sc)
}

// Precomputed carries scores the caller already computed. They are stored
// as is, without being checked against the answers.
type Precomputed struct {
	Scores       archetype.Scores
	DominantType string
}

func (p Precomputed) evaluate([]int) (archetype.Scores, string) {
	return p.Scores, p.DominantType
}

// SubmitRequest represents a completed questionnaire.
type SubmitRequest struct {
	// SessionID is the opaque identifier of the questionnaire attempt.
	SessionID string
	// OwnerID is the signed-in user, if any.
	OwnerID string
	// Answers is indexed by canonical question order.
	Answers []int
	// Evaluation defaults to Computed.
	Evaluation Evaluation
}

type SubmitResponse struct {
	ResultID     string
	Scores       archetype.Scores
	DominantType string
}

// Submit validates and stores a new result for the session. Earlier results
// of the session are kept as history.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, errors.Validation(stderrors.New("session id is required"))
	}
	if err := archetype.Validate(req.Answers); err != nil {
		return nil, errors.Validation(err)
	}

	ev := req.Evaluation
	if ev == nil {
		ev = Computed{}
	}
	scores, dominant := ev.evaluate(req.Answers)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate result ID: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	r := domain.Result{
		ID:           id.String(),
		SessionID:    req.SessionID,
		OwnerID:      req.OwnerID,
		Answers:      append([]int(nil), req.Answers...),
		Scores:       scores,
		DominantType: dominant,
		CompletedAt:  now,
		ExpiresAt:    now.Add(s.ttl),
	}

	if err := s.store.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}

	s.eb.Publish(ctx, domain.EventResultSubmitted{
		Result: r,
	})

	return &SubmitResponse{
		ResultID:     r.ID,
		Scores:       r.Scores,
		DominantType: r.DominantType,
	}, nil
}

type FetchRequest struct {
	SessionID string
}

// Fetch returns the latest result of a session. A session that never
// submitted and a session whose latest result expired are both not found.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (*domain.View, error) {
	r, err := s.store.LatestBySession(ctx, req.SessionID)
	if stderrors.Is(err, ErrNoResult) {
		return nil, errors.NotFound("result not found: session=%s", req.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest result: %w", err)
	}

	if r.Expired(s.now()) {
		return nil, errors.NotFound("result not found: session=%s", req.SessionID)
	}

	v := r.View()
	return &v, nil
}

type ListRequest struct {
	// OwnerID filters the results of a single owner, all owners when empty.
	OwnerID string
}

// List returns the non-expired results, newest first.
//
// Every stored result is read and filtered in memory, so the cost grows
// with the size of the store rather than the size of the answer.
func (s *Service) List(ctx context.Context, req ListRequest) ([]domain.Result, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	now := s.now()
	res := make([]domain.Result, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		r := all[i]
		if r.Expired(now) {
			continue
		}
		if req.OwnerID != "" && r.OwnerID != req.OwnerID {
			continue
		}
		res = append(res, r)
	}

	return res, nil
}

// RecomputeAll rescores every non-expired result from its stored answers
// and returns the number of results patched. Results without answers are
// scored as if nothing was answered.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("list results: %w", err)
	}

	now := s.now()
	patched := 0
	for _, r := range all {
		if r.Expired(now) {
			continue
		}

		answers := r.Answers
		if len(answers) == 0 {
			slog.WarnContext(ctx, "result: recompute: missing answers, scoring as unanswered",
				"result_id", r.ID,
				"session_id", r.SessionID,
			)
			answers = make([]int, archetype.NumQuestions)
		}

		scores, dominant := Computed{}.evaluate(answers)
		if err := s.store.Patch(ctx, r.ID, scores, dominant); err != nil {
			return patched, fmt.Errorf("patch result %s: %w", r.ID, err)
		}
		patched++
	}

	slog.InfoContext(ctx, "result: recompute completed",
		"patched", patched,
		"stored", len(all),
	)

	s.eb.Publish(ctx, domain.EventResultsRecomputed{
		Patched: patched,
	})

	return patched, nil
}
