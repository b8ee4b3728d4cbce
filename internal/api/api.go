package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
	"github.com/victornm/compass/internal/event"
	"github.com/victornm/compass/internal/result"
)

type Config struct {
	GRPC     *grpc.Server
	HTTP     *gin.Engine
	EventBus *event.Bus
	Result   *result.Service
	Auth     *Authenticator
	// AdminToken guards the maintenance endpoints, they are disabled when empty.
	AdminToken string
	// Redis receives result notifications, none are sent when nil.
	Redis        Redis
	PubsubPrefix string
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type API struct {
	rs *result.Service

	auth       *Authenticator
	adminToken string

	redis  Redis
	prefix string
}

func New(c Config) *API {
	a := &API{
		rs:         c.Result,
		auth:       c.Auth,
		adminToken: c.AdminToken,
		redis:      c.Redis,
		prefix:     c.PubsubPrefix,
	}

	// HTTP APIs
	if c.HTTP != nil {
		a.registerHTTP(c.HTTP)
	}

	// gRPC APIs
	if c.GRPC != nil {
		RegisterResultServiceServer(c.GRPC, a)
	}

	// Register event handlers
	if a.redis != nil {
		c.EventBus.Subscribe(domain.EventNameResultSubmitted, func(ctx context.Context, e event.Event) error {
			return a.PublishResultSubmitted(ctx, e.(domain.EventResultSubmitted))
		})
	}

	return a
}

func (a *API) submit(ctx context.Context, owner string, req submitRequest) (*submitResponse, error) {
	ev, err := req.evaluation()
	if err != nil {
		return nil, err
	}

	resp, err := a.rs.Submit(ctx, result.SubmitRequest{
		SessionID:  req.SessionID,
		OwnerID:    owner,
		Answers:    req.Answers,
		Evaluation: ev,
	})
	if err != nil {
		return nil, err
	}

	return &submitResponse{
		ResultID:     resp.ResultID,
		Scores:       resp.Scores,
		DominantType: resp.DominantType,
	}, nil
}

func (a *API) fetch(ctx context.Context, req fetchRequest) (*resultView, error) {
	v, err := a.rs.Fetch(ctx, result.FetchRequest{
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, err
	}

	return newResultView(*v), nil
}

func (a *API) list(ctx context.Context, req listRequest) (*listResponse, error) {
	rs, err := a.rs.List(ctx, result.ListRequest{
		OwnerID: req.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	resp := &listResponse{
		Results: make([]resultEntry, 0, len(rs)),
	}
	for _, r := range rs {
		resp.Results = append(resp.Results, newResultEntry(r))
	}

	return resp, nil
}

func (a *API) recompute(ctx context.Context) (*recomputeResponse, error) {
	n, err := a.rs.RecomputeAll(ctx)
	if err != nil {
		return nil, err
	}

	return &recomputeResponse{Patched: n}, nil
}

func questions() *questionsResponse {
	resp := &questionsResponse{
		Questions: make([]question, 0, len(archetype.Questions)),
	}
	for i, q := range archetype.Questions {
		resp.Questions = append(resp.Questions, question{Index: i, Text: q.Text})
	}
	return resp
}
