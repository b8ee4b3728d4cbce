package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
)

const maxConcurrent = 100

type (
	Notification struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}

	ResultSubmitted struct {
		ResultID     string           `json:"result_id"`
		SessionID    string           `json:"session_id"`
		Scores       archetype.Scores `json:"scores"`
		DominantType string           `json:"dominant_type"`
		CompletedAt  time.Time        `json:"completed_at"`
	}
)

// PublishResultSubmitted notifies the session channel, and the owner
// channel when the result has an owner.
func (a *API) PublishResultSubmitted(ctx context.Context, e domain.EventResultSubmitted) error {
	r := e.Result

	data := ResultSubmitted{
		ResultID:     r.ID,
		SessionID:    r.SessionID,
		Scores:       r.Scores,
		DominantType: r.DominantType,
		CompletedAt:  r.CompletedAt,
	}

	channels := []string{a.sessionChannel(r.SessionID)}
	if r.OwnerID != "" {
		channels = append(channels, a.ownerChannel(r.OwnerID))
	}

	var eg errgroup.Group
	eg.SetLimit(maxConcurrent)

	for _, ch := range channels {
		eg.Go(func() error {
			return a.publishNotification(ctx, ch, e.Name(), data)
		})
	}

	return eg.Wait()
}

func (a *API) publishNotification(ctx context.Context, channel, event string, data any) error {
	n := Notification{
		Event: event,
		Data:  data,
	}

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", event, err)
	}

	return a.redis.Publish(ctx, channel, b).Err()
}

func (a *API) sessionChannel(session string) string {
	return fmt.Sprintf("%s:session:%s", a.prefix, session)
}

func (a *API) ownerChannel(owner string) string {
	return fmt.Sprintf("%s:owner:%s", a.prefix, owner)
}
