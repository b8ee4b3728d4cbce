package result

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/victornm/compass/internal/archetype"
	"github.com/victornm/compass/internal/domain"
)

// RedisStore stores every result in its own hash. Two sorted sets scored by
// completion time index them: one for all results and one per session.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(r redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		redis:  r,
		prefix: prefix,
	}
}

type redisResult struct {
	SessionID    string `redis:"session_id"`
	OwnerID      string `redis:"owner_id"`
	Answers      string `redis:"answers"`
	Cowboy       int    `redis:"cowboy"`
	Pirate       int    `redis:"pirate"`
	Werewolf     int    `redis:"werewolf"`
	Vampire      int    `redis:"vampire"`
	DominantType string `redis:"dominant_type"`
	CompletedAt  int64  `redis:"completed_at"`
	ExpiresAt    int64  `redis:"expires_at"`
}

func (s *RedisStore) Insert(ctx context.Context, r domain.Result) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	h := redisResult{
		SessionID:    r.SessionID,
		OwnerID:      r.OwnerID,
		Answers:      string(answers),
		Cowboy:       r.Scores.Cowboy,
		Pirate:       r.Scores.Pirate,
		Werewolf:     r.Scores.Werewolf,
		Vampire:      r.Scores.Vampire,
		DominantType: r.DominantType,
		CompletedAt:  r.CompletedAt.UnixMilli(),
	}
	if !r.ExpiresAt.IsZero() {
		h.ExpiresAt = r.ExpiresAt.UnixMilli()
	}

	z := redis.Z{
		Score:  float64(h.CompletedAt),
		Member: r.ID,
	}

	_, err = s.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.getResultKey(r.ID), &h)
		p.ZAdd(ctx, s.getResultsKey(), z)
		p.ZAdd(ctx, s.getSessionKey(r.SessionID), z)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	return nil
}

func (s *RedisStore) LatestBySession(ctx context.Context, sessionID string) (*domain.Result, error) {
	ids, err := s.redis.ZRevRange(ctx, s.getSessionKey(sessionID), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("get session results: %w", err)
	}

	if len(ids) == 0 {
		return nil, ErrNoResult
	}

	cmd := s.redis.HGetAll(ctx, s.getResultKey(ids[0]))
	r, ok, err := decodeRedisResult(ids[0], cmd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoResult
	}

	return &r, nil
}

func (s *RedisStore) All(ctx context.Context) ([]domain.Result, error) {
	ids, err := s.redis.ZRange(ctx, s.getResultsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))
	_, err = s.redis.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			cmds = append(cmds, p.HGetAll(ctx, s.getResultKey(id)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}

	res := make([]domain.Result, 0, len(ids))
	for i, cmd := range cmds {
		r, ok, err := decodeRedisResult(ids[i], cmd)
		if err != nil {
			return nil, err
		}
		// Index entries without a hash are left over from a partial delete.
		if ok {
			res = append(res, r)
		}
	}

	return res, nil
}

func (s *RedisStore) Patch(ctx context.Context, id string, scores archetype.Scores, dominantType string) error {
	key := s.getResultKey(id)

	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("patch result: %w", err)
	}
	if n == 0 {
		return ErrNoResult
	}

	return s.redis.HSet(ctx, key,
		"cowboy", scores.Cowboy,
		"pirate", scores.Pirate,
		"werewolf", scores.Werewolf,
		"vampire", scores.Vampire,
		"dominant_type", dominantType,
	).Err()
}

func decodeRedisResult(id string, cmd *redis.MapStringStringCmd) (domain.Result, bool, error) {
	m, err := cmd.Result()
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("get result %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Result{}, false, nil
	}

	var h redisResult
	if err := cmd.Scan(&h); err != nil {
		return domain.Result{}, false, fmt.Errorf("decode result %s: %w", id, err)
	}

	r := domain.Result{
		ID:        id,
		SessionID: h.SessionID,
		OwnerID:   h.OwnerID,
		Scores: archetype.Scores{
			Cowboy:   h.Cowboy,
			Pirate:   h.Pirate,
			Werewolf: h.Werewolf,
			Vampire:  h.Vampire,
		},
		DominantType: h.DominantType,
		CompletedAt:  time.UnixMilli(h.CompletedAt).UTC(),
	}
	if h.ExpiresAt != 0 {
		r.ExpiresAt = time.UnixMilli(h.ExpiresAt).UTC()
	}

	// A result with unreadable answers is kept and rescored as unanswered.
	if h.Answers != "" {
		if err := json.Unmarshal([]byte(h.Answers), &r.Answers); err != nil {
			r.Answers = nil
		}
	}

	return r, true, nil
}

func (s *RedisStore) getResultKey(id string) string {
	return fmt.Sprintf("%s:result:%s", s.prefix, id)
}

func (s *RedisStore) getResultsKey() string {
	return fmt.Sprintf("%s:results", s.prefix)
}

func (s *RedisStore) getSessionKey(session string) string {
	return fmt.Sprintf("%s:session:%s:results", s.prefix, session)
}
