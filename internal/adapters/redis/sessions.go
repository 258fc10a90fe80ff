package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"frontdesk/internal/domain"
)

// Sessions keeps per-conversation state (pending hold + transcript) with a
// sliding TTL, so any API replica or frontend can continue a conversation.
type Sessions struct {
	c   *redis.Client
	ttl time.Duration
}

func NewSessions(c *redis.Client, ttl time.Duration) *Sessions {
	return &Sessions{c: c, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

func (s *Sessions) Load(ctx context.Context, id string) (domain.Session, error) {
	v, err := s.c.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return domain.Session{ID: id}, nil
	}
	if err != nil {
		return domain.Session{}, err
	}
	var sess domain.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return domain.Session{}, err
	}
	sess.ID = id
	return sess, nil
}

func (s *Sessions) Save(ctx context.Context, sess domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, sessionKey(sess.ID), b, s.ttl).Err()
}
