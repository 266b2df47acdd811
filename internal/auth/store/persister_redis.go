package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"memberportal/internal/auth/models"
	id "memberportal/pkg/domain"
	"memberportal/pkg/platform/sentinel"
)

const sessionKeyPrefix = "auth:session:"

// RedisPersister stores each session as JSON under a key that expires with
// the session's token.
type RedisPersister struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client, now: time.Now}
}

func sessionKey(sessionID id.SessionID) string {
	return sessionKeyPrefix + sessionID.String()
}

func (p *RedisPersister) LoadAll(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	iter := p.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := p.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var sess models.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", iter.Val(), err)
		}
		out = append(out, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *RedisPersister) Load(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	raw, err := p.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (p *RedisPersister) Save(ctx context.Context, sess models.Session) error {
	ttl := sess.ExpiresAt.Sub(p.now())
	if ttl <= 0 {
		return p.Delete(ctx, sess.ID)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return p.client.Set(ctx, sessionKey(sess.ID), raw, ttl).Err()
}

func (p *RedisPersister) Delete(ctx context.Context, sessionID id.SessionID) error {
	return p.client.Del(ctx, sessionKey(sessionID)).Err()
}
