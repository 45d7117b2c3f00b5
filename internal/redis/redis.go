// Package redis records which display sessions are alive. Presence is for
// observability only and never drives hub membership.
package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const presencePrefix = "presence:"

func NewClient(address, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
}

// Presence tracks sessions as presence:<session> -> zone keys that expire
// unless touched again within the TTL.
type Presence struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresence(rdb *redis.Client, ttl time.Duration) *Presence {
	return &Presence{rdb: rdb, ttl: ttl}
}

func (p *Presence) Touch(ctx context.Context, sessionID, zone string) {
	if err := p.rdb.Set(ctx, presencePrefix+sessionID, zone, p.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("[presence] failed to touch session")
	}
}

func (p *Presence) Forget(ctx context.Context, sessionID string) {
	if err := p.rdb.Del(ctx, presencePrefix+sessionID).Err(); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("[presence] failed to forget session")
	}
}

// Online returns live sessions mapped to their zone.
func (p *Presence) Online(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	iter := p.rdb.Scan(ctx, 0, presencePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return out, nil
	}

	values, err := p.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		zone, ok := v.(string)
		if !ok {
			continue
		}
		out[strings.TrimPrefix(keys[i], presencePrefix)] = zone
	}
	return out, nil
}

// NoopPresence is used when no redis address is configured.
type NoopPresence struct{}

func (NoopPresence) Touch(context.Context, string, string) {}

func (NoopPresence) Forget(context.Context, string) {}

func (NoopPresence) Online(context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}
