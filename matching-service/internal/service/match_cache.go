package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"town-discovery/pkg/events"
)

// Cached rankings are keyed by three generation counters. Invalidation bumps
// a counter instead of deleting entries, so a ranking computed from data read
// before the bump is written under a key no reader asks for again.
const (
	matchEpochKey    = "town-matches:gen:epoch"
	matchTownsGenKey = "town-matches:gen:towns"
)

func matchUserGenKey(userID int) string {
	return fmt.Sprintf("town-matches:gen:user:%d", userID)
}

// generationTTL outlives any cached ranking so an expired counter can never
// reset onto a live entry.
func (s *MatchService) generationTTL() time.Duration {
	return max(24*time.Hour, 2*s.matchCacheTTL)
}

// matchCacheKey resolves the current cache key for a ranking. ok is false
// when Redis is missing or unreadable, in which case nothing is cached.
func (s *MatchService) matchCacheKey(ctx context.Context, userID, limit int) (key string, ok bool) {
	if s.rdb == nil {
		return "", false
	}
	vals, err := s.rdb.MGet(ctx, matchEpochKey, matchTownsGenKey, matchUserGenKey(userID)).Result()
	if err != nil {
		slog.Warn("failed to read match cache generations", "user_id", userID, "error", err)
		return "", false
	}
	gen := make([]string, len(vals))
	for i, v := range vals {
		gen[i] = "0"
		if str, isStr := v.(string); isStr {
			gen[i] = str
		}
	}
	return fmt.Sprintf("town-matches:%d:%d:%s.%s.%s", userID, limit, gen[0], gen[1], gen[2]), true
}

func (s *MatchService) bumpGeneration(ctx context.Context, key string) error {
	if s.rdb == nil {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.generationTTL())
		return nil
	})
	return err
}

// InvalidateUser retires every cached ranking for a user.
func (s *MatchService) InvalidateUser(ctx context.Context, userID int) {
	if err := s.bumpGeneration(ctx, matchUserGenKey(userID)); err != nil {
		slog.Error("failed to invalidate town matches", "user_id", userID, "error", err)
		return
	}
	slog.Debug("town matches invalidated", "user_id", userID)
}

// InvalidateTowns retires every cached ranking after the town data changed.
func (s *MatchService) InvalidateTowns(ctx context.Context) {
	if err := s.bumpGeneration(ctx, matchTownsGenKey); err != nil {
		slog.Error("failed to invalidate town matches", "scope", "towns", "error", err)
		return
	}
	slog.Debug("town matches invalidated", "scope", "towns")
}

// InvalidateAll retires every cached ranking regardless of cause.
func (s *MatchService) InvalidateAll(ctx context.Context) {
	if err := s.bumpGeneration(ctx, matchEpochKey); err != nil {
		slog.Error("failed to invalidate town matches", "scope", "all", "error", err)
		return
	}
	slog.Debug("town matches invalidated", "scope", "all")
}

// WatchChanges retires cached rankings whenever the preference or town
// service announces a change. Every (re)subscription also retires the whole
// cache, since messages published while unsubscribed are lost. It blocks
// until ctx is done.
func (s *MatchService) WatchChanges(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	sub := s.rdb.Subscribe(ctx, events.PreferencesUpdatedChannel, events.TownsUpdatedChannel)
	defer sub.Close()

	slog.Info("watching data changes", "channels", []string{events.PreferencesUpdatedChannel, events.TownsUpdatedChannel})
	ch := sub.ChannelWithSubscriptions()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}
			switch msg := raw.(type) {
			case *redis.Subscription:
				if msg.Kind == "subscribe" && msg.Channel == events.PreferencesUpdatedChannel {
					s.InvalidateAll(ctx)
				}
			case *redis.Message:
				s.handleEvent(ctx, msg)
			}
		}
	}
}

func (s *MatchService) handleEvent(ctx context.Context, msg *redis.Message) {
	switch msg.Channel {
	case events.PreferencesUpdatedChannel:
		var ev events.PreferencesUpdated
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			slog.Warn("ignoring malformed preference event", "payload", msg.Payload, "error", err)
			return
		}
		s.InvalidateUser(ctx, ev.UserID)
	case events.TownsUpdatedChannel:
		var ev events.TownsUpdated
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			slog.Warn("ignoring malformed towns event", "payload", msg.Payload, "error", err)
			return
		}
		slog.Info("town data changed", "reason", ev.Reason)
		s.InvalidateTowns(ctx)
	}
}

func (s *MatchService) getFromCache(ctx context.Context, key string) (string, error) {
	return s.rdb.Get(ctx, key).Result()
}

func (s *MatchService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
