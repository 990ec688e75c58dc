package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-discovery/pkg/events"
	"town-discovery/preference-service/internal/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSetPreferencePublishesUpdate(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, events.PreferencesUpdatedChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	svc := NewUserService(newMemStore(3), rdb)
	_, err = svc.SetPreference(ctx, 3, models.SetPreferenceRequest{Activities: []string{"golf"}})
	require.NoError(t, err)

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	require.NoError(t, err)

	var ev events.PreferencesUpdated
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, 3, ev.UserID)
	assert.False(t, ev.UpdatedAt.IsZero())
}

func TestSetPreferenceDropsCachedProfile(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	svc := NewUserService(newMemStore(3), rdb)

	empty, err := svc.GetPreference(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty.Activities)
	require.True(t, mr.Exists(prefCacheKey(3)))

	_, err = svc.SetPreference(ctx, 3, models.SetPreferenceRequest{Activities: []string{"golf"}})
	require.NoError(t, err)
	assert.False(t, mr.Exists(prefCacheKey(3)))

	got, err := svc.GetPreference(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"golf"}, got.Activities)
}

func TestSetPreferenceUnknownUserPublishesNothing(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, events.PreferencesUpdatedChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	_, err = NewUserService(newMemStore(), rdb).SetPreference(ctx, 9, models.SetPreferenceRequest{})
	require.ErrorIs(t, err, ErrUserNotFound)

	recvCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = sub.ReceiveMessage(recvCtx)
	assert.Error(t, err)
}
