package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitTimeout(t *testing.T) <-chan time.Time {
	t.Helper()
	return time.After(3 * time.Second)
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub(nil)

	c1, err := hub.Register(7, nil)
	require.NoError(t, err)
	c2, err := hub.Register(7, nil)
	require.NoError(t, err)
	other, err := hub.Register(9, nil)
	require.NoError(t, err)

	hub.Broadcast(7, `{"type":"friend_request"}`)
	assert.Len(t, c1.Send, 1)
	assert.Len(t, c2.Send, 1)
	assert.Empty(t, other.Send)

	hub.BroadcastAll("maintenance notice")
	assert.Len(t, other.Send, 1)

	assert.True(t, hub.IsOnline(7))
	hub.Unregister(c1)
	assert.True(t, hub.IsOnline(7), "second connection keeps the user online")
	hub.Unregister(c2)
	assert.False(t, hub.IsOnline(7))
}

func TestHubPerUserConnectionLimit(t *testing.T) {
	hub := NewHub(nil)

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(1, nil)
	assert.Error(t, err)
}

func TestPresenceWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	p := NewPresence(rdb)
	defer p.Stop()
	ctx := context.Background()

	p.Register(ctx, 42)
	assert.True(t, p.IsOnline(ctx, 42))
	assert.Contains(t, p.OnlineUserIDs(ctx), uint(42))

	// Expired last-seen keys fall out of the online set on the next read.
	mr.FastForward(2 * presenceTTL)
	assert.False(t, p.IsOnline(ctx, 42))
	assert.NotContains(t, p.OnlineUserIDs(ctx), uint(42))

	p.Register(ctx, 43)
	p.Unregister(ctx, 43)
	assert.False(t, p.IsOnline(ctx, 43))
}

func TestNotifierPublishesToHub(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub(nil)
	client, err := hub.Register(11, nil)
	require.NoError(t, err)

	notifier := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	require.NoError(t, notifier.PublishUser(ctx, 11, `{"type":"credit_grant"}`))

	select {
	case msg := <-client.Send:
		assert.JSONEq(t, `{"type":"credit_grant"}`, string(msg))
	case <-waitTimeout(t):
		t.Fatal("event never reached the client")
	}
}
