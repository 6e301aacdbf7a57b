package rate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	m := NewMemory()
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _ := m.Allow(ctx, "auth:1.2.3.4", 3, time.Minute)
		assert.True(t, ok, "request %d", i)
	}
	ok, retry := m.Allow(ctx, "auth:1.2.3.4", 3, time.Minute)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, 20*time.Second)

	ok, _ = m.Allow(ctx, "auth:5.6.7.8", 3, time.Minute)
	assert.True(t, ok, "keys are independent")

	now = now.Add(20 * time.Second)
	ok, _ = m.Allow(ctx, "auth:1.2.3.4", 3, time.Minute)
	assert.True(t, ok, "one token refilled")
	ok, _ = m.Allow(ctx, "auth:1.2.3.4", 3, time.Minute)
	assert.False(t, ok)
}

func TestMemoryLimiterDisabled(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 100; i++ {
		ok, _ := m.Allow(context.Background(), "k", 0, time.Minute)
		require.True(t, ok)
	}
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REMARKS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REMARKS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	log, hook := logtest.NewNullLogger()
	l := NewRedis(client, log)
	key := "test:" + uuid.NewString()

	for i := 0; i < 2; i++ {
		ok, _ := l.Allow(ctx, key, 2, time.Minute)
		assert.True(t, ok)
	}
	ok, retry := l.Allow(ctx, key, 2, time.Minute)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
	assert.Empty(t, hook.AllEntries())
}
