package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T, limit int64) (*RedisLimiter, redismock.ClientMock, string) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	l := NewRedis(db, "fincast:", time.Minute, limit)
	now := time.Unix(600, 0)
	l.now = func() time.Time { return now }
	return l, mock, "fincast:ratelimit:10.0.0.1:10"
}

func TestRedisLimiterFirstHitSetsExpiry(t *testing.T) {
	l, mock, key := newTestRedisLimiter(t, 2)
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	ok, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiterOverLimit(t *testing.T) {
	l, mock, key := newTestRedisLimiter(t, 2)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	ok, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiterError(t *testing.T) {
	l, mock, key := newTestRedisLimiter(t, 2)
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	ok, err := l.Allow(context.Background(), "10.0.0.1")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")
}
