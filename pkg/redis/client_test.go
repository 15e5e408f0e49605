package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, Ping(context.Background(), db, time.Second))

	mock.ExpectPing().SetErr(errors.New("dial tcp: connection refused"))
	err := Ping(context.Background(), db, time.Second)
	assert.ErrorContains(t, err, "redis ping")
	assert.NoError(t, mock.ExpectationsWereMet())
}
