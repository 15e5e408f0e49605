package server

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"FinCast/internal/domain/models"
	"FinCast/pkg/config"
	xhttp "FinCast/pkg/http"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/trace"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noRoutes struct{}

func (noRoutes) RegisterRoutes(*echo.Echo) {}

type closeCounter struct{ closed atomic.Int32 }

func (c *closeCounter) Publish(context.Context, *models.InferenceEvent) error { return nil }

func (c *closeCounter) Close() error {
	c.closed.Add(1)
	return nil
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{Environment: "test"}
	srv := xhttp.NewServer(noRoutes{}, nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0))
	events := &closeCounter{}
	var logs bytes.Buffer
	app := New(cfg, srv, events, trace.NewNop(), nil, applogger.NewWithWriter(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, int32(1), events.closed.Load())
	assert.Contains(t, logs.String(), `"tokens":"ARB,BNB,BTC,ETH,SOL"`)
}
