package trace

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNopTracer(t *testing.T) {
	tr, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	ctx, span := tr.StartSpan(context.Background(), "noop")
	End(span, errors.New("ignored"))
	_, _, ok := TraceFields(ctx)
	assert.False(t, ok)
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestEnabledTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Enabled: true, ServiceName: "fincast-test", Writer: &buf})
	require.NoError(t, err)
	assert.True(t, tr.Enabled())

	ctx, span := tr.StartSpan(context.Background(), "inference.fetch", attribute.String("token", "BTC"))
	traceID, spanID, ok := TraceFields(ctx)
	assert.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	End(span, errors.New("upstream down"))

	require.NoError(t, tr.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "inference.fetch")
	assert.Contains(t, buf.String(), "upstream down")
}
