package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"FinCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type modelService struct {
	healthStatus int
	status       int
	body         string
	lastReq      map[string]json.RawMessage
}

func (m *modelService) start(t *testing.T) *HTTPForecaster {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(m.healthStatus)
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		m.lastReq = map[string]json.RawMessage{}
		_ = json.NewDecoder(r.Body).Decode(&m.lastReq)
		w.WriteHeader(m.status)
		_, _ = w.Write([]byte(m.body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewHTTPForecaster(ForecasterConfig{
		ServiceURL:  srv.URL,
		Model:       "chronos-bolt-small",
		HealthPath:  "/health",
		PredictPath: "/predict",
	}, nil)
}

func TestHTTPForecasterPredict(t *testing.T) {
	svc := &modelService{healthStatus: http.StatusOK, status: http.StatusOK, body: `{"forecast":[[1,2,3,6]]}`}
	f := svc.start(t)

	require.NoError(t, f.Ping(context.Background()))

	got, err := f.Predict(context.Background(), [][]float64{{1, 2}, {3, 4}}, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.Distribution{{1, 2, 3, 6}}, got)

	assert.JSONEq(t, `"chronos-bolt-small"`, string(svc.lastReq["model"]))
	assert.JSONEq(t, `[[1,2],[3,4]]`, string(svc.lastReq["context"]))
	assert.JSONEq(t, `1`, string(svc.lastReq["prediction_length"]))
}

func TestHTTPForecasterPingFails(t *testing.T) {
	svc := &modelService{healthStatus: http.StatusServiceUnavailable}
	f := svc.start(t)
	assert.ErrorContains(t, f.Ping(context.Background()), "503")
}

func TestHTTPForecasterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, "CUDA out of memory", "CUDA out of memory"},
		{"bad json", http.StatusOK, "not json", "decode json"},
		{"step mismatch", http.StatusOK, `{"forecast":[]}`, "0 forecast steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &modelService{healthStatus: http.StatusOK, status: tt.status, body: tt.body}
			_, err := svc.start(t).Predict(context.Background(), [][]float64{{1}}, 1)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
