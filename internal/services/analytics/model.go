package analytics

import (
	"context"
	"sync"

	"FinCast/internal/domain/errs"
	"FinCast/internal/domain/models"
	domsvc "FinCast/internal/domain/service"
)

// ModelHandle is the result of initializing the forecaster once at startup.
// It is either ready, or carries the initialization error forever.
type ModelHandle struct {
	forecaster domsvc.Forecaster
	err        error
	serialize  bool
	mu         sync.Mutex
}

// LoadModel probes forecaster and wraps the outcome. A nil probe means the
// forecaster is usable as soon as it exists. With serialize set, Predict
// calls never overlap.
func LoadModel(ctx context.Context, forecaster domsvc.Forecaster, probe func(context.Context) error, serialize bool) *ModelHandle {
	h := &ModelHandle{forecaster: forecaster, serialize: serialize}
	switch {
	case forecaster == nil:
		h.err = &errs.ModelUnavailableError{}
	case probe != nil:
		if err := probe(ctx); err != nil {
			h.err = &errs.ModelUnavailableError{Err: err}
		}
	}
	return h
}

func (h *ModelHandle) Ready() bool {
	return h != nil && h.err == nil
}

// Err is the initialization failure, nil when ready.
func (h *ModelHandle) Err() error {
	if h == nil {
		return &errs.ModelUnavailableError{}
	}
	return h.err
}

// Predict forwards to the loaded forecaster.
func (h *ModelHandle) Predict(ctx context.Context, matrix [][]float64, horizon int) ([]models.Distribution, error) {
	if !h.Ready() {
		return nil, h.Err()
	}
	if h.serialize {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	return h.forecaster.Predict(ctx, matrix, horizon)
}
