package analytics

import (
	"context"
	"fmt"

	xhttp "FinCast/pkg/http"
)

// HTTPServiceBase is the shared plumbing for clients of the model service.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
}

// NewHTTPServiceBase builds a base for baseURL. A nil client gets one with
// no timeout.
func NewHTTPServiceBase(baseURL string, client *xhttp.Client) *HTTPServiceBase {
	if client == nil {
		client = xhttp.NewClient()
	}
	return &HTTPServiceBase{baseURL: baseURL, client: client}
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("model service http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// Get issues a GET to `path` and fails on any non-2xx status.
func (b *HTTPServiceBase) Get(ctx context.Context, path string) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("model service http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    b.baseURL + path,
	}, nil)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}
