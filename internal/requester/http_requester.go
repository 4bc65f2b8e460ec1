package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brizzai/headless-auth/internal/logger"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// HTTPRequester builds and executes requests against the identity provider
type HTTPRequester struct {
	client  *http.Client
	authMgr AuthManager
}

// NewHTTPRequester creates a new HTTPRequester. A nil AuthManager sends
// unauthenticated requests.
func NewHTTPRequester(authMgr AuthManager) *HTTPRequester {
	if authMgr == nil {
		authMgr = NoAuth{}
	}
	return &HTTPRequester{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		authMgr: authMgr,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		r.client.Timeout = timeout
	}
}

// PostJSON encodes payload as the request body and returns the full response.
// Non-2xx answers are not errors; only transport failures are.
func (r *HTTPRequester) PostJSON(ctx context.Context, url string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := r.authMgr.ApplyAuth(req); err != nil {
		return nil, fmt.Errorf("failed to apply auth: %w", err)
	}

	logger.Debug("request provider", zap.String("method", req.Method), zap.String("url", url))
	return r.execute(req)
}

// execute performs the request and reads the whole body
func (r *HTTPRequester) execute(req *http.Request) (*Response, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}
