package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// baseClient wraps an upstream HTTP service behind the API gateway.
type baseClient struct {
	baseURL string
	client  *http.Client
}

func newBaseClient(baseURL string, timeout time.Duration) baseClient {
	return baseClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (b baseClient) do(ctx context.Context, method, path string, query url.Values, userID string, body interface{}) (*http.Response, error) {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	return b.client.Do(req)
}

// decodeJSON decodes a 2xx response body into out. Non-2xx responses are
// returned as *APIError carrying the upstream status and message.
func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return apiErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// APIError is an upstream failure with no recognized conflict semantics.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error: status=%d", e.Status)
}

func apiErrorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
