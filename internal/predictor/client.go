package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxBodyBytes = 4 << 20

// ErrIncompleteResponse is returned when a /predict body carries neither a
// disease nor an error message.
var ErrIncompleteResponse = errors.New("predictor: response has neither disease nor error")

// Client talks to the remote disease classifier.
type Client interface {
	FetchSymptoms(ctx context.Context) (json.RawMessage, error)
	Predict(ctx context.Context, symptoms []string) (*PredictResponse, error)
}

var _ Client = (*HTTPClient)(nil)

type PredictRequest struct {
	Symptoms []string `json:"symptoms"`
}

// PredictResponse is the body of POST /predict. A non-empty Error means the
// service rejected the request even though the transport succeeded.
type PredictResponse struct {
	Disease     string   `json:"disease"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
	Error       string   `json:"error,omitempty"`
}

// StatusError reports a non-2xx response that did not carry an error payload.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("predictor: unexpected status %s - %s", e.Status, e.Body)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.httpClient.Timeout = d
		}
	}
}

func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// FetchSymptoms returns the raw GET /symptoms body. Interpreting its shape is
// left to the symptom package.
func (c *HTTPClient) FetchSymptoms(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/symptoms", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch symptoms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read symptoms: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	return json.RawMessage(body), nil
}

// Predict posts the ordered symptom ids. A payload-level error is returned as
// a response with Error set, not as a Go error, whatever the HTTP status.
func (c *HTTPClient) Predict(ctx context.Context, symptoms []string) (*PredictResponse, error) {
	if symptoms == nil {
		symptoms = []string{}
	}
	payload, err := json.Marshal(PredictRequest{Symptoms: symptoms})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read prediction: %w", err)
	}

	var out PredictResponse
	decodeErr := json.Unmarshal(body, &out)
	if decodeErr == nil && strings.TrimSpace(out.Error) != "" {
		return &PredictResponse{Error: out.Error}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode prediction: %w", decodeErr)
	}
	if out.Disease == "" {
		return nil, ErrIncompleteResponse
	}
	if out.Precautions == nil {
		out.Precautions = []string{}
	}
	return &out, nil
}
