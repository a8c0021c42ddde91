// Package client is a small Go SDK for the airmod scoring API.  It wraps the
// predict, metrics and health endpoints served by `airmod serve`.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/airnalytics/air-modernity/pkg/types/segment"
)

// FeatureVector mirrors the request body of the predict endpoint: one
// hypothetical airline in raw (unscaled) feature space.
type FeatureVector struct {
	FleetSize      float64 `json:"fleet_size"`
	DiversityScore float64 `json:"diversity_score"`
	ModernityIndex float64 `json:"modernity_index"`
	NewGenShare    float64 `json:"new_gen_share"`
}

// Prediction is the predict endpoint response.
type Prediction struct {
	Cluster  int           `json:"cluster"`
	Features FeatureVector `json:"features"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airmod: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsNotFound reports whether the API answered 404, which for this API means
// the requested artifacts have not been produced yet.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client talks to one airmod server.  It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient validates baseURL and builds a client with the given options.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "airmod-go-client",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health probes the server.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Predict assigns a cluster to the given airline profile.
func (c *Client) Predict(ctx context.Context, v FeatureVector) (*Prediction, error) {
	var out Prediction
	if err := c.do(ctx, http.MethodPost, "/api/v1/predict", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Metrics fetches the held-out evaluation of the surrogate classifier.
func (c *Client) Metrics(ctx context.Context) (*segment.MetricsArtifact, error) {
	var out segment.MetricsArtifact
	if err := c.do(ctx, http.MethodGet, "/api/v1/metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one round trip, encoding body as JSON when non-nil and
// decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer = &bytes.Buffer{}
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}
