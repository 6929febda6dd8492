// Package client is the HTTP client for the scoring service. Transport
// failures and timeouts retry with exponential backoff; HTTP status errors
// surface immediately without retry
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"screenrate/internal/core/scoring"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
)

const (
	defaultTimeout   = 300 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 1 * time.Second
)

// Options configures the Client
type Options struct {
	// BaseURL of the scoring service, e.g. http://ml:8001
	BaseURL string

	// Timeout is the per-call deadline spanning all retries
	Timeout time.Duration

	MaxRetries int
	RetryBase  time.Duration
}

// Client calls the scoring service over JSON HTTP
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

// New creates a Client with sane defaults
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{},
		opts:  o,
		log:   *logger.Named("mlclient"),
		sleep: time.Sleep,
	}
}

// TriggerScene is one high-weight scene surfaced by the rating pipeline.
// The seven dimension scores arrive inline, mirroring the service's
// response shape
type TriggerScene struct {
	SceneID int    `json:"scene_id"`
	Heading string `json:"heading"`
	scoring.Scores
	Weight     float64 `json:"weight"`
	SampleText string  `json:"sample_text"`
}

// RateResult is the /rate_script response
type RateResult struct {
	ScriptID         string             `json:"script_id"`
	PredictedRating  string             `json:"predicted_rating"`
	Reasons          []string           `json:"reasons"`
	AggScores        map[string]float64 `json:"agg_scores"`
	TopTriggerScenes []TriggerScene     `json:"top_trigger_scenes"`
	ModelVersion     string             `json:"model_version"`
	TotalScenes      int                `json:"total_scenes"`
}

// WhatIfResult is the /what_if and /what_if_advanced response
type WhatIfResult struct {
	OriginalRating  string             `json:"original_rating"`
	ModifiedRating  string             `json:"modified_rating"`
	OriginalScores  map[string]float64 `json:"original_scores"`
	ModifiedScores  map[string]float64 `json:"modified_scores"`
	ChangesApplied  []map[string]any   `json:"changes_applied"`
	Explanation     string             `json:"explanation"`
	RatingChanged   bool               `json:"rating_changed"`
	SmartSuggestion map[string]any     `json:"smart_suggestions,omitempty"`
}

// Health is the /health response
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// RateScript scores a whole script
func (c *Client) RateScript(ctx context.Context, text, scriptID string) (*RateResult, error) {
	var out RateResult
	body := map[string]any{"text": text}
	if scriptID != "" {
		body["script_id"] = scriptID
	}
	if err := c.post(ctx, "/rate_script", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WhatIf runs a natural-language what-if simulation
func (c *Client) WhatIf(ctx context.Context, scriptText, request string) (*WhatIfResult, error) {
	var out WhatIfResult
	body := map[string]any{"script_text": scriptText, "modification_request": request}
	if err := c.post(ctx, "/what_if", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WhatIfAdvanced runs a structured modification list
func (c *Client) WhatIfAdvanced(ctx context.Context, scriptText string, mods []map[string]any) (*WhatIfResult, error) {
	var out WhatIfResult
	body := map[string]any{"script_text": scriptText, "modifications": mods}
	if err := c.post(ctx, "/what_if_advanced", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Advise asks the scoring service for target-rating recommendations.
// The response shape is advisor-defined; the backend relays it opaquely
func (c *Client) Advise(ctx context.Context, body map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/rate_advisor", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Healthz checks service liveness
func (c *Client) Healthz(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.call(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

// call issues one JSON request with the retry policy. The overall deadline
// covers every attempt; exhausting it after transport timeouts maps to the
// ML timeout error, other transport failures to ML unavailable
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "mlclient marshal body")
		}
	}

	attempts := 0
	sawTimeout := false
	for {
		req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "mlclient new request")
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if isTimeout(err) {
				sawTimeout = true
			}
			if ctx.Err() != nil || attempts >= c.opts.MaxRetries {
				if sawTimeout || errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return perr.MLTimeoutf("ml call %s timed out after %d attempts", path, attempts+1)
				}
				return perr.MLUnavailablef("ml call %s failed after %d attempts: %v", path, attempts+1, err)
			}
			back := c.backoff(attempts)
			c.log.Warn().Str("path", path).Int("attempt", attempts).Dur("retry_in", back).
				Err(err).Msg("ml transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return perr.MLProtocolf("ml call %s returned status %d: %s", path, resp.StatusCode, string(tail))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		_ = resp.Body.Close()
		if err != nil {
			return perr.MLProtocolf("ml call %s returned malformed body: %v", path, err)
		}
		return nil
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	cap := int64(30 * time.Second / time.Millisecond)
	if ms > cap {
		ms = cap
	}
	return time.Duration(ms) * time.Millisecond
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
