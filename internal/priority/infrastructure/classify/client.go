// Package classify calls the external message classification service that
// assigns categories, labels, and confidence to inbound messages before
// scoring.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the circuit is open.
var ErrUnavailable = errors.New("classifier unavailable")

// Result is the classifier's verdict on one message.
type Result struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Labels     []string `json:"labels,omitempty"`
}

// Request is the classification input.
type Request struct {
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Snippet string `json:"snippet,omitempty"`
}

// Config tunes the HTTP client and its circuit breaker.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// MaxRequests allowed through in half-open state.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state.
	Interval time.Duration
	// OpenTimeout is how long the circuit stays open after tripping.
	OpenTimeout time.Duration
	// FailureThreshold trips the circuit after this many consecutive
	// failures.
	FailureThreshold uint32
}

// DefaultConfig returns a sensible default tuning.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		Timeout:          10 * time.Second,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 5,
	}
}

// Client is a circuit-breaker-protected HTTP client for the classifier. A
// tripped circuit fails fast with ErrUnavailable so message ingestion keeps
// flowing with unclassified messages instead of stalling on a dead service.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[Result]
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a classifier client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig("").Timeout
	}

	settings := gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"service", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[Result](settings),
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
}

// Classify submits one message for classification.
func (c *Client) Classify(ctx context.Context, req Request) (Result, error) {
	result, err := c.breaker.Execute(func() (Result, error) {
		return c.doClassify(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, err
}

// Ping checks the classifier's health endpoint without going through the
// circuit breaker, so health checks keep working while the breaker is open.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("classifier unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier health returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) doClassify(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to serialize classification request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("invalid classifier response: %w", err)
	}
	return result, nil
}
