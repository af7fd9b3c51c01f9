package checker

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/api-smoke/internal/endpoint"
)

const (
	// DefaultUserAgent identifies check traffic in access logs.
	DefaultUserAgent = "api-smoke-suite/1.0"

	// DefaultRetries matches the CI workflow default.
	DefaultRetries = 6

	// DefaultBackoff doubles the delay after every failed attempt.
	DefaultBackoff = 2.0

	// DefaultTimeout bounds a single attempt, not the whole retry sequence.
	DefaultTimeout = 10 * time.Second

	// DefaultInitialDelay is the sleep before the second attempt.
	DefaultInitialDelay = time.Second

	// maxBodyPreview caps how much of a response body ends up in messages.
	maxBodyPreview = 2000
)

// Result is the outcome of one endpoint's full attempt sequence.
// StatusCode is 0 when no HTTP response was ever received.
type Result struct {
	Endpoint   endpoint.Endpoint
	URL        string
	StatusCode int
	OK         bool
	Skipped    bool
	Message    string
	Attempts   int
	Duration   time.Duration
}

// Options configures a Checker. Zero values fall back to the documented
// defaults; Client and Sleep exist so tests can intercept I/O and delays.
type Options struct {
	BaseURL      string
	Token        string
	UserAgent    string
	Timeout      time.Duration
	Retries      int
	Backoff      float64
	InitialDelay time.Duration
	Body         BodyPredicate
	Client       *http.Client
	Sleep        func(time.Duration)
	Logger       *slog.Logger
}

// Checker probes endpoints below a fixed base URL, retrying failed attempts
// with exponential backoff. It holds no mutable state between checks and is
// strictly sequential.
type Checker struct {
	baseURL      string
	token        string
	userAgent    string
	retries      int
	backoff      float64
	initialDelay time.Duration
	body         BodyPredicate
	client       *http.Client
	sleep        func(time.Duration)
	logger       *slog.Logger
}

// New validates opts and builds a Checker. It returns a *ConfigError for
// invalid input; no network activity happens here.
func New(opts Options) (*Checker, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, &ConfigError{Field: "base URL", Reason: "must not be empty"}
	}
	if opts.Retries < 0 {
		return nil, &ConfigError{Field: "retries", Reason: "must be at least 1"}
	}
	if opts.Backoff < 0 {
		return nil, &ConfigError{Field: "backoff", Reason: "must be greater than zero"}
	}
	if opts.Timeout < 0 {
		return nil, &ConfigError{Field: "timeout", Reason: "must be greater than zero"}
	}

	c := &Checker{
		baseURL:      opts.BaseURL,
		token:        opts.Token,
		userAgent:    opts.UserAgent,
		retries:      opts.Retries,
		backoff:      opts.Backoff,
		initialDelay: opts.InitialDelay,
		body:         opts.Body,
		client:       opts.Client,
		sleep:        opts.Sleep,
		logger:       opts.Logger,
	}

	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.retries == 0 {
		c.retries = DefaultRetries
	}
	if c.backoff == 0 {
		c.backoff = DefaultBackoff
	}
	if c.initialDelay == 0 {
		c.initialDelay = DefaultInitialDelay
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// Check runs the full attempt sequence for a single endpoint. All failures
// are classified into the Result; nothing is returned as an error.
func (c *Checker) Check(ep endpoint.Endpoint) Result {
	res := Result{
		Endpoint: ep,
		URL:      JoinURL(c.baseURL, ep.Path),
	}

	if ep.RequiresAuth && c.token == "" {
		res.Skipped = true
		res.Message = "authentication required but no token provided"
		c.logger.Info("Check skipped",
			slog.String("url", res.URL),
			slog.String("reason", "missing bearer token"))
		return res
	}

	start := time.Now()
	var (
		lastMessage string
		lastStatus  int
	)

	for attempt := 1; attempt <= c.retries; attempt++ {
		res.Attempts = attempt

		status, message, ok := c.attempt(res.URL, ep.ExpectedStatus)
		if status != 0 {
			lastStatus = status
		}

		if ok {
			res.OK = true
			res.StatusCode = status
			res.Message = message
			res.Duration = time.Since(start)
			c.logger.Info("Check passed",
				slog.String("url", res.URL),
				slog.Int("status", status),
				slog.Int("attempt", attempt))
			return res
		}

		lastMessage = message
		c.logger.Warn("Check attempt failed",
			slog.String("url", res.URL),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.retries),
			slog.String("reason", message))

		if attempt < c.retries {
			c.sleep(delayFor(attempt, c.initialDelay, c.backoff))
		}
	}

	res.StatusCode = lastStatus
	res.Message = lastMessage
	res.Duration = time.Since(start)
	c.logger.Error("Check failed after retries",
		slog.String("url", res.URL),
		slog.Int("attempts", res.Attempts),
		slog.String("reason", res.Message))
	return res
}

// CheckAll checks endpoints one at a time, in order. One endpoint
// exhausting its retries never aborts the remaining checks.
func (c *Checker) CheckAll(endpoints []endpoint.Endpoint) []Result {
	results := make([]Result, 0, len(endpoints))
	for _, ep := range endpoints {
		results = append(results, c.Check(ep))
	}
	return results
}

// attempt issues one GET and classifies the outcome. ok is true only when
// the status matches and the body predicate, if any, passes.
func (c *Checker) attempt(url string, expectedStatus int) (status int, message string, ok bool) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Sprintf("invalid request: %v", err), false
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Sprintf("request failed: %v", err), false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Sprintf("failed to read body: %v", err), false
	}

	if resp.StatusCode != expectedStatus {
		return resp.StatusCode,
			fmt.Sprintf("unexpected status %d (expected %d); body preview: %s",
				resp.StatusCode, expectedStatus, preview(body)),
			false
	}

	if c.body != nil {
		if err := c.body.Match(body); err != nil {
			return resp.StatusCode, err.Error(), false
		}
	}

	return resp.StatusCode,
		fmt.Sprintf("status %d (expected %d)", resp.StatusCode, expectedStatus),
		true
}

// delayFor is the pure form of the growing backoff delay:
// initial * backoff^(attempt-1) for the sleep after the given attempt.
func delayFor(attempt int, initial time.Duration, backoff float64) time.Duration {
	d := float64(initial)
	for i := 1; i < attempt; i++ {
		d *= backoff
	}
	return time.Duration(d)
}

func preview(body []byte) string {
	if len(body) > maxBodyPreview {
		body = body[:maxBodyPreview]
	}
	return string(body)
}
