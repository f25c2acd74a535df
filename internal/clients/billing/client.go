package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/wacatalog-backend/internal/platform/httpx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// PlanPrice is one row of the subscription price table.
type PlanPrice struct {
	Plan         string  `json:"plan" yaml:"plan"`
	Name         string  `json:"name" yaml:"name"`
	MonthlyPrice float64 `json:"monthly_price" yaml:"monthly_price"`
	Currency     string  `json:"currency" yaml:"currency"`
}

type PriceSource interface {
	PlanPrices(ctx context.Context) ([]PlanPrice, error)
}

type Config struct {
	PricesURL  string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

type client struct {
	log        *logger.Logger
	pricesURL  string
	apiKey     string
	maxRetries int
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (PriceSource, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	u := strings.TrimSpace(cfg.PricesURL)
	if u == "" {
		return nil, fmt.Errorf("missing BILLING_PRICES_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &client{
		log:        log.With("client", "BillingClient"),
		pricesURL:  u,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: retries,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type pricesResponse struct {
	Plans []PlanPrice `json:"plans"`
}

func (c *client) PlanPrices(ctx context.Context) ([]PlanPrice, error) {
	var out pricesResponse
	if err := c.do(ctx, &out); err != nil {
		return nil, err
	}
	if len(out.Plans) == 0 {
		return nil, fmt.Errorf("billing returned an empty price table")
	}
	return out.Plans, nil
}

func (c *client) doOnce(ctx context.Context) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pricesURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, out any) error {
	backoff := 250 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("billing decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("Billing request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		timer := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
