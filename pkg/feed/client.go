// Package feed talks to the external task-results API: for a given
// task, pair and timeframe it returns the candle series and trade list
// the chart renders. It is the only network boundary of the chart
// subsystem.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/logger"
	"github.com/tidwall/gjson"
)

const defaultMaxAttempts = 4

// Client is an HTTP client for the results API.
type Client struct {
	baseURL     string
	http        *http.Client
	log         logger.Logger
	maxAttempts int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithMaxAttempts bounds the number of tries per request.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) { c.maxAttempts = n }
}

// NewClient creates a results API client for the given base URL.
func NewClient(baseURL string, log logger.Logger, options ...ClientOption) *Client {
	client := &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
		log:         log,
		maxAttempts: defaultMaxAttempts,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Candles fetches the OHLCV series for (taskID, pair, timeframe).
// The context cancels in-flight requests; the chart aborts superseded
// loads through it.
func (c *Client) Candles(ctx context.Context, taskID, pair, timeframe string) ([]core.Candle, error) {
	endpoint := fmt.Sprintf("%s/tasks/%s/candles?pair=%s&timeframe=%s",
		c.baseURL, url.PathEscape(taskID), url.QueryEscape(pair), url.QueryEscape(timeframe))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	candles := make([]core.Candle, 0)
	gjson.GetBytes(body, "candles").ForEach(func(_, value gjson.Result) bool {
		candle := core.Candle{
			Time:   value.Get("time").Int(),
			Open:   value.Get("open").Float(),
			High:   value.Get("high").Float(),
			Low:    value.Get("low").Float(),
			Close:  value.Get("close").Float(),
			Volume: value.Get("volume").Float(),
		}
		// Gap-padding rows carry a timestamp and zeroes everywhere else.
		if candle.IsEmpty() {
			return true
		}
		candles = append(candles, candle)
		return true
	})

	if err := core.ValidateSeries(candles); err != nil {
		return nil, fmt.Errorf("results API returned a malformed series: %w", err)
	}

	return candles, nil
}

// Trades fetches the closed-trade list for (taskID, pair).
func (c *Client) Trades(ctx context.Context, taskID, pair string) ([]core.Trade, error) {
	endpoint := fmt.Sprintf("%s/tasks/%s/trades?pair=%s",
		c.baseURL, url.PathEscape(taskID), url.QueryEscape(pair))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	trades := make([]core.Trade, 0)
	gjson.GetBytes(body, "trades").ForEach(func(_, value gjson.Result) bool {
		trades = append(trades, core.Trade{
			Pair:          value.Get("pair").String(),
			OpenDate:      parseDate(value.Get("open_date")),
			CloseDate:     parseDate(value.Get("close_date")),
			OpenRate:      value.Get("open_rate").Float(),
			CloseRate:     value.Get("close_rate").Float(),
			Amount:        value.Get("amount").Float(),
			StakeAmount:   value.Get("stake_amount").Float(),
			ProfitAbs:     value.Get("profit_abs").Float(),
			ProfitPct:     value.Get("profit_pct").Float(),
			TradeDuration: value.Get("trade_duration").Int(),
			ExitReason:    value.Get("exit_reason").String(),
		})
		return true
	})

	return trades, nil
}

// get performs a GET with exponential backoff on transient failures.
// 4xx responses fail immediately; 5xx and network errors retry until
// the attempt budget or the context runs out.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	retry := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retry.Duration()):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.log.WithError(err).Warn("results API request failed, retrying")
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("results API returned %d", resp.StatusCode)
			c.log.Warnf("results API returned %d, retrying", resp.StatusCode)
		default:
			return nil, fmt.Errorf("results API returned %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("results API unavailable after %d attempts: %w", c.maxAttempts, lastErr)
}

func parseDate(value gjson.Result) time.Time {
	if value.Type == gjson.Number {
		return time.Unix(value.Int(), 0).UTC()
	}
	if ts, err := time.Parse(time.RFC3339, value.String()); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}
