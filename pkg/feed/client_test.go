package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raykavin/chartview/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candlesPayload = `{
	"candles": [
		{"time": 1700000000, "open": 100, "high": 110, "low": 95, "close": 105, "volume": 1000},
		{"time": 1700003600, "open": 105, "high": 120, "low": 104, "close": 118, "volume": 1500}
	]
}`

const tradesPayload = `{
	"trades": [
		{
			"pair": "BTCUSDT",
			"open_date": 1700000000,
			"close_date": "2023-11-15T00:00:00Z",
			"open_rate": 100,
			"close_rate": 118,
			"amount": 1,
			"stake_amount": 100,
			"profit_abs": 18,
			"profit_pct": 18,
			"trade_duration": 60,
			"exit_reason": "roi"
		}
	]
}`

func newTestClient(t *testing.T, url string, options ...ClientOption) *Client {
	t.Helper()
	log, err := zerolog.New("error", "", false, false)
	require.NoError(t, err)
	return NewClient(url, log, options...)
}

func TestClient_Candles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/t1/candles", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("pair"))
		assert.Equal(t, "1h", r.URL.Query().Get("timeframe"))
		w.Write([]byte(candlesPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	candles, err := client.Candles(context.Background(), "t1", "BTCUSDT", "1h")
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000), candles[0].Time)
	assert.Equal(t, 105.0, candles[0].Close)
	assert.Equal(t, 1500.0, candles[1].Volume)
}

func TestClient_CandlesSkipsGapPaddingRows(t *testing.T) {
	payload := `{"candles": [
		{"time": 1700000000, "open": 100, "high": 110, "low": 95, "close": 105, "volume": 1000},
		{"time": 1700003600, "open": 0, "high": 0, "low": 0, "close": 0, "volume": 0},
		{"time": 1700007200, "open": 105, "high": 120, "low": 104, "close": 118, "volume": 1500}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	candles, err := client.Candles(context.Background(), "t1", "BTCUSDT", "1h")
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000), candles[0].Time)
	assert.Equal(t, int64(1700007200), candles[1].Time)
}

func TestClient_CandlesRejectsNonMonotonicSeries(t *testing.T) {
	payload := `{"candles": [
		{"time": 1700003600, "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1},
		{"time": 1700000000, "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Candles(context.Background(), "t1", "BTCUSDT", "1h")
	assert.Error(t, err)
}

func TestClient_Trades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/t1/trades", r.URL.Path)
		w.Write([]byte(tradesPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	trades, err := client.Trades(context.Background(), "t1", "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, "BTCUSDT", trade.Pair)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), trade.OpenDate)
	assert.Equal(t, 2023, trade.CloseDate.Year())
	assert.Equal(t, 18.0, trade.ProfitAbs)
	assert.Equal(t, "roi", trade.ExitReason)
	assert.True(t, trade.IsWin())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(candlesPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	candles, err := client.Candles(context.Background(), "t1", "BTCUSDT", "1h")
	require.NoError(t, err)
	assert.Len(t, candles, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorFailsFast(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Candles(context.Background(), "t1", "BTCUSDT", "1h")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxAttempts(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Candles(ctx, "t1", "BTCUSDT", "1h")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
