package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/dataopt"
	"github.com/raykavin/chartview/pkg/indicator"
	"github.com/raykavin/chartview/pkg/metric"
)

// Load fetches candles and trades for (taskID, pair, timeframe) and
// rebuilds the chart state. A newer Load invalidates any in-flight
// one: the superseded response is discarded, never applied. On fetch
// failure the previously displayed data is retained and the error is
// surfaced through the error panel.
func (c *Chart) Load(ctx context.Context, taskID, pair, timeframe string) error {
	gen := atomic.AddUint64(&c.loadGen, 1)

	ctx, cancel := context.WithCancel(ctx)
	// The context lives only as long as this load; a newer Load cancels
	// an in-flight one earlier through cancelLoad.
	defer cancel()

	c.Lock()
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	c.cancelLoad = cancel
	c.Unlock()

	candles, trades, err := c.fetch(ctx, taskID, pair, timeframe)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded or aborted: not an error panel event.
			return nil
		}

		chartErr := newChartError(ErrorFetch, "FETCH_FAILED",
			fmt.Sprintf("failed to load %s %s data", pair, timeframe), err)
		c.recordError(chartErr)
		return chartErr
	}

	// A newer load started while this one was in flight.
	if atomic.LoadUint64(&c.loadGen) != gen {
		return nil
	}

	if err := core.ValidateSeries(candles); err != nil {
		chartErr := newChartError(ErrorData, "BAD_SERIES",
			"results API returned a malformed candle series", err)
		c.recordError(chartErr)
		return chartErr
	}

	c.Lock()
	c.taskID = taskID
	c.pair = pair
	c.timeframe = timeframe
	c.rawCount = len(candles)
	c.candles = c.optimizeLocked(candles)
	c.trades = trades
	c.markers = buildMarkers(trades)
	c.metrics = metric.Calculate(trades, initialCapital(trades))
	c.recomputeIndicatorsLocked(candles)
	c.lastError = nil
	c.lastUpdate = time.Now()
	c.Unlock()

	c.restoreDrawings(taskID, pair)
	c.broadcastView()
	return nil
}

// Reload refetches the current task's data.
func (c *Chart) Reload() {
	c.Lock()
	taskID, pair, timeframe := c.taskID, c.pair, c.timeframe
	c.Unlock()

	if taskID == "" {
		return
	}

	if err := c.Load(context.Background(), taskID, pair, timeframe); err != nil {
		c.log.WithError(err).Error("chart reload failed")
	}
}

// SetTimeframe reloads the current task at a different resolution.
func (c *Chart) SetTimeframe(ctx context.Context, timeframe string) error {
	c.Lock()
	taskID, pair := c.taskID, c.pair
	c.Unlock()

	if taskID == "" {
		return core.ErrEmptySeries
	}
	return c.Load(ctx, taskID, pair, timeframe)
}

// fetch loads both series, through the shared cache when configured.
// Cache keys are namespaced by task so charts of different backtests
// never collide.
func (c *Chart) fetch(ctx context.Context, taskID, pair, timeframe string) ([]core.Candle, []core.Trade, error) {
	if c.cache == nil {
		candles, err := c.feed.Candles(ctx, taskID, pair, timeframe)
		if err != nil {
			return nil, nil, err
		}
		trades, err := c.feed.Trades(ctx, taskID, pair)
		if err != nil {
			return nil, nil, err
		}
		return candles, trades, nil
	}

	candleKey := fmt.Sprintf("task:%s:candles:%s:%s", taskID, pair, timeframe)
	candles, err := dataopt.GetOrSet(c.cache, candleKey, c.cacheTTL, func() ([]core.Candle, error) {
		return c.feed.Candles(ctx, taskID, pair, timeframe)
	})
	if err != nil {
		return nil, nil, err
	}

	tradeKey := fmt.Sprintf("task:%s:trades:%s", taskID, pair)
	trades, err := dataopt.GetOrSet(c.cache, tradeKey, c.cacheTTL, func() ([]core.Trade, error) {
		return c.feed.Trades(ctx, taskID, pair)
	})
	if err != nil {
		return nil, nil, err
	}

	return candles, trades, nil
}

// optimizeLocked bounds the rendered series. Performance mode caps the
// volume more aggressively. Caller holds the lock.
func (c *Chart) optimizeLocked(candles []core.Candle) []core.Candle {
	maxPoints := defaultMaxPoints
	if c.perfMode {
		maxPoints = performanceModeMaxPoints
	}

	if len(candles) > maxPoints {
		return dataopt.Downsample(candles, maxPoints, dataopt.StrategyLTTB)
	}
	return dataopt.OptimizeForRendering(candles, c.width, maxPoints)
}

// AddIndicator computes an indicator over the current series and adds
// it to the chart. Multiple indicators of the same kind may coexist.
func (c *Chart) AddIndicator(kind indicator.Kind, params indicator.Params) string {
	c.Lock()
	ind := indicator.Compute(kind, c.candles, params)
	c.indicators = append(c.indicators, ind)
	c.Unlock()

	c.broadcastView()
	return ind.ID
}

// RemoveIndicator drops an indicator by id.
func (c *Chart) RemoveIndicator(id string) {
	c.Lock()
	for i := range c.indicators {
		if c.indicators[i].ID == id {
			c.indicators = append(c.indicators[:i], c.indicators[i+1:]...)
			break
		}
	}
	c.Unlock()

	c.broadcastView()
}

// ToggleIndicator flips an indicator's visibility.
func (c *Chart) ToggleIndicator(id string) {
	c.Lock()
	for i := range c.indicators {
		if c.indicators[i].ID == id {
			c.indicators[i].Visible = !c.indicators[i].Visible
			break
		}
	}
	c.Unlock()

	c.broadcastView()
}

// recomputeIndicatorsLocked re-evaluates every indicator over a new
// series, keeping ids, visibility and settings. Caller holds the lock.
func (c *Chart) recomputeIndicatorsLocked(candles []core.Candle) {
	for i := range c.indicators {
		old := c.indicators[i]
		fresh := indicator.Compute(old.Kind, candles, old.Settings)
		fresh.ID = old.ID
		fresh.Visible = old.Visible
		c.indicators[i] = fresh
	}
}

// recordError installs the error panel state without touching the
// previously displayed data, notifies listeners and alerts the
// configured notifier.
func (c *Chart) recordError(chartErr *ChartError) {
	c.Lock()
	c.lastError = chartErr
	notifier := c.notifier
	c.Unlock()

	c.log.WithFields(map[string]any{
		"type": string(chartErr.Type),
		"code": chartErr.Code,
	}).Error(chartErr.Message)

	if notifier != nil {
		notifier.NotifyError(chartErr)
	}

	c.broadcastView()
}

// restoreDrawings loads persisted drawings for the chart, if a store
// is configured and has any.
func (c *Chart) restoreDrawings(taskID, pair string) {
	if c.store == nil {
		return
	}

	objects, err := c.store.Load(taskID, pair)
	if err != nil {
		if err != core.ErrNotFound {
			c.log.WithError(err).Warn("failed to restore drawings")
		}
		return
	}

	content, err := json.Marshal(objects)
	if err != nil {
		c.log.WithError(err).Warn("failed to restore drawings")
		return
	}
	if err := c.drawings.Import(content); err != nil {
		c.log.WithError(err).Warn("failed to restore drawings")
	}
}

// SaveDrawings persists the current drawing list.
func (c *Chart) SaveDrawings() error {
	if c.store == nil {
		return nil
	}

	c.Lock()
	taskID, pair := c.taskID, c.pair
	c.Unlock()

	return c.store.Save(taskID, pair, c.drawings.Objects())
}

// buildMarkers derives one open and one close marker per trade.
func buildMarkers(trades []core.Trade) []core.TradeMarker {
	markers := make([]core.TradeMarker, 0, 2*len(trades))

	for i := range trades {
		t := &trades[i]

		closeColor := "#ef5350"
		if t.ProfitAbs >= 0 {
			closeColor = "#26a69a"
		}

		markers = append(markers, core.TradeMarker{
			Time:     t.OpenDate.Unix(),
			Side:     core.MarkerOpen,
			Position: core.PositionBelowBar,
			Shape:    "arrowUp",
			Color:    "#2962ff",
			Text:     fmt.Sprintf("open %.5f", t.OpenRate),
			Trade:    t,
		}, core.TradeMarker{
			Time:     t.CloseDate.Unix(),
			Side:     core.MarkerClose,
			Position: core.PositionAboveBar,
			Shape:    "arrowDown",
			Color:    closeColor,
			Text:     fmt.Sprintf("%+.2f%%", t.ProfitPct),
			Trade:    t,
		})
	}

	return markers
}

// initialCapital estimates the starting equity from the stake of the
// first trade when the host does not supply one.
func initialCapital(trades []core.Trade) float64 {
	const fallback = 10000
	if len(trades) == 0 || trades[0].StakeAmount <= 0 {
		return fallback
	}
	return trades[0].StakeAmount * 10
}
