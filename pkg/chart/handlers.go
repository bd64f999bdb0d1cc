package chart

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/metric"
	"github.com/samber/lo"
)

// recovered wraps a handler with the chart-level error boundary: a
// panic inside the render path becomes a fallback error panel instead
// of crashing the host process.
func (c *Chart) recovered(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				chartErr := newChartError(ErrorRendering, "RENDER_PANIC",
					"chart rendering failed", fmt.Errorf("%v", rec))
				c.recordError(chartErr)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":  chartErr,
					"reload": true,
				})
			}
		}()
		next(w, r)
	}
}

// handleHealth reports unhealthy when no update happened for 10 minutes.
func (c *Chart) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	lastUpdate := c.lastUpdate
	c.Unlock()

	if time.Since(lastUpdate) > 10*time.Minute {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(lastUpdate.String())); err != nil {
			c.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex renders the chart page.
func (c *Chart) handleIndex(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	pair := c.pair
	taskID := c.taskID
	theme := c.theme
	c.Unlock()

	w.Header().Set("Content-Type", "text/html")
	err := c.indexHTML.Execute(w, map[string]any{
		"pair":       pair,
		"task":       taskID,
		"background": template.CSS(theme.Background),
		"script":     template.JS(c.scriptContent),
	})
	if err != nil {
		c.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleView serves the full render payload.
func (c *Chart) handleView(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c.View()); err != nil {
		c.log.Error("Failed to encode view: ", err)
	}
}

// handleMetrics serves the performance metrics with a bootstrap
// confidence interval on the mean return.
func (c *Chart) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	metrics := c.metrics
	trades := c.trades
	c.Unlock()

	profits := lo.Map(trades, func(t core.Trade, _ int) float64 { return t.ProfitPct })

	response := map[string]any{
		"metrics": metrics,
	}
	if len(profits) > 0 {
		response["mean_return_ci"] = metric.Bootstrap(profits, mean, 1000, 0.95)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		c.log.Error("Failed to encode metrics: ", err)
	}
}

// handleTradeHistory exports the trade list as CSV.
func (c *Chart) handleTradeHistory(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	trades := c.trades
	pair := c.pair
	c.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=history_"+pair+".csv")

	buffer := bytes.NewBuffer(nil)
	csvWriter := csv.NewWriter(buffer)

	header := []string{
		"pair", "open_date", "close_date", "open_rate", "close_rate",
		"amount", "stake_amount", "profit_abs", "profit_pct",
		"trade_duration", "exit_reason",
	}
	if err := csvWriter.Write(header); err != nil {
		c.log.Error("Failed writing CSV header: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	for _, t := range trades {
		row := []string{
			t.Pair,
			t.OpenDate.Format(time.RFC3339),
			t.CloseDate.Format(time.RFC3339),
			fmt.Sprintf("%.8f", t.OpenRate),
			fmt.Sprintf("%.8f", t.CloseRate),
			fmt.Sprintf("%.8f", t.Amount),
			fmt.Sprintf("%.8f", t.StakeAmount),
			fmt.Sprintf("%.8f", t.ProfitAbs),
			fmt.Sprintf("%.4f", t.ProfitPct),
			fmt.Sprintf("%d", t.TradeDuration),
			t.ExitReason,
		}
		if err := csvWriter.Write(row); err != nil {
			c.log.Error("Failed writing CSV data: ", err)
			http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
			return
		}
	}
	csvWriter.Flush()

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		c.log.Error("Failed writing CSV response: ", err)
	}
}

// handleDrawings exports (GET) or imports (POST) the drawing list as a
// flat JSON array.
func (c *Chart) handleDrawings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		content, err := c.drawings.Export()
		if err != nil {
			http.Error(w, "Failed to export drawings", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment;filename=drawings.json")
		_, _ = w.Write(content)

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusBadRequest)
			return
		}
		if err := c.drawings.Import(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := c.SaveDrawings(); err != nil {
			c.log.WithError(err).Warn("failed to persist imported drawings")
		}
		c.broadcastView()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
