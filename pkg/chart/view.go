package chart

import (
	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/drawing"
	"github.com/raykavin/chartview/pkg/gesture"
	"github.com/raykavin/chartview/pkg/indicator"
	"github.com/raykavin/chartview/pkg/metric"
)

const (
	minScale = 0.1
	maxScale = 50.0
	// Horizontal bar shift applied by the keyboard pan actions.
	keyPanStep = 40.0
)

// Viewport is the pan/zoom transform applied by the render surface.
type Viewport struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

// NewViewport returns the identity transform.
func NewViewport() Viewport { return Viewport{Scale: 1} }

// Pan shifts the viewport by an incremental delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Zoom scales the viewport by a multiplicative factor, clamped to a
// usable range.
func (v *Viewport) Zoom(factor float64) {
	v.Scale *= factor
	if v.Scale < minScale {
		v.Scale = minScale
	}
	if v.Scale > maxScale {
		v.Scale = maxScale
	}
}

// View is the full render-surface payload: everything the browser
// needs to draw one frame.
type View struct {
	TaskID     string                          `json:"task_id"`
	Pair       string                          `json:"pair"`
	Timeframe  string                          `json:"timeframe"`
	Theme      Theme                           `json:"theme"`
	ShowVolume bool                            `json:"show_volume"`
	ShowGrid   bool                            `json:"show_grid"`
	Crosshair  bool                            `json:"show_crosshair"`
	AutoResize bool                            `json:"auto_resize"`
	Width      int                             `json:"width"`
	Height     int                             `json:"height"`
	Viewport   Viewport                        `json:"viewport"`
	Candles    []core.Candle                   `json:"candles"`
	RawCount   int                             `json:"raw_count"`
	Markers    []core.TradeMarker              `json:"markers"`
	Indicators []indicator.TechnicalIndicator  `json:"indicators"`
	Drawings   []drawing.Object                `json:"drawings"`
	Legend     map[string]float64              `json:"legend,omitempty"`
	Metrics    metric.PerformanceMetrics       `json:"metrics"`
	Error      *ChartError                     `json:"error,omitempty"`
}

// View builds a consistent snapshot of the current chart state.
func (c *Chart) View() View {
	c.Lock()
	defer c.Unlock()
	return c.viewLocked()
}

func (c *Chart) viewLocked() View {
	return View{
		TaskID:     c.taskID,
		Pair:       c.pair,
		Timeframe:  c.timeframe,
		Theme:      c.theme,
		ShowVolume: c.showVolume,
		ShowGrid:   c.showGrid,
		Crosshair:  c.showCrosshair,
		AutoResize: c.autoResize,
		Width:      c.width,
		Height:     c.height,
		Viewport:   c.viewport,
		Candles:    c.candles,
		RawCount:   c.rawCount,
		Markers:    c.markers,
		Indicators: c.indicators,
		Drawings:   c.drawings.Objects(),
		Legend:     c.legendLocked(),
		Metrics:    c.metrics,
		Error:      c.lastError,
	}
}

// legendLocked reports the latest value of every visible indicator
// metric, keyed "indicator/metric". Caller holds the lock.
func (c *Chart) legendLocked() map[string]float64 {
	legend := make(map[string]float64)
	for _, ind := range c.indicators {
		if !ind.Visible {
			continue
		}
		for _, m := range ind.Metrics {
			if series := m.Series(); series.Length() > 0 {
				legend[ind.Name+"/"+m.Name] = series.Last(0)
			}
		}
	}
	return legend
}

// handleGesture applies one semantic gesture event to the viewport.
// Registered as the recognizer's handler at construction.
func (c *Chart) handleGesture(ev gesture.Event) {
	c.Lock()

	switch ev.Type {
	case gesture.EventPan:
		c.viewport.Pan(ev.DeltaX, ev.DeltaY)
		c.lastPinchScale = 1
	case gesture.EventZoom:
		c.viewport.Zoom(ev.Factor)
		c.lastPinchScale = 1
	case gesture.EventPinch:
		// The recognizer reports scale relative to the pinch start;
		// convert to an incremental factor before applying.
		if c.lastPinchScale > 0 && ev.Scale > 0 {
			c.viewport.Zoom(ev.Scale / c.lastPinchScale)
		}
		c.lastPinchScale = ev.Scale
	case gesture.EventTap:
		c.lastPinchScale = 1
		c.Unlock()
		c.handleTap(ev.X, ev.Y)
		return
	case gesture.EventLongPress:
		c.lastPinchScale = 1
	}

	c.Unlock()
	c.broadcastView()
}

// HandleKey routes a key event through the shortcut registry. The
// return value is false when the event should pass through to the
// platform untouched.
func (c *Chart) HandleKey(ev gesture.KeyEvent) bool {
	action, ok := c.shortcuts.Dispatch(ev)
	if !ok {
		return false
	}
	c.Apply(action)
	return true
}

// Apply executes a named shortcut action.
func (c *Chart) Apply(action gesture.Action) {
	switch action {
	case gesture.ActionPanLeft:
		c.Lock()
		c.viewport.Pan(keyPanStep, 0)
		c.Unlock()
	case gesture.ActionPanRight:
		c.Lock()
		c.viewport.Pan(-keyPanStep, 0)
		c.Unlock()
	case gesture.ActionZoomIn:
		c.Lock()
		c.viewport.Zoom(1.1)
		c.Unlock()
	case gesture.ActionZoomOut:
		c.Lock()
		c.viewport.Zoom(0.9)
		c.Unlock()
	case gesture.ActionToggleVolume:
		c.Lock()
		c.showVolume = !c.showVolume
		c.Unlock()
	case gesture.ActionToggleGrid:
		c.Lock()
		c.showGrid = !c.showGrid
		c.Unlock()
	case gesture.ActionDeleteDrawing:
		snap := c.drawings.Snapshot()
		if snap.SelectedID != "" {
			c.drawings.Delete(snap.SelectedID)
		}
	case gesture.ActionClearDrawings:
		c.drawings.ClearAll()
	case gesture.ActionScreenshot:
		// Rasterization happens where pixels exist: the render
		// surface answers this broadcast with a PNG download.
		c.wsManager.Broadcast("screenshot", nil)
		return
	case gesture.ActionRefresh:
		c.Reload()
		return
	}

	c.broadcastView()
}

// SetTheme switches the palette at runtime.
func (c *Chart) SetTheme(name string) error {
	theme, err := ParseTheme(name)
	if err != nil {
		return err
	}

	c.Lock()
	c.theme = theme
	c.Unlock()

	c.broadcastView()
	return nil
}

// Resize updates the chart dimensions, typically driven by the render
// surface when auto-resize is on.
func (c *Chart) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	c.Lock()
	c.width = width
	c.height = height
	c.Unlock()

	c.broadcastView()
}

// HandleCrosshair resolves the hovered time to its candle and series
// values and forwards them to the host callback.
func (c *Chart) HandleCrosshair(t int64, price float64) {
	c.Lock()
	info := CrosshairInfo{Time: t, Price: price, Values: make(map[string]float64)}

	for i := range c.candles {
		if c.candles[i].Time == t {
			candle := c.candles[i]
			info.Candle = &candle
			break
		}
	}

	for _, ind := range c.indicators {
		if !ind.Visible {
			continue
		}
		for _, m := range ind.Metrics {
			for _, p := range m.Points {
				if p.Time == t {
					info.Values[ind.Name+"/"+m.Name] = p.Value
					break
				}
			}
		}
	}

	callback := c.onCrosshair
	c.Unlock()

	if callback != nil {
		callback(info)
	}
}

// SelectTrade delivers the trade behind a clicked marker to the host.
func (c *Chart) SelectTrade(markerTime int64) {
	c.Lock()
	var marker *core.TradeMarker
	for i := range c.markers {
		if c.markers[i].Time == markerTime {
			marker = &c.markers[i]
			break
		}
	}
	callback := c.onTradeSelected
	c.Unlock()

	if marker != nil && marker.Trade != nil && callback != nil {
		callback(*marker.Trade, marker.Side)
	}
}

// handleTap selects the drawing or trade marker under the tap, if any.
// Hit testing happens on the render surface; the backend only clears
// the in-progress drawing state here.
func (c *Chart) handleTap(x, y float64) {
	snap := c.drawings.Snapshot()
	if snap.State == drawing.StateDrawing {
		c.drawings.FinishDrawing()
	}
}
