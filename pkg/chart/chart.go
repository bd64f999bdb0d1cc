// Package chart composes the indicator engine, data optimizer, drawing
// engine, gesture dispatcher and metrics calculator into one
// interactive chart served to a browser render surface.
package chart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/dataopt"
	"github.com/raykavin/chartview/pkg/drawing"
	"github.com/raykavin/chartview/pkg/gesture"
	"github.com/raykavin/chartview/pkg/indicator"
	"github.com/raykavin/chartview/pkg/logger"
	"github.com/raykavin/chartview/pkg/metric"
	"github.com/raykavin/chartview/pkg/notification"
	"github.com/raykavin/chartview/pkg/storage"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Feed is the narrow contract toward the task-results API.
type Feed interface {
	Candles(ctx context.Context, taskID, pair, timeframe string) ([]core.Candle, error)
	Trades(ctx context.Context, taskID, pair string) ([]core.Trade, error)
}

// TradeSelectedFunc receives the trade behind a clicked marker along
// with which side of it was clicked.
type TradeSelectedFunc func(trade core.Trade, side core.MarkerSide)

// CrosshairInfo is delivered to the host on crosshair movement.
type CrosshairInfo struct {
	Time   int64              `json:"time"`
	Price  float64            `json:"price"`
	Candle *core.Candle       `json:"candle,omitempty"`
	Values map[string]float64 `json:"values,omitempty"`
}

// CrosshairFunc receives crosshair updates for tooltip rendering.
type CrosshairFunc func(CrosshairInfo)

const (
	defaultMaxPoints         = 2000
	performanceModeMaxPoints = 500
	defaultCacheTTL          = 5 * time.Minute
)

// Chart handles the visualization of one backtest task's results.
type Chart struct {
	sync.Mutex
	port          int
	debug         bool
	log           logger.Logger
	feed          Feed
	cache         *dataopt.Cache
	cacheTTL      time.Duration
	theme         Theme
	showVolume    bool
	showGrid      bool
	showCrosshair bool
	autoResize    bool
	perfMode      bool
	width         int
	height        int

	taskID    string
	pair      string
	timeframe string

	candles    []core.Candle
	rawCount   int
	trades     []core.Trade
	markers    []core.TradeMarker
	indicators []indicator.TechnicalIndicator
	metrics    metric.PerformanceMetrics
	lastError  *ChartError
	lastUpdate time.Time

	viewport       Viewport
	lastPinchScale float64

	drawings   *drawing.Engine
	recognizer *gesture.Recognizer
	shortcuts  *gesture.ShortcutRegistry
	store      storage.DrawingStore
	notifier   notification.Notifier

	onTradeSelected TradeSelectedFunc
	onCrosshair     CrosshairFunc

	loadGen    uint64
	cancelLoad context.CancelFunc

	scriptContent string
	indexHTML     *template.Template
	wsManager     *WebSocketManager
}

// Option defines a function type for configuring a Chart instance.
type Option func(*Chart)

// IndicatorRequest pairs an indicator kind with its settings for
// WithIndicators.
type IndicatorRequest struct {
	Kind   indicator.Kind
	Params indicator.Params
}

// WithPort sets the HTTP server port.
func WithPort(port int) Option {
	return func(c *Chart) { c.port = port }
}

// WithDebug enables debug mode (disables script minification).
func WithDebug() Option {
	return func(c *Chart) { c.debug = true }
}

// WithTheme selects a named color palette.
func WithTheme(theme Theme) Option {
	return func(c *Chart) { c.theme = theme }
}

// WithShowVolume toggles the volume histogram.
func WithShowVolume(show bool) Option {
	return func(c *Chart) { c.showVolume = show }
}

// WithShowGrid toggles the background grid.
func WithShowGrid(show bool) Option {
	return func(c *Chart) { c.showGrid = show }
}

// WithShowCrosshair toggles the crosshair overlay.
func WithShowCrosshair(show bool) Option {
	return func(c *Chart) { c.showCrosshair = show }
}

// WithAutoResize lets the render surface drive the chart size.
func WithAutoResize() Option {
	return func(c *Chart) { c.autoResize = true }
}

// WithPerformanceMode caps the rendered data volume more aggressively.
func WithPerformanceMode() Option {
	return func(c *Chart) { c.perfMode = true }
}

// WithSize fixes the chart dimensions.
func WithSize(width, height int) Option {
	return func(c *Chart) {
		c.width = width
		c.height = height
	}
}

// WithCache injects the shared data-optimizer cache. Keys are
// namespaced per task, so one cache serves every chart of a session.
func WithCache(cache *dataopt.Cache, ttl time.Duration) Option {
	return func(c *Chart) {
		c.cache = cache
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithIndicators seeds the chart with indicators computed on every
// load. Equivalent to calling AddIndicator for each after creation.
func WithIndicators(requests ...IndicatorRequest) Option {
	return func(c *Chart) {
		for _, req := range requests {
			c.indicators = append(c.indicators, indicator.Compute(req.Kind, nil, req.Params))
		}
	}
}

// WithDrawingStore enables drawing persistence.
func WithDrawingStore(store storage.DrawingStore) Option {
	return func(c *Chart) { c.store = store }
}

// WithNotifier enables out-of-band error alerts.
func WithNotifier(n notification.Notifier) Option {
	return func(c *Chart) { c.notifier = n }
}

// WithShortcuts replaces the default shortcut registry.
func WithShortcuts(r *gesture.ShortcutRegistry) Option {
	return func(c *Chart) { c.shortcuts = r }
}

// OnTradeSelected registers the trade click callback.
func OnTradeSelected(fn TradeSelectedFunc) Option {
	return func(c *Chart) { c.onTradeSelected = fn }
}

// OnCrosshair registers the crosshair move callback.
func OnCrosshair(fn CrosshairFunc) Option {
	return func(c *Chart) { c.onCrosshair = fn }
}

// NewChart creates a new chart instance over the given results feed.
func NewChart(log logger.Logger, feed Feed, options ...Option) (*Chart, error) {
	chart := &Chart{
		port:           8080,
		log:            log,
		feed:           feed,
		cacheTTL:       defaultCacheTTL,
		theme:          themes["dark"],
		showVolume:     true,
		showGrid:       true,
		showCrosshair:  true,
		width:          1200,
		height:         600,
		viewport:       NewViewport(),
		lastPinchScale: 1,
		drawings:       drawing.NewEngine(log),
		shortcuts:      gesture.DefaultShortcuts(),
	}

	for _, option := range options {
		option(chart)
	}

	// The recognizer emits through a narrow handler; it never holds a
	// reference to the chart.
	chart.recognizer = gesture.NewRecognizer(chart.handleGesture, gesture.Config{})

	var err error
	chart.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	chartJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpiled := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !chart.debug,
		MinifyIdentifiers: !chart.debug,
		MinifyWhitespace:  !chart.debug,
	})
	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpiled.Errors)
	}
	chart.scriptContent = string(transpiled.Code)

	chart.wsManager = NewWebSocketManager(log, chart)

	return chart, nil
}

// GetPort returns the configured port.
func (c *Chart) GetPort() int { return c.port }

// Drawings exposes the chart's drawing engine.
func (c *Chart) Drawings() *drawing.Engine { return c.drawings }

// Recognizer exposes the gesture recognizer for the platform adapter.
func (c *Chart) Recognizer() *gesture.Recognizer { return c.recognizer }

// Shortcuts exposes the shortcut registry.
func (c *Chart) Shortcuts() *gesture.ShortcutRegistry { return c.shortcuts }

// RegisterHandlers registers all chart routes on the HTTP server.
func (c *Chart) RegisterHandlers(server HTTPServer) {
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	server.RegisterHandler("/health", c.recovered(c.handleHealth))
	server.RegisterHandler("/history", c.recovered(c.handleTradeHistory))
	server.RegisterHandler("/api/view", c.recovered(c.handleView))
	server.RegisterHandler("/api/metrics", c.recovered(c.handleMetrics))
	server.RegisterHandler("/api/drawings", c.recovered(c.handleDrawings))
	server.RegisterHandler("/ws", c.wsManager.HandleWebSocket)
	server.RegisterHandler("/", c.recovered(c.handleIndex))
}
