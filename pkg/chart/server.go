package chart

import (
	"fmt"
	"net/http"

	"github.com/raykavin/chartview/pkg/logger"
)

// HTTPServer is the transport contract the chart registers its routes on.
type HTTPServer interface {
	// RegisterHandler registers a handler for a specific route
	RegisterHandler(path string, handler http.HandlerFunc)

	// RegisterFileServer registers a handler to serve static files
	RegisterFileServer(path string, fs http.FileSystem)

	// Start starts the HTTP server on the specified port
	Start(port int) error
}

// StandardHTTPServer implements HTTPServer with the default mux.
type StandardHTTPServer struct{}

// NewStandardHTTPServer creates a new instance of StandardHTTPServer.
func NewStandardHTTPServer() *StandardHTTPServer {
	return &StandardHTTPServer{}
}

func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	http.HandleFunc(path, handler)
}

func (s *StandardHTTPServer) RegisterFileServer(path string, fs http.FileSystem) {
	http.Handle(path, http.FileServer(fs))
}

func (s *StandardHTTPServer) Start(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
}

// ChartServer binds a chart to an HTTP server.
type ChartServer struct {
	chart  *Chart
	server HTTPServer
	log    logger.Logger
}

// NewChartServer creates a new ChartServer.
func NewChartServer(chart *Chart, server HTTPServer, log logger.Logger) *ChartServer {
	return &ChartServer{
		chart:  chart,
		server: server,
		log:    log,
	}
}

// Start registers the chart routes and serves until the listener fails.
func (cs *ChartServer) Start() error {
	cs.chart.RegisterHandlers(cs.server)

	port := cs.chart.GetPort()
	cs.log.Infof("Chart available at http://localhost:%d", port)
	return cs.server.Start(port)
}
