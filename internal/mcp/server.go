// Package mcp exposes the plate calculator to MCP clients as a set of tools
// over the streamable HTTP transport.
package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/calculator"
	"github.com/eugenenazirov/plate-calculator/internal/metrics"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
)

const serverName = "plate-calculator"

// New creates an MCP server with every tool registered.
func New(store storage.Storage, calc calculator.Calculator, m *metrics.Metrics, version string, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Plate calculator. Work out which plates to load on a barbell or loading pin for a target weight, "+
			"or the total weight of a loaded bar. Calculations use the lifter's stored plate inventory and bars."),
	)

	h := &handlers{store: store, calc: calc, metrics: m, log: logger}

	s.AddTools(
		server.ServerTool{Tool: toolCalculatePlates, Handler: h.calculatePlates},
		server.ServerTool{Tool: toolCalculateTotalWeight, Handler: h.calculateTotalWeight},
		server.ServerTool{Tool: toolListBars, Handler: h.listBars},
		server.ServerTool{Tool: toolGetInventory, Handler: h.getInventory},
	)

	return s
}

// NewHTTPHandler wraps s in the streamable HTTP transport.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithStateLess(true))
}

type handlers struct {
	store   storage.Storage
	calc    calculator.Calculator
	metrics *metrics.Metrics
	log     *zap.Logger
}
