package application

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/api"
	"github.com/eugenenazirov/plate-calculator/internal/calculator"
	"github.com/eugenenazirov/plate-calculator/internal/config"
	"github.com/eugenenazirov/plate-calculator/internal/mcp"
	"github.com/eugenenazirov/plate-calculator/internal/metrics"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
)

// Version is reported to MCP clients. It is overridden at build time.
var Version = "dev"

//go:embed web/index.html
var webFS embed.FS

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage    storage.Storage
	calculator calculator.Calculator
	metrics    *metrics.Metrics
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := seedStorage(store, cfg); err != nil {
		return nil, err
	}

	calc := calculator.New()

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New()
	}

	handler := api.NewHandler(calc, store, api.WithCalculationMetrics(m))
	routerOpts := []api.RouterOption{
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	if m != nil {
		routerOpts = append(routerOpts, api.WithMetrics(m))
	}
	if cfg.EnableMCP {
		mcpServer := mcp.New(store, calc, m, Version, logger)
		routerOpts = append(routerOpts, api.WithMCP(mcp.NewHTTPHandler(mcpServer)))
	}
	apiRouter := api.NewRouter(handler, logger, routerOpts...)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		storage:    store,
		calculator: calc,
		metrics:    m,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     NewServer(cfg, rootHandler),
	}, nil
}

func seedStorage(store storage.Storage, cfg config.Config) error {
	if len(cfg.InitialPlates) > 0 {
		plates := make([]calculator.WeightPlate, 0, len(cfg.InitialPlates))
		for _, p := range cfg.InitialPlates {
			plates = append(plates, calculator.WeightPlate{Weight: p.Weight, AvailableCount: p.Count})
		}
		if err := store.SetPlateCounts(plates); err != nil {
			return fmt.Errorf("failed to apply initial plates: %w", err)
		}
	}

	for id, w := range cfg.PresetBarWeights {
		if _, err := store.SetPresetBarWeight(id, w); err != nil {
			return fmt.Errorf("failed to apply preset weight for %q: %w", id, err)
		}
	}

	for _, b := range cfg.CustomBars {
		if _, err := store.AddCustomBar(b.Name, b.Weight, b.IsLoadingPin); err != nil {
			return fmt.Errorf("failed to add custom bar %q: %w", b.Name, err)
		}
	}
	return nil
}

// BuildRootHandler serves the embedded web UI at "/" and hands every other
// request to apiHandler.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	index, err := fs.ReadFile(webFS, "web/index.html")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(index)
	})
	r.NotFound(apiHandler.ServeHTTP)
	r.MethodNotAllowed(apiHandler.ServeHTTP)

	return r, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.Bool("metrics", a.metrics != nil),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
