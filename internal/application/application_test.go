package application

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/plate-calculator/internal/config"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	cfg.InitialPlates = []config.PlateCount{{Weight: 45, Count: 4}, {Weight: 2.5, Count: 2}}
	cfg.PresetBarWeights = map[string]float64{storage.OlympicBarbellID: 20}
	cfg.CustomBars = []config.CustomBar{{Name: "Swiss Bar", Weight: 35}}
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	inv, err := app.storage.GetInventory()
	if err != nil {
		t.Fatalf("GetInventory returned error: %v", err)
	}
	if inv.PlateCount(45) != 4 || inv.PlateCount(2.5) != 2 || inv.PlateCount(25) != 0 {
		t.Fatalf("unexpected seeded inventory %+v", inv.Plates)
	}

	bar, err := app.storage.GetBar(storage.OlympicBarbellID)
	if err != nil || bar.Weight != 20 {
		t.Fatalf("expected preset weight override, got %+v (%v)", bar, err)
	}
	bars, _ := app.storage.ListBars()
	if len(bars) != 5 || bars[4].Name != "Swiss Bar" {
		t.Fatalf("expected seeded custom bar, got %+v", bars)
	}

	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidSeedData(t *testing.T) {
	cases := map[string]func(*config.Config){
		"unknown plate":  func(c *config.Config) { c.InitialPlates = []config.PlateCount{{Weight: 3, Count: 1}} },
		"unknown preset": func(c *config.Config) { c.PresetBarWeights = map[string]float64{"hex_bar": 55} },
		"duplicate bar":  func(c *config.Config) { c.CustomBars = []config.CustomBar{{Name: "Trap Bar", Weight: 50}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := baseTestConfig(":0")
			mutate(&cfg)
			if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestRootHandlerServesUIAndAPI(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.EnableMetrics = true
	cfg.EnableMCP = true

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	root := app.Server().Handler

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<title>Plate Calculator</title>") {
		t.Fatalf("expected index page, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health to be routed to the API, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "plate_calculator_http_requests_total") {
		t.Fatalf("expected metrics to be served, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestMetricsDisabledByConfig(t *testing.T) {
	app, err := New(baseTestConfig(":0"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if app.metrics != nil {
		t.Fatalf("expected metrics to stay disabled")
	}

	rec := httptest.NewRecorder()
	app.Server().Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", rec.Code)
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
