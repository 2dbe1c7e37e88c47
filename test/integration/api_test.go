package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/plate-calculator/internal/application"
	"github.com/eugenenazirov/plate-calculator/internal/config"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Port:                 "0",
		InitialPlates:        []config.PlateCount{{Weight: 45, Count: 4}, {Weight: 25, Count: 2}, {Weight: 5, Count: 2}, {Weight: 2.5, Count: 2}},
		ReadHeaderTimeout:    time.Second,
		WriteTimeout:         5 * time.Second,
		IdleTimeout:          5 * time.Second,
		EnableRequestLogging: true,
		EnableMetrics:        true,
		EnableMCP:            true,
	}
	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New: %v", err)
	}

	srv := httptest.NewServer(app.Server().Handler)
	t.Cleanup(srv.Close)
	return srv
}

func performRequest(t *testing.T, srv *httptest.Server, method, target string, payload any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, srv.URL+target, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestIntegrationFlow(t *testing.T) {
	srv := newServer(t)

	resp, _ := performRequest(t, srv, http.MethodGet, "/api/health", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request ID header")
	}

	resp, _ = performRequest(t, srv, http.MethodPut, "/api/inventory/10", map[string]int{"count": 2}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from plate count update, got %d", resp.StatusCode)
	}

	resp, body := performRequest(t, srv, http.MethodPost, "/api/bars", map[string]any{"name": "Women's Bar", "weight": 35}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from bar creation, got %d", resp.StatusCode)
	}
	var bar struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &bar); err != nil {
		t.Fatalf("decode bar: %v", err)
	}

	resp, body = performRequest(t, srv, http.MethodPost, "/api/calculate", map[string]any{
		"targetWeight": "190",
		"barId":        bar.ID,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from calculate, got %d: %s", resp.StatusCode, body)
	}

	var calc struct {
		AchievedWeight float64 `json:"achievedWeight"`
		IsExactMatch   bool    `json:"isExactMatch"`
		Summary        string  `json:"summary"`
		PlatesPerSide  []struct {
			Weight    float64 `json:"weight"`
			CountUsed int     `json:"countUsed"`
		} `json:"platesPerSide"`
	}
	if err := json.Unmarshal(body, &calc); err != nil {
		t.Fatalf("decode calculation: %v", err)
	}
	// 35 bar + 2 x (45 + 25 + 5 + 2.5) = 190
	if !calc.IsExactMatch || calc.Summary != "45 x1, 25 x1, 5 x1, 2.5 x1" {
		t.Fatalf("unexpected calculation %+v", calc)
	}

	plates := make([]map[string]any, 0, len(calc.PlatesPerSide))
	for _, p := range calc.PlatesPerSide {
		plates = append(plates, map[string]any{"weight": p.Weight, "count": p.CountUsed})
	}
	resp, body = performRequest(t, srv, http.MethodPost, "/api/calculate/reverse", map[string]any{"plates": plates}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from reverse, got %d", resp.StatusCode)
	}
	var reverse struct {
		TotalWeight float64 `json:"totalWeight"`
	}
	if err := json.Unmarshal(body, &reverse); err != nil {
		t.Fatalf("decode reverse: %v", err)
	}
	// The custom bar stays selected after the forward calculation.
	if reverse.TotalWeight != calc.AchievedWeight {
		t.Fatalf("expected reverse total %v to match achieved weight %v", reverse.TotalWeight, calc.AchievedWeight)
	}

	resp, body = performRequest(t, srv, http.MethodGet, "/metrics", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", resp.StatusCode)
	}
	for _, want := range []string{
		`plate_calculator_calculations_total{exact="true",topology="barbell"} 1`,
		`route="/api/calculate/reverse"`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected metrics to contain %q", want)
		}
	}
}

func TestIntegrationMCPInitialize(t *testing.T) {
	srv := newServer(t)

	initialize := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": "2025-03-26",
			"capabilities":    map[string]any{},
			"clientInfo":      map[string]any{"name": "integration-test", "version": "1.0.0"},
		},
	}
	resp, body := performRequest(t, srv, http.MethodPost, "/mcp", initialize, map[string]string{
		"Accept": "application/json, text/event-stream",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from MCP initialize, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "plate-calculator") {
		t.Fatalf("expected server info in initialize response, got %s", body)
	}
}
