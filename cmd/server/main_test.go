package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eugenenazirov/plate-calculator/internal/application"
)

func TestBuildRootHandler(t *testing.T) {
	var apiPaths []string
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiPaths = append(apiPaths, r.URL.Path)
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	handler, err := application.BuildRootHandler(apiHandler)
	if err != nil {
		t.Fatalf("BuildRootHandler returned error: %v", err)
	}

	t.Run("serves index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("expected HTML Content-Type for index page, got %q", ct)
		}
	})

	t.Run("leaves unknown paths to the api", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("forwards api traffic", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/calculate", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
	})

	if len(apiPaths) != 2 || apiPaths[1] != "/api/calculate" {
		t.Fatalf("unexpected paths forwarded to the API: %v", apiPaths)
	}
}

func TestParseFlagsOnlySetsPassedFlags(t *testing.T) {
	o, err := parseFlags([]string{"--config", "plates.yaml", "--port", "9090", "--rate-limit-rps", "0"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}
	if o.ConfigFile != "plates.yaml" || o.EnvFile != "" {
		t.Fatalf("unexpected file overrides: %+v", o)
	}
	if o.Port == nil || *o.Port != "9090" {
		t.Fatalf("expected port override 9090, got %v", o.Port)
	}
	if o.RateLimitRPS == nil || *o.RateLimitRPS != 0 {
		t.Fatalf("expected explicit zero rps to be kept, got %v", o.RateLimitRPS)
	}
	if o.PlatesStr != nil || o.LogLevel != nil || o.RateLimitBurst != nil {
		t.Fatalf("expected unset flags to stay nil: %+v", o)
	}
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	if _, err := parseFlags([]string{"--rate-limit-burst", "many"}); err == nil {
		t.Fatalf("expected error for non-numeric burst")
	}
}
