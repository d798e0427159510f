package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/pricepanel-backend/pkg/config"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name string
		deps map[string]Pinger
		want int
	}{
		{name: "all up", deps: map[string]Pinger{"db": ok, "redis": ok}, want: http.StatusOK},
		{name: "redis down", deps: map[string]Pinger{"db": ok, "redis": down}, want: http.StatusServiceUnavailable},
		{name: "missing dependency", deps: map[string]Pinger{"db": nil}, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, HealthReady(cfg, testLogger(), tt.deps), httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d got %d", tt.want, rec.Code)
			}
		})
	}
}
