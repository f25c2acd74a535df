package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yungbote/wacatalog-backend/internal/platform/httpx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

func TestPlanPrices_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing api key header")
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"plans":[{"plan":"pro","name":"Pro","monthly_price":19.9,"currency":"BRL"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{PricesURL: srv.URL, APIKey: "k", MaxRetries: 2})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.PlanPrices(context.Background())
	if err != nil {
		t.Fatalf("PlanPrices: %v", err)
	}
	if len(got) != 1 || got[0].Plan != "pro" || got[0].MonthlyPrice != 19.9 {
		t.Fatalf("unexpected prices: %+v", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestPlanPrices_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := NewClient(logger.Nop(), Config{PricesURL: srv.URL, MaxRetries: 3})
	_, err := c.PlanPrices(context.Background())
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected error for missing url")
	}
}
