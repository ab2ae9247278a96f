package insight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/store"
)

type countingProvider struct {
	calls   int
	message string
	fail    bool
}

func (p *countingProvider) Generate(ctx context.Context, metrics store.Metrics) (string, error) {
	p.calls++
	if p.fail {
		return "", errors.New("upstream down")
	}
	return p.message, nil
}

func TestDailyInsightCooldown(t *testing.T) {
	provider := &countingProvider{message: "Ótimo dia de vendas!"}
	g := NewGenerator(Options{Provider: provider, Cooldown: time.Minute})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		message, err := g.DailyInsight(ctx, store.Metrics{TotalCompleted: 4, TotalSales: 2})
		if err != nil {
			t.Fatalf("insight: %v", err)
		}
		if message != provider.message {
			t.Fatalf("unexpected message: %q", message)
		}
	}
	if provider.calls != 1 {
		t.Fatalf("provider called %d times within cooldown, want 1", provider.calls)
	}
}

func TestDailyInsightRefreshesWhenStatsChange(t *testing.T) {
	provider := &countingProvider{message: "Bom ritmo!"}
	g := NewGenerator(Options{Provider: provider, Cooldown: time.Minute})

	ctx := context.Background()
	if _, err := g.DailyInsight(ctx, store.Metrics{TotalCompleted: 1, TotalSales: 1, ConversionRate: 100}); err != nil {
		t.Fatalf("insight: %v", err)
	}
	if _, err := g.DailyInsight(ctx, store.Metrics{TotalCompleted: 20, TotalSales: 1, ConversionRate: 5}); err != nil {
		t.Fatalf("insight: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("changed numbers must bypass the cooldown, provider called %d times", provider.calls)
	}

	// Unchanged numbers keep hitting the cache.
	if _, err := g.DailyInsight(ctx, store.Metrics{TotalCompleted: 20, TotalSales: 1, ConversionRate: 5}); err != nil {
		t.Fatalf("insight: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("unchanged numbers must stay cached, provider called %d times", provider.calls)
	}
}

func TestDailyInsightFallbackOnFailure(t *testing.T) {
	provider := &countingProvider{fail: true}
	g := NewGenerator(Options{Provider: provider, Cooldown: time.Minute})

	message, err := g.DailyInsight(context.Background(), store.Metrics{})
	if err != nil {
		t.Fatalf("fallback should not surface the provider error, got %v", err)
	}
	if message == "" {
		t.Fatalf("expected a canned message")
	}
}

func TestDailyInsightWithoutProvider(t *testing.T) {
	g := NewGenerator(Options{})

	message, err := g.DailyInsight(context.Background(), store.Metrics{TotalCompleted: 5, TotalSales: 4, ConversionRate: 80})
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if !strings.Contains(message, "80%") {
		t.Fatalf("high conversion should be celebrated, got %q", message)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, ok, _ := cache.Get(ctx, "k"); !ok || value != "v" {
		t.Fatalf("expected cached value, got %q ok=%v", value, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestHTTPProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token-1" {
			t.Fatalf("unexpected auth header %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Equipe voando hoje!"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "token-1")
	message, err := p.Generate(context.Background(), store.Metrics{TotalCompleted: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if message != "Equipe voando hoje!" {
		t.Fatalf("unexpected message: %q", message)
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "")
	if _, err := p.Generate(context.Background(), store.Metrics{}); err == nil {
		t.Fatalf("expected error on 502")
	}
}
