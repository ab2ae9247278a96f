package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/store"
)

// Provider turns the floor's current numbers into a short message for
// the dashboard header.
type Provider interface {
	Generate(ctx context.Context, metrics store.Metrics) (string, error)
}

type Generator struct {
	provider Provider
	cache    Cache
	cooldown time.Duration
}

type Options struct {
	Provider Provider
	Cache    Cache
	Cooldown time.Duration
}

const defaultCooldown = 5 * time.Minute

func NewGenerator(options Options) *Generator {
	cooldown := options.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	cache := options.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Generator{
		provider: options.Provider,
		cache:    cache,
		cooldown: cooldown,
	}
}

// DailyInsight serves the cached message while the cooldown holds, so
// the upstream generator is hit at most once per window. The key
// carries a hash of the numbers, so a changed snapshot gets a fresh
// message even inside the window. Provider failures degrade to a
// canned message instead of an error.
func (g *Generator) DailyInsight(ctx context.Context, metrics store.Metrics) (string, error) {
	key := fmt.Sprintf("insight:%s:%d-%.0f", time.Now().UTC().Format("2006-01-02"), metrics.TotalCompleted, metrics.ConversionRate)
	if cached, ok, err := g.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("insight cache read failed: %v", err)
	}

	message := fallbackMessage(metrics)
	if g.provider != nil {
		generated, err := g.provider.Generate(ctx, metrics)
		if err != nil {
			log.Printf("insight generation failed: %v", err)
		} else if generated != "" {
			message = generated
		}
	}

	if err := g.cache.Set(ctx, key, message, g.cooldown); err != nil {
		log.Printf("insight cache write failed: %v", err)
	}
	return message, nil
}

var fallbacks = []string{
	"Cada cliente é uma oportunidade. Bom atendimento, equipe!",
	"Foco no atendimento de qualidade, as vendas são consequência.",
	"Equipe unida vende mais. Vamos juntos!",
}

func fallbackMessage(metrics store.Metrics) string {
	switch {
	case metrics.TotalCompleted == 0:
		return fallbacks[0]
	case metrics.ConversionRate >= 50:
		return fmt.Sprintf("Conversão de %.0f%% hoje. Excelente ritmo, mantenham o padrão!", metrics.ConversionRate)
	case metrics.TotalSales == 0:
		return fallbacks[1]
	default:
		return fallbacks[2]
	}
}

// HTTPProvider posts the metrics summary to an external text
// generation endpoint and expects {"message": "..."} back.
type HTTPProvider struct {
	url    string
	token  string
	client *http.Client
}

func NewHTTPProvider(url, token string) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *HTTPProvider) Generate(ctx context.Context, metrics store.Metrics) (string, error) {
	payload := map[string]interface{}{
		"total_completed": metrics.TotalCompleted,
		"total_sales":     metrics.TotalSales,
		"revenue":         metrics.Revenue,
		"conversion_rate": metrics.ConversionRate,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("insight endpoint returned status %d", resp.StatusCode)
	}
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Message, nil
}
