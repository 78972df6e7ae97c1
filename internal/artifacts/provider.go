package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tminusrain/parade-forecast/internal/forecast"
)

// Provider supplies the fitted model context at process startup. The core
// treats it as opaque and fails closed if any piece is missing.
type Provider interface {
	Load(ctx context.Context) (*forecast.ModelContext, error)
}

// NewProvider picks a provider by source scheme: http(s) URLs fetch the
// bundle over the network, anything else is treated as a file path.
func NewProvider(source string, client *http.Client) Provider {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTPProvider(source, client)
	}
	return &FileProvider{Path: source}
}

// FileProvider loads the artifact bundle from a local JSON file.
type FileProvider struct {
	Path string
}

// Load reads, decodes and validates the bundle.
func (p *FileProvider) Load(_ context.Context) (*forecast.ModelContext, error) {
	if p.Path == "" {
		return nil, fmt.Errorf("artifact path is not configured")
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact bundle %s: %w", p.Path, err)
	}
	bundle, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	return bundle.ModelContext()
}

// HTTPProvider fetches the artifact bundle from a remote endpoint with
// retries, exponential backoff and a circuit breaker.
type HTTPProvider struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewHTTPProvider creates a provider for a bundle URL.
func NewHTTPProvider(url string, client *http.Client) *HTTPProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "artifact-bundle",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPProvider{
		url: url,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Load fetches, decodes and validates the bundle.
func (p *HTTPProvider) Load(ctx context.Context) (*forecast.ModelContext, error) {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.url, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact bundle: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact bundle response: %w", err)
	}

	bundle, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	return bundle.ModelContext()
}
