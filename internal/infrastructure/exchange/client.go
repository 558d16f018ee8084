package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vitos/crypto_volatility/internal/domain"
	"golang.org/x/time/rate"
)

// maxCandleLimit is the largest kline page both supported exchanges serve.
const maxCandleLimit = domain.MaxCandleLimit

// Options configure a provider client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// restClient issues paced public GET requests against one exchange.
type restClient struct {
	name    string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func newRestClient(name, defaultBaseURL string, opts Options) *restClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &restClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// getJSON decodes the response of GET path?query into out.
func (c *restClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderRequest, c.name, err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderRequest, c.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderRequest, c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %v", domain.ErrProviderRequest, c.name, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s: HTTP %d: %s", domain.ErrProviderRequest, c.name, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: decode %s: %v", domain.ErrProviderRequest, c.name, path, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func clampLimit(limit int) int {
	if limit > maxCandleLimit {
		return maxCandleLimit
	}
	if limit < 1 {
		return 1
	}
	return limit
}
