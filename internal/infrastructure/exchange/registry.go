package exchange

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vitos/crypto_volatility/internal/domain"
)

// Factory builds a provider client for one exchange.
type Factory func(opts Options) domain.MarketDataProvider

// Registry maps exchange identifiers to client factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with every built-in exchange registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("bybit", func(opts Options) domain.MarketDataProvider { return NewBybitAdapter(opts) })
	r.Register("binance", func(opts Options) domain.MarketDataProvider { return NewBinanceAdapter(opts) })
	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[strings.ToLower(name)] = f
}

// New resolves name to a provider client.
func (r *Registry) New(name string, opts Options) (domain.MarketDataProvider, error) {
	f, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", domain.ErrUnsupportedExchange, name, strings.Join(r.Names(), ", "))
	}
	return f(opts), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
