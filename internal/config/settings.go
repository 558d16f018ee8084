package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/vitos/crypto_volatility/internal/domain"
)

// EnvPrefix is prepended to every runtime setting variable.
const EnvPrefix = "VOLATILITY"

// Settings holds ambient runtime knobs taken from the environment.
type Settings struct {
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s" validate:"gt=0"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"5" validate:"gt=0"`
	Concurrency       int           `envconfig:"CONCURRENCY" default:"1" validate:"gt=0"`
	BaseURL           string        `envconfig:"BASE_URL"`
}

// LoadSettings reads VOLATILITY_* environment variables.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigValidation, err)
	}
	if err := validateStruct(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
