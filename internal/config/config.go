// Package config loads the run configuration file and the environment runtime settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vitos/crypto_volatility/internal/domain"
	"gopkg.in/yaml.v3"
)

var supportedExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// rawConfig keeps the nodes so scalar types can be checked before conversion.
// JSON input is checked with encoding/json first and then decoded as YAML.
type rawConfig struct {
	ExchangeName yaml.Node `yaml:"exchange_name"`
	FiatCurrency yaml.Node `yaml:"fiat_currency"`
	Days         yaml.Node `yaml:"days"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*domain.Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("%w: configuration file must be a JSON or YAML file: %s", domain.ErrConfigFormat, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigUnreadable, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigUnreadable, path, err)
	}

	return Parse(data, ext)
}

// Parse decodes and validates configuration content. ext selects the syntax:
// ".json" content must be strict JSON, anything else is read as YAML.
func Parse(data []byte, ext string) (*domain.Config, error) {
	if strings.EqualFold(ext, ".json") && !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrConfigFormat)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigFormat, err)
	}

	exchangeName, err := stringField("exchange_name", &raw.ExchangeName)
	if err != nil {
		return nil, err
	}
	fiat, err := stringField("fiat_currency", &raw.FiatCurrency)
	if err != nil {
		return nil, err
	}
	days, err := intField("days", &raw.Days)
	if err != nil {
		return nil, err
	}

	cfg := &domain.Config{
		ExchangeName: strings.ToLower(strings.TrimSpace(exchangeName)),
		FiatCurrency: strings.ToUpper(strings.TrimSpace(fiat)),
		Days:         days,
	}
	if err := validateStruct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func stringField(name string, n *yaml.Node) (string, error) {
	if n.Kind == 0 {
		return "", fmt.Errorf("%w: missing required configuration field: %s", domain.ErrConfigValidation, name)
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", fmt.Errorf("%w: '%s' must be a string, got: %s", domain.ErrConfigValidation, name, describe(n))
	}
	return n.Value, nil
}

func intField(name string, n *yaml.Node) (int, error) {
	if n.Kind == 0 {
		return 0, fmt.Errorf("%w: missing required configuration field: %s", domain.ErrConfigValidation, name)
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return 0, fmt.Errorf("%w: '%s' must be a positive integer, got: %s", domain.ErrConfigValidation, name, describe(n))
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: '%s' must be a positive integer, got: %s", domain.ErrConfigValidation, name, n.Value)
	}
	return v, nil
}

func describe(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return n.ShortTag()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report yaml key names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"yaml", "envconfig"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrConfigValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrConfigValidation, strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", fe.Field())
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s, got: %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got: %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("'%s' failed '%s' check", fe.Field(), fe.Tag())
	}
}
