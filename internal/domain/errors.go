package domain

import "errors"

var (
	ErrConfigFormat        = errors.New("config format error")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrConfigNotFile       = errors.New("config path is not a regular file")
	ErrConfigUnreadable    = errors.New("config file is not readable")
	ErrConfigValidation    = errors.New("config validation error")
	ErrUnsupportedExchange = errors.New("unsupported exchange")
	ErrNoMarketsFound      = errors.New("no markets found")
	ErrProviderRequest     = errors.New("provider request failed")
	ErrOutputWrite         = errors.New("output write failed")
	ErrUnsupportedOutput   = errors.New("unsupported output mode")
)
