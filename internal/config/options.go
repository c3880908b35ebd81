package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Options are process-level settings read from the environment. Flags
// override them where both are given.
type Options struct {
	ConfigPath  string `env:"AUTOCLICKER_CONFIG"`
	ProfilePath string `env:"AUTOCLICKER_PROFILE"`
	Listen      string `env:"AUTOCLICKER_LISTEN"`
	Debug       bool   `env:"AUTOCLICKER_DEBUG"`
}

// OptionsFromEnv parses AUTOCLICKER_* variables.
func OptionsFromEnv() (Options, error) {
	var o Options
	if err := env.Parse(&o); err != nil {
		return Options{}, fmt.Errorf("parsing environment: %w", err)
	}
	return o, nil
}
