package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv overrides target with POINTCOOK_* environment variables.
// Unset variables leave the existing values alone.
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
