package config

import (
	"fmt"
	"log/slog"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Missing provider API keys are NOT validation errors: the service starts
// degraded and /health reports which providers are unconfigured, matching
// the behavior operators rely on during initial deployment.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPort, c.Port)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	// MaxTokens range: 1 to 32768 (well past any answer this service produces)
	if c.MaxTokens < 1 || c.MaxTokens > 32768 {
		return fmt.Errorf("%w: must be between 1 and 32,768, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.TopK < 1 || c.TopK > 20 {
		return fmt.Errorf("%w: must be between 1 and 20, got %d", ErrInvalidTopK, c.TopK)
	}

	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir cannot be empty", ErrInvalidDataDir)
	}

	if c.AdminPassword == "" {
		return fmt.Errorf("%w: admin_password cannot be empty", ErrMissingAdminPassword)
	}

	// CRITICAL: Warn when the placeholder admin password is still active.
	// Don't block startup - the operator might be in a dev environment.
	if c.AdminPassword == DefaultAdminPassword {
		slog.Warn("Using default admin password",
			"warning", "Set ADMIN_PASSWORD before exposing this deployment")
	}

	return nil
}
