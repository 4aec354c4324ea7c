package resilience

import (
	"time"

	"github.com/rossinienergy/citypages/internal/config"
)

// FromHTTPConfig derives the retry and circuit policies from the shared
// HTTP configuration.
func FromHTTPConfig(cfg config.HTTPConfig) (RetryConfig, CircuitBreakerConfig) {
	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}

	circuit := DefaultCircuitBreakerConfig()
	if cfg.CircuitFailures > 0 {
		circuit.FailureThreshold = cfg.CircuitFailures
	}
	if cfg.CircuitResetSecs > 0 {
		circuit.ResetTimeout = time.Duration(cfg.CircuitResetSecs) * time.Second
	}
	return retry, circuit
}
