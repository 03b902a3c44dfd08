package config

import (
	"errors"
	"strings"
)

// Validate checks the configuration for startup-critical problems,
// collecting all of them into one error. When requireCredential is set
// (the API server), a missing OPENAI_API_KEY is fatal; the CLI instead
// falls back to stub backends.
func (c *Config) Validate(requireCredential bool) error {
	var errs []string

	if requireCredential && c.OpenAI.APIKey == "" {
		errs = append(errs, "OPENAI_API_KEY is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "PORT must be between 1 and 65535")
	}
	if c.Chat.MaxHistoryTurns < 1 {
		errs = append(errs, "MAX_HISTORY_TURNS must be positive")
	}
	if c.Chat.TopK < 1 {
		errs = append(errs, "TOP_K_RESULTS must be positive")
	}
	if c.OpenAI.EmbedDims < 1 {
		errs = append(errs, "EMBEDDING_DIMS must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}
