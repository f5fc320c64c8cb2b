package llm

import (
	"fmt"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
)

// New builds the gateway selected by cfg.Provider. ProviderNone yields a nil
// gateway, which engines treat as a permanent failure and answer from fallbacks.
func New(cfg coreconfig.LLMConfig) (Gateway, error) {
	switch cfg.Provider {
	case coreconfig.ProviderNone, "":
		return nil, nil
	case coreconfig.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
	case coreconfig.ProviderCompatible:
		return NewCompatible(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
	case coreconfig.ProviderAnthropic:
		return NewAnthropic(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
