package vision

import (
	"fmt"
	"strings"

	"github.com/Veraticus/soapbox/internal/common"
)

// NewExtractor creates an extractor for the configured provider.
func NewExtractor(cfg Config) (*Extractor, error) {
	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case "anthropic":
		c, err := newAnthropicClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, err)
		}
		return newExtractor(provider, c, cfg), nil
	case "openai":
		c, err := newOpenAIClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrMissingConfig, err)
		}
		return newExtractor(provider, c, cfg), nil
	default:
		return nil, fmt.Errorf("%w: unsupported vision provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}
