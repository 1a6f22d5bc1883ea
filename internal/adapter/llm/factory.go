package llm

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// ModeMock selects the offline client (SURROGATE_MODE=MOCK).
const ModeMock = "MOCK"

// NewClient creates an LLM client for the given mode. Mock mode or a
// missing API key returns the deterministic MockClient; anything else
// returns the Gemini client.
func NewClient(mode string, opts Options) Client {
	if strings.EqualFold(mode, ModeMock) || opts.APIKey == "" {
		log.Info().Str("mode", mode).Msg("using mock LLM client")
		return NewMockClient()
	}

	log.Info().Str("model", opts.Model).Msg("using Gemini LLM client")
	return NewGeminiClient(opts)
}
