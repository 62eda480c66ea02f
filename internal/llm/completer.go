package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Completer abstracts language-model text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// MockCompleter returns deterministic responses keyed by a substring match on
// the prompt, so the comparison pipeline can run with no credential
// configured.
type MockCompleter struct{}

func (MockCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	if strings.Contains(prompt, "similar") {
		return `["Apple Inc.", "Microsoft Corporation", "Alphabet Inc.", "Amazon.com Inc.", "Meta Platforms Inc."]`, nil
	}
	if strings.Contains(prompt, "Extract financial") {
		return `{"company":"Shell","free_cash_flow_2024":"$15.2B","market_cap_2024":"$240B","sector":"Energy","carbon_emissions_2024":"156","source_ids":[1,2,3]}`, nil
	}
	return "[]", nil
}

// Fallback selects the live completer when a valid credential is configured
// and substitutes the mock on any live failure. Upstream unavailability never
// propagates past this boundary.
type Fallback struct {
	Live Completer // nil means no credential configured
	Mock Completer
}

func (f *Fallback) mock() Completer {
	if f.Mock != nil {
		return f.Mock
	}
	return MockCompleter{}
}

func (f *Fallback) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	if f.Live == nil {
		log.Warn().Msg("Using mock Gemini response (no valid API key)")
		return f.mock().Complete(ctx, prompt, maxTokens, temperature)
	}
	text, err := f.Live.Complete(ctx, prompt, maxTokens, temperature)
	if err != nil {
		log.Warn().Err(err).Msg("Gemini API failed, using mock response")
		return f.mock().Complete(ctx, prompt, maxTokens, temperature)
	}
	return text, nil
}

// ValidAPIKey reports whether a Gemini key looks usable. Google API keys start
// with "AIzaSy"; anything else falls through to the mock completer.
func ValidAPIKey(key string) bool {
	return strings.HasPrefix(key, "AIzaSy")
}
