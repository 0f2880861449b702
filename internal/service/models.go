package service

import "sort"

// knownModels is the static catalog shown by `gitmuse config
// --list-models`. It is informational only: any provider/model pair the
// backend accepts works.
var knownModels = map[string][]string{
	"openai":     {"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini"},
	"openrouter": {"anthropic/claude-sonnet-4", "google/gemini-2.5-flash"},
	"groq":       {"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
	"ollama":     {"llama3.2", "qwen2.5-coder"},
}

// KnownProviders returns the providers of the catalog, sorted.
func KnownProviders() []string {
	providers := make([]string, 0, len(knownModels))
	for p := range knownModels {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// KnownModels returns the catalog entries for a provider.
func KnownModels(provider string) []string {
	return knownModels[provider]
}
