package factory

import (
	"fmt"
	"time"

	"bookapp-ai-be/pkg/llm"
	"bookapp-ai-be/pkg/llm/gemini"
	"bookapp-ai-be/pkg/llm/huggingface"
	"bookapp-ai-be/pkg/llm/ollama"
	"bookapp-ai-be/pkg/llm/openai"
)

// ProviderConfig carries what any backend might need; each backend reads
// only its own fields.
type ProviderConfig struct {
	Provider string // "ollama", "gemini", "huggingface", "openai"
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an api key")
		}
		return gemini.NewGeminiProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
