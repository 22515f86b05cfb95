package factory

import (
	"fmt"

	"bookapp-ai-be/pkg/embedding"
	"bookapp-ai-be/pkg/embedding/jina"
)

type ProviderConfig struct {
	Provider   string // "ollama", "gemini", "jina"
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

func NewEmbeddingProvider(cfg ProviderConfig) (embedding.EmbeddingProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires an api key")
		}
		return embedding.NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.Dimensions), nil
	case "jina":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("jina embedding provider requires an api key")
		}
		p := jina.NewJinaProvider(cfg.APIKey, cfg.Model, cfg.Dimensions)
		if cfg.BaseURL != "" {
			p.WithBaseURL(cfg.BaseURL)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
