package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"bookapp-ai-be/internal/config"
	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/bookai/intent"
	"bookapp-ai-be/pkg/bookai/keyword"
	"bookapp-ai-be/pkg/bookai/prompt"
	"bookapp-ai-be/pkg/llm/factory"

	"github.com/fatih/color"
)

// Prints what the search pipeline derives from a query without touching the
// database or the embedding backend. Pass queries as arguments or on stdin.
func main() {
	cfg := config.Load()
	log := logger.NewNopLogger()

	var augmenter intent.Augmenter = intent.NopAugmenter{}
	var suggester keyword.Suggester = keyword.NopSuggester{}
	if len(os.Getenv("DEBUG_INTENT_LLM")) > 0 {
		provider, err := factory.NewLLMProvider(factory.ProviderConfig{
			Provider: cfg.Ai.LLMProvider,
			Model:    cfg.Ai.LLMModel,
			BaseURL:  cfg.Ai.LLMBaseURL,
			APIKey:   apiKeyFor(cfg),
			Timeout:  cfg.Ai.LLMTimeout,
		})
		if err != nil {
			color.Red("LLM unavailable: %v", err)
		} else {
			augmenter = intent.NewLLMAugmenter(provider, cfg.Ai.LLMModel)
			suggester = keyword.NewLLMSuggester(provider, cfg.Ai.LLMModel)
		}
	}

	analyzer := intent.NewAnalyzer(augmenter, log)
	expander := keyword.NewExpander(suggester, log)
	builder := prompt.NewBuilder()

	queries := os.Args[1:]
	if len(queries) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if q := strings.TrimSpace(scanner.Text()); q != "" {
				queries = append(queries, q)
			}
		}
	}

	ctx := context.Background()
	for _, q := range queries {
		m := analyzer.Analyze(ctx, q)

		color.Cyan("\n=== %s ===", q)
		fmt.Printf("%s %s\n", color.YellowString("type:"), m.QueryType)
		printField("domain", m.Domain)
		printField("genre", m.Genre)
		printField("purpose", m.Purpose)
		printField("tone", m.Tone)
		printField("author", m.FocusAuthor)
		printField("constraints", strings.Join(m.Constraints, ", "))
		printField("keywords", strings.Join(m.Keywords, ", "))
		fmt.Printf("%s %s\n", color.GreenString("expanded:"), strings.Join(expander.Expand(ctx, m), ", "))
		fmt.Printf("%s %s\n", color.GreenString("prompt:"), builder.Build(m, q))
	}
}

func printField(name, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%s %s\n", color.YellowString(name+":"), value)
}

func apiKeyFor(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "gemini":
		return cfg.Keys.GoogleGemini
	case "huggingface":
		return cfg.Keys.HuggingFace
	case "openai":
		return cfg.Keys.OpenAI
	}
	return ""
}
