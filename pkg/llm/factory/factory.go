package factory

import (
	"fmt"

	"github.com/ProbablyAY/SparkCo/internal/config"
	"github.com/ProbablyAY/SparkCo/pkg/llm"
	"github.com/ProbablyAY/SparkCo/pkg/llm/ollama"
	"github.com/ProbablyAY/SparkCo/pkg/llm/openai"
)

func NewLLMProvider(cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "openai", "":
		return openai.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
