// Package llm provides interchangeable text-generation engines behind the
// domain.LLM port: a local Ollama server or the hosted Gemini API.
package llm

import (
	"context"
	"fmt"

	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
)

// New builds the configured engine. Engine "off" returns nil: the
// receptionist then serves structured answers untouched.
func New(ctx context.Context, cfg shared.Config) (domain.LLM, error) {
	switch cfg.LLMEngine {
	case "ollama", "":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMRPS)
	case "gemini":
		return NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
	case "off", "none", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM engine %q", cfg.LLMEngine)
	}
}
