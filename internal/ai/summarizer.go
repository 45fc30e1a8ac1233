package ai

import (
	"context"
	"fmt"
	"strings"
)

const summaryPrompt = "Summarize the following news article excerpt in 2-3 sentences. Reply with the summary only.\n\n%s"

// Summarizer summarizes article chunks with an LLM.
type Summarizer struct {
	client *LLMClient
}

// NewSummarizer creates an LLM-backed chunk summarizer.
func NewSummarizer(client *LLMClient) *Summarizer {
	return &Summarizer{client: client}
}

// SummarizeChunk asks the model for a short summary of chunk.
func (s *Summarizer) SummarizeChunk(ctx context.Context, chunk string) (string, error) {
	out, err := s.client.Generate(ctx, fmt.Sprintf(summaryPrompt, chunk))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty summary from %s", s.client.cfg.Provider)
	}
	return out, nil
}
