package enhance

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

// Generator produces the model response for one prompt. The single-method
// interface keeps the enhancer testable without network access.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type gemini struct {
	cli         *genai.Client
	model       string
	temperature float32
}

// NewGemini builds a Generator backed by the Gemini API.
func NewGemini(ctx context.Context, cfg *Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &gemini{cli: cli, model: cfg.Model, temperature: cfg.Temperature}, nil
}

func (g *gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{Temperature: genai.Ptr(g.temperature)},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty model response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
