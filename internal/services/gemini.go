package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TextGenerator is the single seam toward the generative backend:
// complete this prompt, return text. Tests substitute a deterministic
// stub; production uses the Gemini API.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService creates the Gemini-backed TextGenerator. A missing
// API key is a startup fault, never a per-request one.
func NewGeminiService(ctx context.Context, apiKey, model string) (TextGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: model,
	}, nil
}

// GenerateText implements TextGenerator. Every call failure is terminal;
// there are no retries anywhere in the system.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", errors.New("no response generated")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text content in response")
	}

	return text, nil
}
