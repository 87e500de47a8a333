package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mhasan/codepilot/internal/apperror"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash-lite"

// Gemini implements Generator against the Google Gemini API.
//
// The client is constructed once at startup and injected into the service
// layer — there are no package-level singletons. The SDK's transport applies
// its own default timeout; we add no timeout or retry of our own, so the first
// failure of a call is final for that request.
type Gemini struct {
	client *genai.Client
	model  string
}

// compile-time check that *Gemini implements Generator
var _ Generator = (*Gemini)(nil)

// NewGemini creates a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Generate sends the instruction and returns the completion text.
// A provider-side fault comes back as apperror.ErrProvider; an empty
// completion is returned as-is for the caller to classify.
func (g *Gemini) Generate(ctx context.Context, instruction string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(instruction), nil)
	if err != nil {
		return "", apperror.ProviderFailure(err)
	}
	return resp.Text(), nil
}
