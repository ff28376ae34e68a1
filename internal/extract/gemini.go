package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Temperature keeps atomization output close to deterministic.
const Temperature float32 = 0.1

// ErrMissingCredential is returned from Generate when no API key was configured.
var ErrMissingCredential = errors.New("GOOGLE_API_KEY is not configured")

// GeminiClient calls the Gemini API for contract atomization.
type GeminiClient struct {
	client  *genai.Client
	initErr error
	model   string
}

// NewGeminiClient prepares a client for model. A missing key or a failed
// client construction is not fatal here: it surfaces from every Generate
// call so the service can still start and answer health checks.
func NewGeminiClient(ctx context.Context, apiKey, model string) *GeminiClient {
	c := &GeminiClient{model: model}
	if apiKey == "" {
		c.initErr = ErrMissingCredential
		return c
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		c.initErr = fmt.Errorf("create gemini client: %w", err)
		return c
	}
	c.client = client
	return c
}

func (c *GeminiClient) Model() string {
	return c.model
}

// Ready reports whether the client can issue requests.
func (c *GeminiClient) Ready() error {
	return c.initErr
}

// Generate submits p and returns the raw response text.
func (c *GeminiClient) Generate(ctx context.Context, p Prompt) (string, error) {
	if c.initErr != nil {
		return "", c.initErr
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(p.String()), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   atomArraySchema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini api: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}

var atomArraySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type": {
				Type: genai.TypeString,
				Enum: []string{string(TypeStructure), string(TypeLogic), string(TypeBoilerplate)},
			},
			"title":     {Type: genai.TypeString},
			"content":   {Type: genai.TypeString},
			"reasoning": {Type: genai.TypeString},
		},
		Required:         []string{"type", "title", "content"},
		PropertyOrdering: []string{"type", "title", "content", "reasoning"},
	},
}
