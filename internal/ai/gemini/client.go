package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/skybrief/skybrief/internal/ai"
	"github.com/skybrief/skybrief/pkg/logger"
)

// Client represents a Google Gemini API client
type Client struct {
	client *genai.Client
	logger *logger.Logger
}

// NewClient creates a new Gemini Client
func NewClient(ctx context.Context, apiKey string, logger *logger.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger.Named("gemini"),
	}, nil
}

// ChatCompletion sends the conversation to Gemini and returns the response
// text. System messages become the system instruction; assistant messages map
// to the "model" role.
func (c *Client) ChatCompletion(ctx context.Context, messages []ai.ChatMessage, config ai.ChatConfig) (string, error) {
	var contents []*genai.Content
	var systemInstruction *genai.Content

	for _, msg := range messages {
		if msg.Role == "system" {
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
			continue
		}

		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(config.Temperature)),
		MaxOutputTokens:   int32(config.MaxTokens),
		SystemInstruction: systemInstruction,
	}

	resp, err := c.client.Models.GenerateContent(ctx, config.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini chat failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no content in gemini response")
	}
	return text, nil
}
