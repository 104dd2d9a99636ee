package provider

import (
	"context"
	"errors"
	"net/http"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint
type OpenAIProvider struct {
	BaseURL string
	Model   string
	APIKey  string
	client  *http.Client
}

type openAIChatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIProvider(baseURL, model, apiKey string, client *http.Client) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1/chat/completions"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIProvider{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  apiKey,
		client:  client,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	req := openAIChatRequest{
		Model:    p.Model,
		Messages: prompt.messages(),
	}
	header := http.Header{}
	if p.APIKey != "" {
		header.Set("Authorization", "Bearer "+p.APIKey)
	}

	var resp openAIChatResponse
	if err := postJSON(ctx, p.client, p.Name(), p.BaseURL, header, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned from openai")
	}
	return resp.Choices[0].Message.Content, nil
}
