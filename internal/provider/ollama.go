package provider

import (
	"context"
	"net/http"
)

// OllamaProvider talks to a local Ollama server through /api/chat
type OllamaProvider struct {
	BaseURL string
	Model   string
	client  *http.Client
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func NewOllamaProvider(baseURL, model string, client *http.Client) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434/api/chat"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		client:  client,
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Generate sends one non-streaming chat turn at temperature 0
func (p *OllamaProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	req := ollamaChatRequest{
		Model:    p.Model,
		Messages: prompt.messages(),
		Options:  map[string]any{"temperature": 0},
	}

	var resp ollamaChatResponse
	if err := postJSON(ctx, p.client, p.Name(), p.BaseURL, nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}
