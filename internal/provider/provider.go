package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LLMProvider defines the interface for AI model integration
type LLMProvider interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
	Name() string
}

// Prompt is one system instruction plus the user's message
type Prompt struct {
	System string
	User   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messages renders the prompt as a chat transcript: system first when set
func (p Prompt) messages() []chatMessage {
	msgs := make([]chatMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: p.System})
	}
	return append(msgs, chatMessage{Role: "user", Content: p.User})
}

// Persona carries what the assistant knows about the turn
type Persona struct {
	UserName  string
	UserRole  string
	UserTech  string
	Date      time.Time
	Mood      string
	LocalData string

	// WebResults is pre-formatted search evidence, empty when no search ran
	WebResults string
}

// New returns the provider named by kind. Unknown kinds fall back to Ollama.
func New(kind, baseURL, model, apiKey string, timeout time.Duration) LLMProvider {
	client := &http.Client{Timeout: timeout}
	switch strings.ToLower(kind) {
	case "openai":
		return NewOpenAIProvider(baseURL, model, apiKey, client)
	default:
		return NewOllamaProvider(baseURL, model, client)
	}
}

// BuildPrompt renders the assistant instructions around the local lookup
func BuildPrompt(p Persona, message string) Prompt {
	localData := p.LocalData
	if localData == "" {
		localData = "No specific context available."
	}
	mood := p.Mood
	if mood == "" {
		mood = "NEUTRAL"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ROLE: You are Maya, a concise and helpful assistant. User: %s.\n", p.UserName)
	if p.UserRole != "" {
		fmt.Fprintf(&b, "USER ROLE: %s.\n", p.UserRole)
	}
	if p.UserTech != "" {
		fmt.Fprintf(&b, "USER STACK: %s.\n", p.UserTech)
	}
	fmt.Fprintf(&b, "DATE: %s.\n", p.Date.Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "MOOD: %s\n", mood)
	fmt.Fprintf(&b, "LOCAL_DATA: %s\n", localData)
	if p.WebResults != "" {
		fmt.Fprintf(&b, "WEB_RESULTS:\n%s", p.WebResults)
	}
	b.WriteString("\nRULES:\n" +
		"1. If LOCAL_DATA is relevant, use it as the primary source of truth.\n" +
		"2. If it is 'No specific local data found.', use WEB_RESULTS when given, otherwise your general knowledge.\n" +
		"3. Prefer WEB_RESULTS over your training data for real-time facts and summarize them clearly.\n" +
		"4. Adapt your tone to MOOD: be patient and practical when the user is FRUSTRATED.\n" +
		"5. Be direct and professional. If you find multiple facts, list them as bullets.\n")

	return Prompt{System: b.String(), User: message}
}

// postJSON sends payload and decodes a 200 response into out
func postJSON(ctx context.Context, client *http.Client, name, url string, header http.Header, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status: %d", name, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
