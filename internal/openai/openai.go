package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/paes-tools/questioncrop/internal/providers"
)

const defaultURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is a provider for OpenAI
type OpenAI struct {
	URL    string
	Client *http.Client
}

// New returns a new OpenAI provider
func New() *OpenAI {
	url := os.Getenv("OPENAI_URL")
	if url == "" {
		url = defaultURL
	}
	return &OpenAI{URL: url, Client: &http.Client{}}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// messages builds the chat payload: an optional system message, then one user
// message carrying the prompt followed by each labelled image
func messages(config providers.Config) []message {
	var out []message
	if config.System != "" {
		out = append(out, message{Role: "system", Content: config.System})
	}

	if len(config.Images) == 0 {
		return append(out, message{Role: "user", Content: config.Prompt})
	}

	content := []contentPart{{Type: "text", Text: config.Prompt}}
	for _, img := range config.Images {
		content = append(content,
			contentPart{Type: "text", Text: img.Label + ":"},
			contentPart{Type: "image_url", ImageURL: &imageURL{URL: img.DataURI()}},
		)
	}
	return append(out, message{Role: "user", Content: content})
}

// ExtractText sends the prompt and images to OpenAI and returns the text reply
func (o *OpenAI) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":       config.Model,
		"messages":    messages(config),
		"temperature": config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.URL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
