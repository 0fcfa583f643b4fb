package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
	"github.com/paes-tools/questioncrop/internal/providers"
)

// Ollama is a provider for a local Ollama server
type Ollama struct {
	client *api.Client
}

// New returns a provider for OLLAMA_URL, falling back to OLLAMA_HOST handling
func New() (*Ollama, error) {
	host := envconfig.Host()
	if raw := os.Getenv("OLLAMA_URL"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid OLLAMA_URL: %w", err)
		}
		host = u
	}

	return &Ollama{client: api.NewClient(host, http.DefaultClient)}, nil
}

// prompt lists the image labels in the order the images are attached
func prompt(config providers.Config) string {
	if len(config.Images) == 0 {
		return config.Prompt
	}
	labels := make([]string, len(config.Images))
	for i, img := range config.Images {
		labels[i] = img.Label
	}
	return fmt.Sprintf("%s\n\nImages, in order: %s", config.Prompt, strings.Join(labels, ", "))
}

// ExtractText sends the prompt and images to Ollama and returns the text reply
func (o *Ollama) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	images := make([]api.ImageData, 0, len(config.Images))
	for _, img := range config.Images {
		images = append(images, api.ImageData(img.Data))
	}

	stream := false
	req := api.GenerateRequest{
		Model:  config.Model,
		System: config.System,
		Prompt: prompt(config),
		Images: images,
		Stream: &stream,
		Format: []byte(`"json"`),
		Options: map[string]interface{}{
			"temperature": config.Temperature,
		},
	}

	var sb strings.Builder
	err := o.client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := sb.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return sb.String(), nil
}
