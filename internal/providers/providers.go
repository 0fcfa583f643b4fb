package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Image is one labelled picture attached to a request
type Image struct {
	Label    string
	MIMEType string
	Data     []byte
}

// DataURI encodes the image for APIs that take inline URLs
func (i Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, base64.StdEncoding.EncodeToString(i.Data))
}

// Format returns the image subtype, e.g. "jpeg"
func (i Image) Format() string {
	_, sub, ok := strings.Cut(i.MIMEType, "/")
	if !ok {
		return i.MIMEType
	}
	return sub
}

// LoadImage reads an image file and sniffs its MIME type
func LoadImage(label, path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return Image{}, fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return Image{Label: label, MIMEType: mime, Data: data}, nil
}

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
	System      string
	Prompt      string
	Images      []Image
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}

// DefaultModel returns the model used when none is requested, honouring the
// provider's *_MODEL environment variable
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o-mini"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	default:
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llama3.2-vision"
	}
}
