// Package llm wraps the generative model API behind a vendor-neutral
// interface: generate structured content from a prompt plus optional
// attached documents or images, constrained to a declared output schema.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// InlineData is a document passed to the model inline (image bytes).
type InlineData struct {
	Data     []byte
	MIMEType string
}

// Request is one structured-generation call.
type Request struct {
	Model  string
	Prompt string
	Schema *genai.Schema

	// FilePaths are uploaded through the provider's file API and attached
	// as references (reference chapters, answer-sheet PDFs).
	FilePaths []string
	// Inline holds documents attached inline (uploaded answer images).
	Inline []InlineData
}

// Generator is the only model contract the services depend on. The returned
// string is the raw response text, expected to be schema-conforming JSON.
type Generator interface {
	GenerateStructured(ctx context.Context, req Request) (string, error)
}

// Client calls the Gemini API.
type Client struct {
	api           *genai.Client
	uploadTimeout time.Duration
	logger        *slog.Logger
}

// New constructs a Gemini-backed Generator. uploadTimeout bounds each file
// API upload; zero means no bound beyond the caller's context.
func New(ctx context.Context, apiKey string, uploadTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{api: api, uploadTimeout: uploadTimeout, logger: logger}, nil
}

func (c *Client) GenerateStructured(ctx context.Context, req Request) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}

	for _, path := range req.FilePaths {
		uploaded, err := c.uploadFile(ctx, path)
		if err != nil {
			return "", fmt.Errorf("upload file %s: %w", path, err)
		}
		parts = append(parts, genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType))
	}

	for _, doc := range req.Inline {
		parts = append(parts, genai.NewPartFromBytes(doc.Data, doc.MIMEType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}

	resp, err := c.api.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no text content")
	}

	c.logger.Debug("model response received", "model", req.Model, "bytes", len(text))
	return text, nil
}

func (c *Client) uploadFile(ctx context.Context, path string) (*genai.File, error) {
	if c.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}
	return c.api.Files.UploadFromPath(ctx, path, nil)
}
