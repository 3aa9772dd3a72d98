package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultGeminiBaseURL is the public Generative Language API endpoint.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	generateContentMethod = "generateContent"
)

// DefaultGeminiPreferences is the ordered list of models tried during
// discovery when no model is pinned in configuration.
var DefaultGeminiPreferences = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// GeminiClient calls the Generative Language REST API.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// GeminiOptions configures a GeminiClient.
type GeminiOptions struct {
	APIKey  string
	BaseURL string // defaults to DefaultGeminiBaseURL
	Model   string // empty means the caller will run DiscoverModel
	Timeout time.Duration
}

// NewGeminiClient builds a client. The API key is required; its absence is a
// startup-time failure for deployments that enable this provider.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		baseURL: base,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

// Model returns the model the client currently generates with.
func (c *GeminiClient) Model() string { return c.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// Generate performs a non-streaming generateContent call.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.model == "" {
		return "", fmt.Errorf("gemini: no model selected")
	}

	body, err := json.Marshal(geminiGenerateRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, snippet(raw))
	}

	var out geminiGenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gemini: failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// ModelInfo describes a model advertised by the provider.
type ModelInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Methods     []string `json:"supportedGenerationMethods"`
}

// Generative reports whether the model supports content generation.
func (m ModelInfo) Generative() bool {
	return slices.Contains(m.Methods, generateContentMethod)
}

type geminiListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ListModels fetches the models available to the configured credential.
// Model names are normalized without the "models/" resource prefix.
func (c *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini model listing failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to read model listing: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini model listing returned status %d: %s", resp.StatusCode, snippet(raw))
	}

	var out geminiListModelsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode model listing: %w", err)
	}
	for i := range out.Models {
		out.Models[i].Name = strings.TrimPrefix(out.Models[i].Name, "models/")
	}
	return out.Models, nil
}

// DiscoverModel selects a model from the live listing: the first preference
// present wins, otherwise the first model that supports content generation.
// The selected model becomes the client's generation model.
func (c *GeminiClient) DiscoverModel(ctx context.Context, prefs []string) (string, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return "", err
	}

	available := make(map[string]ModelInfo, len(models))
	for _, m := range models {
		available[m.Name] = m
	}
	for _, want := range prefs {
		if m, ok := available[want]; ok && m.Generative() {
			c.model = m.Name
			return m.Name, nil
		}
	}
	for _, m := range models {
		if m.Generative() {
			c.model = m.Name
			return m.Name, nil
		}
	}
	return "", ErrNoModel
}
