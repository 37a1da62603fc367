package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

// HTTPProvider implements Provider over plain JSON HTTP calls, in place
// of the teacher's gRPC+proto transport (which cannot be generated
// here). Configuration follows the teacher's env-var-with-default idiom
// from pkg/llm/client.go (GEMINI_MODEL, GEMINI_TEMPERATURE, ...).
type HTTPProvider struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature *float32
	maxTokens   *int32
	logger      *slog.Logger
}

// NewHTTPProvider builds an HTTPProvider from environment configuration.
// baseURL and apiKey are supplied explicitly (cmd/loglens reads them from
// the LLM_BASE_URL and LLM_API_KEY environment variables);
// model/temperature/maxTokens fall back to the teacher's
// GEMINI_* environment variables when unset.
func NewHTTPProvider(baseURL, apiKey string, logger *slog.Logger) *HTTPProvider {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	var temperature *float32
	if tempStr := os.Getenv("GEMINI_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 32); err == nil {
			t := float32(temp)
			temperature = &t
		}
	}

	var maxTokens *int32
	if maxStr := os.Getenv("GEMINI_MAX_TOKENS"); maxStr != "" {
		if max, err := strconv.ParseInt(maxStr, 10, 32); err == nil {
			m := int32(max)
			maxTokens = &m
		}
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("llm client configured", "model", model, "base_url", baseURL)

	return &HTTPProvider{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

type generateRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int32   `json:"max_tokens,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate posts prompt to the provider's /generate endpoint and
// returns the raw response text.
func (p *HTTPProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:       p.model,
		Prompt:      prompt,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal generate request: %w", err)
	}

	var resp generateResponse
	if err := p.post(ctx, "/generate", body, &resp); err != nil {
		return "", fmt.Errorf("llm: generate: %w", err)
	}
	return resp.Text, nil
}

type embedRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed posts text to the provider's /embed endpoint and returns the
// resulting vector.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: p.model, Text: text})
	if err != nil {
		return nil, fmt.Errorf("llm: marshal embed request: %w", err)
	}

	var resp embedResponse
	if err := p.post(ctx, "/embed", body, &resp); err != nil {
		return nil, fmt.Errorf("llm: embed: %w", err)
	}
	return resp.Embedding, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
