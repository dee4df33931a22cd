package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// TextGenerator produces a JSON document from a prompt.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Model() string
}

type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrAIUnavailable
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: 45 * time.Second,
	}, nil
}

func (c *GeminiClient) Model() string { return c.model }

func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.3)
	m.SetTopP(0.8)
	m.SetTopK(20)
	m.SetMaxOutputTokens(6000)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	content := CleanJSONResponse(sb.String())
	if !json.Valid([]byte(content)) {
		return "", errors.New("gemini: response is not valid json")
	}
	return content, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// CleanJSONResponse strips markdown fences and any prose around the first
// top-level JSON object or array.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.IndexByte(response, '{')
	arrStart := strings.IndexByte(response, '[')

	start := objStart
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
	}
	if start == -1 {
		return response
	}
	if end := matchingClose(response, start); end != -1 {
		return response[start : end+1]
	}
	return response[start:]
}

func matchingClose(s string, start int) int {
	open := s[start]
	closeCh := byte('}')
	if open == '[' {
		closeCh = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
