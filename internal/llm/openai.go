package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// openAIClient implements the OpenAI-compatible Chat Completions call.
type openAIClient struct {
	baseURL string
	http    *http.Client
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := openAIChatRequest{
		Model: req.Model,
		Messages: []openAIChatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: 0.7,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Err: err}
	}

	endpoint := c.baseURL
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	endpoint = endpoint + "/chat/completions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Err: err}
	}

	var parsed openAIChatResponse
	// Error bodies are JSON too; decode before checking the status so
	// the upstream message can be carried through.
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "chat completion failed with status " + resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &ProviderError{Provider: ProviderOpenAI, Status: resp.StatusCode, Message: msg}
	}

	if len(parsed.Choices) == 0 {
		return "", &ProviderError{
			Provider: ProviderOpenAI,
			Message:  "chat completion returned no choices",
			Err:      errors.New("empty choices"),
		}
	}

	return parsed.Choices[0].Message.Content, nil
}
