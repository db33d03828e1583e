package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// geminiClient implements Google's generateContent call.
type geminiClient struct {
	baseURL string
	http    *http.Client
}

type geminiGenerateRequest struct {
	Contents       []geminiContent       `json:"contents"`
	SafetySettings []geminiSafetySetting `json:"safetySettings,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// permissiveSafetySettings disables all four harm-category blocks.
// Inputs are unpredictable news and crime content; legitimate requests
// must not be silently blocked upstream.
var permissiveSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

// normalizeGeminiModel maps free-text aliases onto a small fixed set of
// upstream model names. Caller-supplied names are never passed through
// unchecked; nonexistent models fail upstream with confusing errors.
func normalizeGeminiModel(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	if strings.Contains(m, "pro") {
		return "gemini-1.5-pro"
	}
	return "gemini-2.0-flash"
}

// buildGeminiPrompt folds the system instruction and user content into
// one prompt with headed sections. The separate systemInstruction field
// has been unreliable across Gemini API versions; a single prompt avoids
// that class of "field not found" failures entirely.
func buildGeminiPrompt(system, user string) string {
	if strings.TrimSpace(system) == "" {
		return user
	}
	return fmt.Sprintf("[지시사항]\n%s\n\n[입력]\n%s", system, user)
}

func (c *geminiClient) complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := geminiGenerateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildGeminiPrompt(req.System, req.User)}}},
		},
		SafetySettings: permissiveSafetySettings,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Err: err}
	}

	base := c.baseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := normalizeGeminiModel(req.Model)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, model, url.QueryEscape(req.Credential))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Err: err}
	}

	var parsed geminiGenerateResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "generateContent failed with status " + resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		status := resp.StatusCode
		// Gemini reports a rejected key as 400 INVALID_ARGUMENT or 403
		// rather than 401; normalize so credential errors stay
		// detectable across providers.
		if (status == http.StatusBadRequest || status == http.StatusForbidden) &&
			strings.Contains(strings.ToLower(msg), "api key") {
			status = http.StatusUnauthorized
		}
		return "", &ProviderError{Provider: ProviderGemini, Status: status, Message: msg}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{
			Provider: ProviderGemini,
			Message:  "generateContent returned no candidates",
			Err:      errors.New("empty candidates"),
		}
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
