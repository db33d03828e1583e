package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsdesk/internal/config"
)

func TestResolveProvider(t *testing.T) {
	cases := []struct {
		model   string
		want    Provider
		wantErr bool
	}{
		{"gpt-4o-mini", ProviderOpenAI, false},
		{"GPT-4o", ProviderOpenAI, false},
		{"chatgpt-4o-latest", ProviderOpenAI, false},
		{"o1", ProviderOpenAI, false},
		{"o3-mini", ProviderOpenAI, false},
		{"gemini-2.0-flash", ProviderGemini, false},
		{"Gemini-1.5-Pro", ProviderGemini, false},
		{"flash", ProviderGemini, false},
		{"claude-3-haiku", "", true},
		{"", "", true},
		{"ollama", "", true}, // "o" prefix alone is not a reasoning model
	}

	for _, tc := range cases {
		got, err := ResolveProvider(tc.model)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsupportedModel) {
				t.Fatalf("ResolveProvider(%q) error = %v, want ErrUnsupportedModel", tc.model, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ResolveProvider(%q) unexpected error: %v", tc.model, err)
		}
		if got != tc.want {
			t.Fatalf("ResolveProvider(%q) = %q, want %q", tc.model, got, tc.want)
		}
	}
}

func TestCompleteMissingCredential(t *testing.T) {
	r := NewRouter(config.Default())
	_, err := r.Complete(context.Background(), CompletionRequest{
		System: "s", User: "u", Model: "gpt-4o-mini",
	})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestCompleteUnsupportedModel(t *testing.T) {
	r := NewRouter(config.Default())
	_, err := r.Complete(context.Background(), CompletionRequest{
		System: "s", User: "u", Model: "mystery-model", Credential: "key",
	})
	if !errors.Is(err, ErrUnsupportedModel) {
		t.Fatalf("expected ErrUnsupportedModel, got %v", err)
	}
}

func newTestRouter(openaiURL, geminiURL string) *Router {
	cfg := config.Default()
	cfg.LLM.OpenAI.BaseURL = openaiURL
	cfg.LLM.Gemini.BaseURL = geminiURL
	return NewRouter(cfg)
}

func TestOpenAICompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody openAIChatRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer ts.Close()

	r := newTestRouter(ts.URL, "")
	got, err := r.Complete(context.Background(), CompletionRequest{
		System: "system prompt", User: "user content", Model: "gpt-4o-mini", Credential: "sk-test",
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Complete = %q, want %q", got, "hello")
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("expected two-role request, got %+v", gotBody.Messages)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q, want gpt-4o-mini", gotBody.Model)
	}
}

func TestOpenAICompleteInvalidKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer ts.Close()

	r := newTestRouter(ts.URL, "")
	_, err := r.Complete(context.Background(), CompletionRequest{
		System: "s", User: "u", Model: "gpt-4o-mini", Credential: "bad",
	})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if pe.Provider != ProviderOpenAI {
		t.Fatalf("provider = %q, want openai", pe.Provider)
	}
	if !strings.Contains(pe.Message, "Incorrect API key") {
		t.Fatalf("expected upstream message carried through, got %q", pe.Message)
	}
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	r := newTestRouter(ts.URL, "")
	_, err := r.Complete(context.Background(), CompletionRequest{
		System: "s", User: "u", Model: "gpt-4o-mini", Credential: "key",
	})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError for empty choices, got %v", err)
	}
}

func TestGeminiCompleteSuccess(t *testing.T) {
	var gotPath string
	var gotQuery string
	var gotBody geminiGenerateRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"안"},{"text":"녕"}]}}]}`))
	}))
	defer ts.Close()

	r := newTestRouter("", ts.URL)
	got, err := r.Complete(context.Background(), CompletionRequest{
		System: "지시", User: "입력글", Model: "flash", Credential: "g-key",
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "안녕" {
		t.Fatalf("Complete = %q, want concatenated parts", got)
	}

	// Free-text aliases must normalize to a known upstream model name.
	if !strings.Contains(gotPath, "gemini-2.0-flash") {
		t.Fatalf("path = %q, want normalized model", gotPath)
	}
	if gotQuery != "g-key" {
		t.Fatalf("key query = %q, want g-key", gotQuery)
	}

	// System instruction and user content are folded into one prompt.
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("expected single-part prompt, got %+v", gotBody.Contents)
	}
	prompt := gotBody.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "지시") || !strings.Contains(prompt, "입력글") {
		t.Fatalf("prompt missing sections: %q", prompt)
	}

	// All four harm categories must be set to the least restrictive
	// threshold.
	if len(gotBody.SafetySettings) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(gotBody.SafetySettings))
	}
	for _, s := range gotBody.SafetySettings {
		if s.Threshold != "BLOCK_NONE" {
			t.Fatalf("threshold for %s = %q, want BLOCK_NONE", s.Category, s.Threshold)
		}
	}
}

func TestGeminiModelNormalization(t *testing.T) {
	cases := map[string]string{
		"gemini-pro":       "gemini-1.5-pro",
		"PRO":              "gemini-1.5-pro",
		"gemini-2.0-flash": "gemini-2.0-flash",
		"flash":            "gemini-2.0-flash",
		"gemini":           "gemini-2.0-flash",
	}
	for in, want := range cases {
		if got := normalizeGeminiModel(in); got != want {
			t.Fatalf("normalizeGeminiModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeminiCompleteInvalidKey(t *testing.T) {
	// Gemini rejects a bad key with 400 INVALID_ARGUMENT, not 401; the
	// error must still match ErrInvalidCredential.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid. Please pass a valid API key."}}`))
	}))
	defer ts.Close()

	r := newTestRouter("", ts.URL)
	_, err := r.Complete(context.Background(), CompletionRequest{
		System: "s", User: "u", Model: "gemini-2.0-flash", Credential: "bad",
	})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if pe.Provider != ProviderGemini {
		t.Fatalf("provider = %q, want gemini", pe.Provider)
	}
	if !strings.Contains(pe.Message, "API key not valid") {
		t.Fatalf("expected upstream message, got %q", pe.Message)
	}
}

func TestGeminiCompleteBadRequestIsNotCredentialError(t *testing.T) {
	// A 400 that is not about the key must not masquerade as a
	// credential failure.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid JSON payload received."}}`))
	}))
	defer ts.Close()

	r := newTestRouter("", ts.URL)
	_, err := r.Complete(context.Background(), CompletionRequest{
		System: "s", User: "u", Model: "gemini-2.0-flash", Credential: "key",
	})
	if errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("non-credential 400 mapped to ErrInvalidCredential: %v", err)
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if !strings.Contains(pe.Message, "Invalid JSON payload") {
		t.Fatalf("expected upstream message, got %q", pe.Message)
	}
}

func TestBuildGeminiPromptWithoutSystem(t *testing.T) {
	if got := buildGeminiPrompt("", "user only"); got != "user only" {
		t.Fatalf("buildGeminiPrompt = %q, want passthrough", got)
	}
	got := buildGeminiPrompt("sys", "usr")
	if !strings.HasPrefix(got, "[지시사항]") || !strings.Contains(got, "[입력]") {
		t.Fatalf("expected headed sections, got %q", got)
	}
}
