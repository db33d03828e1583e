package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"newsdesk/internal/config"
)

// Provider represents a logical LLM provider.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

var (
	// ErrMissingCredential is returned when a completion is requested
	// without an API key.
	ErrMissingCredential = errors.New("missing provider credential")

	// ErrUnsupportedModel is returned when a model identifier cannot be
	// mapped to a known provider. Unknown identifiers are an explicit
	// error rather than a silent default: defaulting would send the
	// caller's credential to a provider they did not pick.
	ErrUnsupportedModel = errors.New("unsupported model identifier")

	// ErrInvalidCredential matches provider errors caused by a rejected
	// API key (upstream 401).
	ErrInvalidCredential = errors.New("invalid provider credential")
)

// ProviderError wraps any upstream failure with the provider that
// produced it. Raw transport errors never escape this package unwrapped.
type ProviderError struct {
	Provider Provider
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: provider request failed", e.Provider)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is lets callers detect a rejected credential with errors.Is without
// inspecting status codes themselves.
func (e *ProviderError) Is(target error) bool {
	return target == ErrInvalidCredential && e.Status == http.StatusUnauthorized
}

// CompletionRequest carries one text-generation call. Constructed per
// request; never persisted.
type CompletionRequest struct {
	System     string
	User       string
	Model      string
	Credential string
}

// Completer is the abstraction used by the HTTP layer.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// reasoningModelRe matches OpenAI reasoning-model names (o1, o3-mini,
// o4-mini, ...) that contain neither "gpt" nor "gemini".
var reasoningModelRe = regexp.MustCompile(`^o[134](-|$|\d)`)

// ResolveProvider maps a caller-supplied model identifier to a provider.
// The mapping is total: every input yields either a provider or
// ErrUnsupportedModel.
func ResolveProvider(model string) (Provider, error) {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.Contains(m, "gpt"), reasoningModelRe.MatchString(m):
		return ProviderOpenAI, nil
	case strings.Contains(m, "gemini"), strings.Contains(m, "flash"):
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, model)
	}
}

// Router dispatches completion requests to the provider selected by the
// request's model identifier. A single attempt per call, no retries:
// these are interactive, credentialed requests where a failure should
// surface immediately rather than double-bill the caller.
type Router struct {
	openai *openAIClient
	gemini *geminiClient
}

// NewRouter constructs a Router from config. Base URLs default to the
// public provider endpoints; tests point them at local servers.
func NewRouter(cfg *config.Config) *Router {
	timeout := time.Duration(cfg.LLM.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return &Router{
		openai: &openAIClient{
			baseURL: cfg.LLM.OpenAI.BaseURL,
			http:    httpClient,
		},
		gemini: &geminiClient{
			baseURL: cfg.LLM.Gemini.BaseURL,
			http:    httpClient,
		},
	}
}

func (r *Router) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return "", ErrMissingCredential
	}

	provider, err := ResolveProvider(req.Model)
	if err != nil {
		return "", err
	}

	switch provider {
	case ProviderOpenAI:
		return r.openai.complete(ctx, req)
	default:
		return r.gemini.complete(ctx, req)
	}
}
