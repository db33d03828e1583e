package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"newsdesk/internal/config"
	"newsdesk/internal/jsonrepair"
	"newsdesk/internal/llm"
	"newsdesk/internal/metrics"
)

// repairFallbackNotice is the placeholder returned in the primary array
// when a model's JSON response is irreparably malformed. AI output is
// untrusted; a malformed response degrades to this shape instead of
// failing the request.
const repairFallbackNotice = "AI 응답을 해석하지 못했습니다. 다시 시도해 주세요."

// bearerCredential extracts the caller's API key from the Authorization
// header; when absent, the configured key for the resolved provider is
// the fallback.
func bearerCredential(c *fiber.Ctx, cfg *config.Config, provider llm.Provider) string {
	rawAuth := c.Get("Authorization")
	if strings.HasPrefix(rawAuth, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(rawAuth, "Bearer ")); token != "" {
			return token
		}
	}

	switch provider {
	case llm.ProviderOpenAI:
		return cfg.LLM.OpenAI.APIKey
	case llm.ProviderGemini:
		return cfg.LLM.Gemini.APIKey
	default:
		return ""
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

// completionError maps router/provider failures onto status codes.
// Provider errors carry the upstream message; nothing propagates as a
// raw stack trace.
func completionError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, llm.ErrMissingCredential), errors.Is(err, llm.ErrInvalidCredential):
		status = fiber.StatusUnauthorized
	case errors.Is(err, llm.ErrUnsupportedModel):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusGatewayTimeout
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

// complete runs one completion with the configured timeout and records
// metrics. On failure the error response has already been written and
// ok is false.
func complete(c *fiber.Ctx, system, user, model string) (string, bool) {
	cfg := c.Locals("config").(*config.Config)
	completer := c.Locals("completer").(llm.Completer)

	provider, err := llm.ResolveProvider(model)
	if err != nil {
		_ = completionError(c, err)
		return "", false
	}

	// Expose LLM info to the logging middleware via locals.
	c.Locals("llm_provider", string(provider))
	c.Locals("llm_model", model)

	credential := bearerCredential(c, cfg, provider)
	if credential == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: "missing API key: supply an Authorization Bearer token",
		})
		return "", false
	}

	timeout := time.Duration(cfg.LLM.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Context(), timeout)
	defer cancel()

	text, err := completer.Complete(ctx, llm.CompletionRequest{
		System:     system,
		User:       user,
		Model:      model,
		Credential: credential,
	})
	if err != nil {
		metrics.RecordLLM(string(provider), model, false)
		_ = completionError(c, err)
		return "", false
	}

	metrics.RecordLLM(string(provider), model, true)
	return text, true
}

// checkKeyHandler validates a credential with a minimal probe
// completion against the provider the model routes to.
func checkKeyHandler(c *fiber.Ctx) error {
	var req CheckKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if strings.TrimSpace(req.Model) == "" {
		return badRequest(c, "missing required field 'model'")
	}

	if _, ok := complete(c, "", "OK라고만 답해.", req.Model); !ok {
		return nil
	}

	provider, _ := llm.ResolveProvider(req.Model)
	return c.JSON(CheckKeyResponse{Status: "ok", Provider: string(provider)})
}

func scriptTransformHandler(c *fiber.Ctx) error {
	var req ScriptTransformRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "missing required field 'text'")
	}
	if strings.TrimSpace(req.Model) == "" {
		return badRequest(c, "missing required field 'model'")
	}

	text, ok := complete(c, transformInstruction(req.PromptOptions), req.Text, req.Model)
	if !ok {
		return nil
	}
	return c.JSON(ScriptResponse{Script: text})
}

func scriptNewHandler(c *fiber.Ctx) error {
	var req ScriptNewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if strings.TrimSpace(req.Topic) == "" {
		return badRequest(c, "missing required field 'topic'")
	}
	if strings.TrimSpace(req.Model) == "" {
		return badRequest(c, "missing required field 'model'")
	}

	text, ok := complete(c, newScriptInstruction(req.PromptOptions), req.Topic, req.Model)
	if !ok {
		return nil
	}
	return c.JSON(ScriptResponse{Script: text})
}

// parseTextRequest validates the common {text, model} body shared by
// the analysis endpoints.
func parseTextRequest(c *fiber.Ctx) (TextRequest, bool) {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		_ = badRequest(c, "malformed JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		_ = badRequest(c, "missing required field 'text'")
		return req, false
	}
	if strings.TrimSpace(req.Model) == "" {
		_ = badRequest(c, "missing required field 'model'")
		return req, false
	}
	return req, true
}

func structureHandler(c *fiber.Ctx) error {
	req, ok := parseTextRequest(c)
	if !ok {
		return nil
	}

	text, ok := complete(c, structureInstruction(), req.Text, req.Model)
	if !ok {
		return nil
	}
	return c.JSON(StructureResponse{Structure: text})
}

func summaryHandler(c *fiber.Ctx) error {
	req, ok := parseTextRequest(c)
	if !ok {
		return nil
	}

	text, ok := complete(c, summaryInstruction(), req.Text, req.Model)
	if !ok {
		return nil
	}
	return c.JSON(SummaryResponse{Summary: text})
}

// titlesHandler expects the model to emit a fixed JSON schema and
// repairs the response before parsing. Irreparable output degrades to
// the fallback shape with HTTP 200.
func titlesHandler(c *fiber.Ctx) error {
	req, ok := parseTextRequest(c)
	if !ok {
		return nil
	}

	text, ok := complete(c, titlesInstruction(), req.Text, req.Model)
	if !ok {
		return nil
	}

	var parsed TitlesResponse
	if err := jsonrepair.Unmarshal(text, &parsed); err != nil {
		return c.JSON(TitlesResponse{
			SafeTitles:      []string{repairFallbackNotice},
			ClickbaitTitles: []string{},
		})
	}
	if parsed.SafeTitles == nil {
		parsed.SafeTitles = []string{}
	}
	if parsed.ClickbaitTitles == nil {
		parsed.ClickbaitTitles = []string{}
	}
	return c.JSON(parsed)
}

func thumbnailCopiesHandler(c *fiber.Ctx) error {
	req, ok := parseTextRequest(c)
	if !ok {
		return nil
	}

	text, ok := complete(c, thumbnailInstruction(), req.Text, req.Model)
	if !ok {
		return nil
	}

	var parsed ThumbnailCopiesResponse
	if err := jsonrepair.Unmarshal(text, &parsed); err != nil {
		return c.JSON(ThumbnailCopiesResponse{
			Emotional:     []string{repairFallbackNotice},
			Informational: []string{},
			Visual:        []string{},
		})
	}
	if parsed.Emotional == nil {
		parsed.Emotional = []string{}
	}
	if parsed.Informational == nil {
		parsed.Informational = []string{}
	}
	if parsed.Visual == nil {
		parsed.Visual = []string{}
	}
	return c.JSON(parsed)
}
