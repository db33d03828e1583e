package http

import (
	"context"

	"newsdesk/internal/naver"
)

// NewsFetcher is the scraper surface the handlers depend on; satisfied
// by *naver.Client and by test fakes.
type NewsFetcher interface {
	FetchList(ctx context.Context, categoryOrCode string, max int) ([]naver.Item, error)
	FetchRanking(ctx context.Context, max int) ([]naver.Item, error)
	FetchArticle(ctx context.Context, articleURL string, withMarkdown bool) (*naver.Article, error)
}

// ErrorResponse is the envelope for every non-2xx response. Every code
// path returns JSON; there is no endpoint that may emit a bare body.
type ErrorResponse struct {
	Error string `json:"error"`
}

type ArticleRequest struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

type CheckKeyRequest struct {
	Model string `json:"model"`
}

type CheckKeyResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}

// PromptOptions are the recognized generation-configuration keys. Each
// present key contributes a clause to the system instruction; absent
// keys get documented defaults.
type PromptOptions struct {
	Concept      string `json:"concept,omitempty"`
	LengthOption string `json:"lengthOption,omitempty"`
	Style        string `json:"style,omitempty"`
	Instruction  string `json:"instruction,omitempty"`
}

type ScriptTransformRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	PromptOptions
}

type ScriptNewRequest struct {
	Topic string `json:"topic"`
	Model string `json:"model"`
	PromptOptions
}

type TextRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type ScriptResponse struct {
	Script string `json:"script"`
}

type StructureResponse struct {
	Structure string `json:"structure"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type TitlesResponse struct {
	SafeTitles      []string `json:"safeTitles"`
	ClickbaitTitles []string `json:"clickbaitTitles"`
}

type ThumbnailCopiesResponse struct {
	Emotional     []string `json:"emotional"`
	Informational []string `json:"informational"`
	Visual        []string `json:"visual"`
}
