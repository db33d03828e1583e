package naver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"newsdesk/internal/config"
)

// euckr encodes a UTF-8 fixture the way the portal serves its pages.
func euckr(t *testing.T, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encode fixture to EUC-KR: %v", err)
	}
	return out
}

func testClient(baseURL string) *Client {
	c := NewClient(config.Default())
	c.base = baseURL
	return c
}

func TestDecodeBodyDeclaredEUCKR(t *testing.T) {
	raw := euckr(t, "<html><body>세계 뉴스</body></html>")

	decoded, err := decodeBody(raw, "text/html; charset=euc-kr")
	if err != nil {
		t.Fatalf("decodeBody error: %v", err)
	}
	if !strings.Contains(string(decoded), "세계 뉴스") {
		t.Fatalf("decoded text garbled: %q", decoded)
	}
}

func TestDecodeBodyFallsBackToEUCKR(t *testing.T) {
	// No Content-Type, no meta tag: detection is uncertain and the
	// legacy portal encoding must be assumed. Wrong-codec decoding
	// yields garbled text rather than an error, so assert content.
	raw := euckr(t, "<html><body>경제 속보</body></html>")

	decoded, err := decodeBody(raw, "")
	if err != nil {
		t.Fatalf("decodeBody error: %v", err)
	}
	if !strings.Contains(string(decoded), "경제 속보") {
		t.Fatalf("fallback decode garbled: %q", decoded)
	}
}

func TestDecodeBodyUTF8Meta(t *testing.T) {
	// A page that declares UTF-8 in its meta tag must not be forced
	// through the legacy codec.
	page := `<html><head><meta charset="utf-8"></head><body>한글 본문</body></html>`

	decoded, err := decodeBody([]byte(page), "")
	if err != nil {
		t.Fatalf("decodeBody error: %v", err)
	}
	if !strings.Contains(string(decoded), "한글 본문") {
		t.Fatalf("utf-8 page garbled: %q", decoded)
	}
}

func TestDecodeBodyUndeclaredUTF8(t *testing.T) {
	// No Content-Type and no meta tag, but the bytes are valid UTF-8:
	// the legacy-codec assumption must not kick in.
	page := "<html><body>오늘의 날씨</body></html>"

	decoded, err := decodeBody([]byte(page), "")
	if err != nil {
		t.Fatalf("decodeBody error: %v", err)
	}
	if !strings.Contains(string(decoded), "오늘의 날씨") {
		t.Fatalf("undeclared utf-8 page garbled: %q", decoded)
	}
}

func TestFetchListEUCKRPage(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write(euckr(t, sectionFixture))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	items, err := c.FetchList(context.Background(), "세계", 10)
	if err != nil {
		t.Fatalf("FetchList error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "속보: 첫 번째 기사 제목" {
		t.Fatalf("EUC-KR title garbled: %q", items[0].Title)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Fatalf("expected browser-like user agent, got %q", gotUA)
	}
}

func TestFetchListIdempotentRanks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write(euckr(t, sectionFixture))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	for attempt := 0; attempt < 2; attempt++ {
		items, err := c.FetchList(context.Background(), "104", 10)
		if err != nil {
			t.Fatalf("FetchList error: %v", err)
		}
		for i, item := range items {
			if item.Rank != i+1 {
				t.Fatalf("attempt %d: rank[%d] = %d, want contiguous 1-based", attempt, i, item.Rank)
			}
		}
	}
}

func TestFetchListUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.FetchList(context.Background(), "100", 10)

	var se *ScrapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ScrapeError, got %v", err)
	}
}

func TestFetchRankingEmptyPageIsNotError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>점검 중</p></body></html>"))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	items, err := c.FetchRanking(context.Background(), 10)
	if err != nil {
		t.Fatalf("empty page must not error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %#v", items)
	}
}

func TestRobotsDisallowBlocksFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /main/\n"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write(euckr(t, sectionFixture))
	}))
	defer ts.Close()

	cfg := config.Default()
	cfg.Robots.Respect = true
	c := NewClient(cfg)
	c.base = ts.URL

	_, err := c.FetchList(context.Background(), "100", 10)
	var se *ScrapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected robots disallow to surface as ScrapeError, got %v", err)
	}
	if !strings.Contains(se.Reason, "robots") {
		t.Fatalf("reason = %q, want robots mention", se.Reason)
	}
}
