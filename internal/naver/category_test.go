package naver

import "testing"

func TestResolveCategoryNumericPassthrough(t *testing.T) {
	for _, code := range []string{"100", "105", "237"} {
		if got := ResolveCategory(code); got != code {
			t.Fatalf("ResolveCategory(%q) = %q, want passthrough", code, got)
		}
	}
}

func TestResolveCategoryLabels(t *testing.T) {
	cases := map[string]string{
		"politics":   "100",
		"정치":         "100",
		"economy":    "101",
		"society":    "102",
		"생활/문화":      "103",
		"world":      "104",
		"세계":         "104",
		"IT/science": "105",
		"IT/과학":      "105",
	}
	for in, want := range cases {
		if got := ResolveCategory(in); got != want {
			t.Fatalf("ResolveCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveCategoryTrimsWhitespace(t *testing.T) {
	if got := ResolveCategory("  경제  "); got != "101" {
		t.Fatalf("ResolveCategory with whitespace = %q, want 101", got)
	}
	if got := ResolveCategory(" 104 "); got != "104" {
		t.Fatalf("numeric code with whitespace = %q, want 104", got)
	}
}

func TestResolveCategoryLooseMatch(t *testing.T) {
	if got := ResolveCategory("세계 뉴스"); got != "104" {
		t.Fatalf("loose match = %q, want 104", got)
	}
}

func TestResolveCategoryUnknownFallsBack(t *testing.T) {
	for _, in := range []string{"", "sports", "12", "1000", "???"} {
		if got := ResolveCategory(in); got != DefaultSection {
			t.Fatalf("ResolveCategory(%q) = %q, want default %q", in, got, DefaultSection)
		}
	}
}
