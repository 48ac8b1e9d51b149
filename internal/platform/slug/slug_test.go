package slug_test

import (
	"strings"
	"testing"

	"folio/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"The Go Programming Language.pdf": "the-go-programming-language-pdf",
		"  --  ":                          "untitled",
		"Ünïcode & Friends":               "n-code-friends",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	if got := slug.Make(strings.Repeat("a", 100)); len(got) != 48 {
		t.Fatalf("expected slug capped at 48 chars, got %d", len(got))
	}
}
