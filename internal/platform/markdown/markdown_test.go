package markdown_test

import (
	"strings"
	"testing"

	"folio/internal/platform/markdown"
)

func TestDocumentRenderRoundTripsFrontmatter(t *testing.T) {
	t.Parallel()
	doc := markdown.NewDocument(map[string]any{"title": "Dune", "notes": 2})
	doc.Heading(2, "Page 3")
	doc.Quote("first line\nsecond line")
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	meta, body, err := markdown.SplitFrontmatter(out)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["title"] != "Dune" || meta["notes"] != 2 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if !strings.Contains(body, "## Page 3\n") || !strings.Contains(body, "> first line\n> second line\n") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSplitFrontmatterWithoutHeader(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.SplitFrontmatter("plain body")
	if err != nil || len(meta) != 0 || body != "plain body" {
		t.Fatalf("unexpected split result: %v %v %q", err, meta, body)
	}
	if _, _, err := markdown.SplitFrontmatter("---\ntitle: x\nbody"); err == nil {
		t.Fatalf("missing closing separator should fail")
	}
}
