package domain_test

import (
	"errors"
	"testing"

	"folio/internal/modules/document/domain"
)

func TestChaptersSkipsUnresolvedNodeButKeepsChildren(t *testing.T) {
	t.Parallel()
	tree := []domain.OutlineItem{
		{Title: "Part I", Dest: domain.PageDestination(0), Children: []domain.OutlineItem{
			{Title: "Chapter 1", Dest: domain.NamedDestination("ch1")},
			{Title: "Broken", Dest: domain.NamedDestination("missing"), Children: []domain.OutlineItem{
				{Title: "Section 2.1", Dest: domain.PageDestination(5)},
				{Title: "Section 2.2", Dest: domain.NamedDestination("s22")},
			}},
		}},
		{Title: "Part II", Dest: domain.PageDestination(9)},
	}
	lookup := func(name string) (int, error) {
		switch name {
		case "ch1":
			return 2, nil
		case "s22":
			return 7, nil
		}
		return 0, errors.New("no such name")
	}

	got := domain.Chapters(tree, 12, lookup)
	want := []domain.Chapter{
		{ID: "ch-1", Title: "Part I", Page: 1},
		{ID: "ch-2", Title: "Chapter 1", Page: 3},
		{ID: "ch-4", Title: "Section 2.1", Page: 6},
		{ID: "ch-5", Title: "Section 2.2", Page: 8},
		{ID: "ch-6", Title: "Part II", Page: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d chapters, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chapter %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestResolveOutlineIsolatesFailures(t *testing.T) {
	t.Parallel()
	tree := []domain.OutlineItem{
		{Title: "panics", Dest: domain.NamedDestination("boom")},
		{Title: "no dest"},
		{Title: "out of range", Dest: domain.PageDestination(40)},
		{Title: "negative", Dest: domain.PageDestination(-1)},
		{Title: "ok", Dest: domain.PageDestination(1)},
	}
	lookup := func(string) (int, error) { panic("corrupt name tree") }

	res := domain.ResolveOutline(tree, 3, lookup)
	if len(res) != 5 {
		t.Fatalf("expected a result per node, got %d", len(res))
	}
	for i := 0; i < 4; i++ {
		if res[i].Resolved() || !errors.Is(res[i].Err, domain.ErrUnresolved) {
			t.Fatalf("node %d should be skipped, got %+v", i, res[i])
		}
	}
	if !res[4].Resolved() || res[4].Page != 2 {
		t.Fatalf("expected last node on page 2, got %+v", res[4])
	}
}

func TestResolveOutlineDepthAndEmptyTree(t *testing.T) {
	t.Parallel()
	if got := domain.Chapters(nil, 10, nil); len(got) != 0 {
		t.Fatalf("expected no chapters, got %+v", got)
	}
	tree := []domain.OutlineItem{{Title: "a", Dest: domain.PageDestination(0), Children: []domain.OutlineItem{
		{Title: "b", Dest: domain.PageDestination(1), Children: []domain.OutlineItem{{Title: "c", Dest: domain.PageDestination(2)}}},
	}}}
	res := domain.ResolveOutline(tree, 0, nil)
	for i, r := range res {
		if r.Depth != i || r.Position != i {
			t.Fatalf("unexpected depth/position at %d: %+v", i, r)
		}
	}
	if got := domain.Chapters([]domain.OutlineItem{{Title: "  ", Dest: domain.PageDestination(3)}}, 0, nil); got[0].Title != "Page 4" {
		t.Fatalf("expected fallback title, got %q", got[0].Title)
	}
}
