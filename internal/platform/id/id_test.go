package id_test

import (
	"strings"
	"testing"
	"time"

	"folio/internal/platform/id"
)

func TestDerivedUsesNameAndTime(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := id.Derived("The Go Book.pdf", at)
	b := id.Derived("The Go Book.pdf", at)
	if !strings.HasPrefix(a, "the-go-book-pdf-") {
		t.Fatalf("unexpected derived id %q", a)
	}
	if a == b {
		t.Fatalf("expected distinct ids for repeated imports, got %q twice", a)
	}
}

func TestUUIDIsUnique(t *testing.T) {
	t.Parallel()
	gen := id.UUID{}
	if gen.New() == gen.New() {
		t.Fatalf("uuid generator returned duplicates")
	}
}
