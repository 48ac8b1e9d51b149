package domain_test

import (
	"reflect"
	"testing"
	"time"

	"folio/internal/modules/library/domain"
)

func TestEntryValidate(t *testing.T) {
	t.Parallel()
	base := domain.Entry{ID: "id-1", DisplayName: "Dune", LastPageRead: 1}
	if err := base.Validate(); err != nil {
		t.Fatalf("entry should be valid: %v", err)
	}
	missingID := base
	missingID.ID = ""
	if err := missingID.Validate(); err == nil {
		t.Fatalf("missing id should fail")
	}
	missingName := base
	missingName.DisplayName = " "
	if err := missingName.Validate(); err == nil {
		t.Fatalf("missing name should fail")
	}
	zeroPage := base
	zeroPage.LastPageRead = 0
	if err := zeroPage.Validate(); err == nil {
		t.Fatalf("page 0 should fail")
	}
	negativeTime := base
	negativeTime.TotalTimeSeconds = -1
	if err := negativeTime.Validate(); err == nil {
		t.Fatalf("negative time should fail")
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()
	got := domain.NormalizeTags([]string{"SciFi", " scifi", "", "classic"})
	if !reflect.DeepEqual(got, []string{"classic", "scifi"}) {
		t.Fatalf("unexpected tags %v", got)
	}
}

func TestSortByLastOpened(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.Entry{
		{ID: "old", LastOpenedAt: now.Add(-time.Hour)},
		{ID: "b", LastOpenedAt: now},
		{ID: "a", LastOpenedAt: now},
	}
	domain.SortByLastOpened(entries)
	if entries[0].ID != "a" || entries[1].ID != "b" || entries[2].ID != "old" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
