package noteservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/parser"
	"github.com/starford/dagaz/internal/testutil"
)

func testService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	db := testutil.TestDB(t)
	conv := parser.New(parser.WithClock(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}))
	return NewService(db, conv, opts...)
}

func TestConvertRecordsConversion(t *testing.T) {
	var events []string
	svc := testService(t, WithNotifier(func(kind string, id int64) {
		events = append(events, kind)
	}))
	ctx := context.Background()

	detail, err := svc.Convert(ctx, "# Hello\n\nworld")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if detail.ID == 0 {
		t.Error("expected a stored conversion id")
	}
	if detail.Stats.Elements != 2 {
		t.Errorf("elements = %d, want 2", detail.Stats.Elements)
	}

	rec, err := svc.GetConversion(ctx, detail.ID)
	if err != nil {
		t.Fatalf("GetConversion: %v", err)
	}
	if rec.Input != "# Hello\n\nworld" {
		t.Errorf("input = %q", rec.Input)
	}
	if len(events) != 1 || events[0] != "conversion.completed" {
		t.Errorf("events = %v", events)
	}
}

func TestCreateNote_TitleDerivation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cases := []struct {
		explicit, markdown, want string
	}{
		{"Explicit", "# Ignored", "Explicit"},
		{"", "---\ntitle: From FM\n---\n# Also Ignored", "From FM"},
		{"", "# From Heading\n\ntext", "From Heading"},
		{"", "no structure at all", "Untitled"},
	}
	for _, c := range cases {
		n, err := svc.CreateNote(ctx, c.explicit, c.markdown)
		if err != nil {
			t.Fatalf("CreateNote(%q): %v", c.markdown, err)
		}
		if n.Title != c.want {
			t.Errorf("title = %q, want %q", n.Title, c.want)
		}
	}
}

func TestNoteLifecycle(t *testing.T) {
	var events []string
	svc := testService(t, WithNotifier(func(kind string, id int64) {
		events = append(events, kind)
	}))
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "", "# Note\n\ncontent with #tag and [[Other]]")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if created.WordCount == 0 || created.Checksum == "" {
		t.Errorf("created = %+v", created)
	}
	if len(created.Tags) != 1 || created.Tags[0] != "tag" {
		t.Errorf("tags = %v", created.Tags)
	}
	if len(created.Wikilinks) != 1 || created.Wikilinks[0] != "Other" {
		t.Errorf("wikilinks = %v", created.Wikilinks)
	}

	updated, err := svc.UpdateNote(ctx, created.ID, "", "# Note v2", created.Checksum)
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Title != "Note v2" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Checksum == created.Checksum {
		t.Error("checksum should change with content")
	}

	if err := svc.DeleteNote(ctx, created.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := svc.GetNote(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	want := []string{"note.created", "note.updated", "note.deleted"}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestUpdateNote_ChecksumConflict(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, _ := svc.CreateNote(ctx, "", "# Original")
	if _, err := svc.UpdateNote(ctx, n.ID, "", "# Changed", "stale-checksum"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}

	// Empty If-Match skips the concurrency check.
	if _, err := svc.UpdateNote(ctx, n.ID, "", "# Changed", ""); err != nil {
		t.Errorf("unconditional update failed: %v", err)
	}
}

func TestBacklinksEnriched(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	target, _ := svc.CreateNote(ctx, "", "# Target Note")
	linker, _ := svc.CreateNote(ctx, "", "# Linker\n\nsee [[Target Note]]")

	detail, err := svc.GetNote(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(detail.Backlinks) != 1 || detail.Backlinks[0].ID != linker.ID {
		t.Errorf("backlinks = %+v", detail.Backlinks)
	}

	// A note with no backlinks reports an empty slice, not null.
	lonely, _ := svc.GetNote(ctx, linker.ID)
	if lonely.Backlinks == nil || len(lonely.Backlinks) != 0 {
		t.Errorf("backlinks = %#v, want empty slice", lonely.Backlinks)
	}
}

func TestListNotes(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.CreateNote(ctx, "", "# Alpha\n\n#common")
	_, _ = svc.CreateNote(ctx, "", "# Beta\n\n#common #extra")

	items, total, err := svc.ListNotes(ctx, 10, 0, "", "title")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, len = %d", total, len(items))
	}
	if items[0].Title != "Alpha" {
		t.Errorf("first = %q", items[0].Title)
	}
	if len(items[1].Tags) != 2 {
		t.Errorf("tags = %v", items[1].Tags)
	}
}

func TestImportFile(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, err := svc.ImportFile("dir/my-note.md", []byte("plain content, no heading"))
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	n, err := svc.GetNote(ctx, id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "my note" {
		t.Errorf("title = %q, want filename-derived", n.Title)
	}

	// Re-importing the same path updates in place.
	id2, err := svc.ImportFile("dir/my-note.md", []byte("# Proper Title\n\nupdated"))
	if err != nil {
		t.Fatalf("ImportFile update: %v", err)
	}
	if id2 != id {
		t.Errorf("ids differ: %d vs %d", id, id2)
	}
	n, _ = svc.GetNote(ctx, id)
	if n.Title != "Proper Title" {
		t.Errorf("title = %q", n.Title)
	}
}

func TestRemoveImported(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	id, _ := svc.ImportFile("gone.md", []byte("# Gone"))
	if err := svc.RemoveImported("gone.md"); err != nil {
		t.Fatalf("RemoveImported: %v", err)
	}
	if _, err := svc.GetNote(ctx, id); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Unknown path is a no-op.
	if err := svc.RemoveImported("never-imported.md"); err != nil {
		t.Errorf("RemoveImported unknown: %v", err)
	}
}
