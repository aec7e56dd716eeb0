package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testNote(title string) models.Note {
	now := time.Now().UTC()
	return models.Note{
		Title:       title,
		Markdown:    "# " + title + "\n\nbody text",
		Document:    []byte(`{"blocks":[]}`),
		Tags:        "go,notes",
		Wikilinks:   "",
		WordCount:   2,
		ReadingTime: 1,
		Checksum:    "cs-" + title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetNote(t *testing.T) {
	db := testDB(t)
	id, err := db.CreateNote(testNote("Hello"))
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	n, err := db.GetNote(id)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "Hello" || n.Tags != "go,notes" || string(n.Document) != `{"blocks":[]}` {
		t.Errorf("note = %+v", n)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetNote(999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNote(t *testing.T) {
	db := testDB(t)
	id, _ := db.CreateNote(testNote("Before"))

	n := testNote("After")
	n.ID = id
	n.Checksum = "cs-new"
	if err := db.UpdateNote(n); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}

	got, _ := db.GetNote(id)
	if got.Title != "After" || got.Checksum != "cs-new" {
		t.Errorf("note = %+v", got)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	db := testDB(t)
	n := testNote("X")
	n.ID = 42
	if err := db.UpdateNote(n); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	id, _ := db.CreateNote(testNote("Doomed"))
	if err := db.DeleteNote(id); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := db.GetNote(id); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
	if err := db.DeleteNote(id); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUpsertBySourcePath(t *testing.T) {
	db := testDB(t)
	n := testNote("Imported")
	n.SourcePath = "sub/imported.md"

	id1, err := db.UpsertBySourcePath(n)
	if err != nil {
		t.Fatalf("UpsertBySourcePath: %v", err)
	}

	n.Title = "Imported v2"
	n.Checksum = "cs-v2"
	id2, err := db.UpsertBySourcePath(n)
	if err != nil {
		t.Fatalf("UpsertBySourcePath update: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	got, _ := db.GetNoteBySourcePath("sub/imported.md")
	if got.Title != "Imported v2" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestSourceChecksums(t *testing.T) {
	db := testDB(t)
	imported := testNote("A")
	imported.SourcePath = "a.md"
	imported.Checksum = "cs-a"
	_, _ = db.CreateNote(imported)
	_, _ = db.CreateNote(testNote("Manual")) // no source path

	m, err := db.SourceChecksums()
	if err != nil {
		t.Fatalf("SourceChecksums: %v", err)
	}
	if len(m) != 1 || m["a.md"] != "cs-a" {
		t.Errorf("checksums = %v", m)
	}
}

func TestListNotes_PaginationAndTagFilter(t *testing.T) {
	db := testDB(t)
	for _, title := range []string{"One", "Two", "Three"} {
		n := testNote(title)
		if title == "Two" {
			n.Tags = "special"
		}
		if _, err := db.CreateNote(n); err != nil {
			t.Fatal(err)
		}
	}

	all, total, err := db.ListNotes(2, 0, "", "title")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(all) != 2 {
		t.Errorf("len = %d, want 2 (limit)", len(all))
	}
	if all[0].Title != "One" {
		t.Errorf("first = %q, want One (title sort)", all[0].Title)
	}

	tagged, total, err := db.ListNotes(10, 0, "special", "")
	if err != nil {
		t.Fatalf("ListNotes tag: %v", err)
	}
	if total != 1 || len(tagged) != 1 || tagged[0].Title != "Two" {
		t.Errorf("tagged = %+v, total = %d", tagged, total)
	}
}

func TestBacklinks_SubstringMatch(t *testing.T) {
	db := testDB(t)

	target := testNote("Target Note")
	targetID, _ := db.CreateNote(target)

	linker := testNote("Linker")
	linker.Wikilinks = "Other,Target Note"
	linkerID, _ := db.CreateNote(linker)

	unrelated := testNote("Unrelated")
	_, _ = db.CreateNote(unrelated)

	refs, err := db.Backlinks(targetID)
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != linkerID || refs[0].Title != "Linker" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestBacklinks_ExcludesSelf(t *testing.T) {
	db := testDB(t)
	n := testNote("Self")
	n.Wikilinks = "Self"
	id, _ := db.CreateNote(n)

	refs, err := db.Backlinks(id)
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("refs = %+v, want none", refs)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	n := testNote("Searchable")
	n.Markdown = "# Searchable\n\nthe quick brown fox"
	id, _ := db.CreateNote(n)
	_, _ = db.CreateNote(testNote("Other"))

	results, err := db.Search("quick", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != id {
		t.Errorf("results = %+v", results)
	}
}

func TestSearch_UpdatedContent(t *testing.T) {
	db := testDB(t)
	n := testNote("Doc")
	id, _ := db.CreateNote(n)

	n.ID = id
	n.Markdown = "# Doc\n\nzyzzyva appears now"
	if err := db.UpdateNote(n); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("zyzzyva", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != id {
		t.Errorf("results = %+v", results)
	}
}

func TestConversions(t *testing.T) {
	db := testDB(t)
	id, err := db.InsertConversion(models.Conversion{
		Input:     "# Hi",
		Output:    []byte(`{"document":{"blocks":[]}}`),
		Elements:  1,
		WordCount: 1,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("InsertConversion: %v", err)
	}

	c, err := db.GetConversion(id)
	if err != nil {
		t.Fatalf("GetConversion: %v", err)
	}
	if c.Input != "# Hi" || c.Elements != 1 {
		t.Errorf("conversion = %+v", c)
	}

	if _, err := db.GetConversion(id + 100); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
