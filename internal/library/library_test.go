package library

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/bookreader/internal/book"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeArchive(t *testing.T, dir, id, bookJSON string) {
	t.Helper()
	archiveDir := filepath.Join(dir, id)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "book.json"), []byte(bookJSON), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sampleBook = `{
	"metadata": {"title": "Moby Dick", "authors": ["Herman Melville"]},
	"spine": [
		{"id": "c0", "href": "ch0.html", "title": "Loomings", "content": "<h2 id=\"s1\">Call me Ishmael</h2><p>Some years ago.</p>"},
		{"id": "c1", "href": "ch1.html", "title": "The Carpet-Bag", "content": "<p>I stuffed a shirt.</p>", "text": "I stuffed a shirt.", "order": 1}
	]
}`

func newTestLibrary(t *testing.T, dir string) *Library {
	t.Helper()
	lib, err := New(dir, 10, 1<<20, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return lib
}

func TestOpenLoadsArchive(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "moby_data", sampleBook)
	lib := newTestLibrary(t, dir)

	b, err := lib.Open("moby_data")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.Metadata.Title != "Moby Dick" {
		t.Errorf("title = %q", b.Metadata.Title)
	}
	if b.Spine.Len() != 2 {
		t.Fatalf("spine length = %d", b.Spine.Len())
	}
}

func TestOpenNormalizesOrderAndText(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "moby_data", sampleBook)
	lib := newTestLibrary(t, dir)

	b, err := lib.Open("moby_data")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	first, _ := b.Spine.Get(0)
	if first.Text != "Call me Ishmael\nSome years ago." {
		t.Errorf("derived text = %q", first.Text)
	}
	second, _ := b.Spine.Get(1)
	if second.Order != 1 || second.Text != "I stuffed a shirt." {
		t.Errorf("explicit fields must be kept: order=%d text=%q", second.Order, second.Text)
	}
}

func TestOpenUnknownBook(t *testing.T) {
	lib := newTestLibrary(t, t.TempDir())
	if _, err := lib.Open("ghost_data"); !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestOpenRejectsNonArchiveID(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "plain", sampleBook)
	lib := newTestLibrary(t, dir)
	if _, err := lib.Open("plain"); !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound for id without archive suffix, got %v", err)
	}
}

func TestOpenMalformedArchive(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "broken_data", `{"metadata": not json`)
	lib := newTestLibrary(t, dir)
	if _, err := lib.Open("broken_data"); !errors.Is(err, book.ErrMalformedArchive) {
		t.Errorf("expected ErrMalformedArchive, got %v", err)
	}
}

func TestOpenSanitizesTraversal(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "moby_data", sampleBook)
	lib := newTestLibrary(t, dir)

	// A traversal attempt reduces to its base name and must not escape the
	// books directory.
	if _, err := lib.Open("../../moby_data"); err != nil {
		t.Errorf("base-name resolution should still find the archive: %v", err)
	}
	if _, err := lib.Open("../../../etc/passwd"); !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound for traversal id, got %v", err)
	}
}

func TestOpenCachesLoadedBooks(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "moby_data", sampleBook)
	lib := newTestLibrary(t, dir)

	first, err := lib.Open("moby_data")
	if err != nil {
		t.Fatal(err)
	}

	// Remove the archive from disk; a cached book must still be served.
	if err := os.RemoveAll(filepath.Join(dir, "moby_data")); err != nil {
		t.Fatal(err)
	}
	second, err := lib.Open("moby_data")
	if err != nil {
		t.Fatalf("expected cache hit after archive removal, got %v", err)
	}
	if first != second {
		t.Error("expected the same cached *Book value")
	}
}

func TestOpenFailureIsNotCached(t *testing.T) {
	dir := t.TempDir()
	lib := newTestLibrary(t, dir)

	if _, err := lib.Open("late_data"); !errors.Is(err, book.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound before the archive exists, got %v", err)
	}

	// The archive appearing later must be picked up: failures are never
	// negatively cached.
	writeArchive(t, dir, "late_data", sampleBook)
	if _, err := lib.Open("late_data"); err != nil {
		t.Errorf("expected successful load after archive creation, got %v", err)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "one_data", sampleBook)
	writeArchive(t, dir, "two_data", sampleBook)

	lib, err := New(dir, 1, 1<<20, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	first, err := lib.Open("one_data")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Open("two_data"); err != nil {
		t.Fatal(err)
	}

	// "one" was evicted by "two"; reopening reloads from disk and yields a
	// fresh value.
	reloaded, err := lib.Open("one_data")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded == first {
		t.Error("expected a reloaded *Book after eviction, got the old value")
	}
}

func TestListReturnsSortedSummaries(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "zebra_data", `{"metadata": {"title": "Zebra", "authors": ["Z"]}, "spine": []}`)
	writeArchive(t, dir, "aardvark_data", `{"metadata": {"title": "Aardvark", "authors": ["A", "B"]}, "spine": [{"id": "c0", "content": "<p>x</p>"}]}`)
	writeArchive(t, dir, "broken_data", `not json at all`)
	if err := os.MkdirAll(filepath.Join(dir, "not_a_book"), 0o755); err != nil {
		t.Fatal(err)
	}

	lib := newTestLibrary(t, dir)
	books := lib.List()
	if len(books) != 2 {
		t.Fatalf("expected 2 listed books, got %d: %+v", len(books), books)
	}
	if books[0].Title != "Aardvark" || books[1].Title != "Zebra" {
		t.Errorf("expected title-sorted listing, got %+v", books)
	}
	if books[0].Author != "A, B" {
		t.Errorf("author line = %q", books[0].Author)
	}
	if books[0].Chapters != 1 {
		t.Errorf("chapter count = %d", books[0].Chapters)
	}
}

func TestImagePath(t *testing.T) {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "moby_data", "images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imgDir, "whale.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := newTestLibrary(t, dir)

	path, err := lib.ImagePath("moby_data", "whale.jpg")
	if err != nil {
		t.Fatalf("ImagePath: %v", err)
	}
	if path != filepath.Join(dir, "moby_data", "images", "whale.jpg") {
		t.Errorf("path = %q", path)
	}

	if _, err := lib.ImagePath("moby_data", "missing.jpg"); !errors.Is(err, book.ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
	if _, err := lib.ImagePath("moby_data", "../book.json"); !errors.Is(err, book.ErrImageNotFound) {
		t.Errorf("expected traversal to be rejected, got %v", err)
	}
}
