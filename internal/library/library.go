// Package library loads processed book archives from disk and keeps a
// bounded LRU cache of loaded books so repeated reads do not hit the
// filesystem on every request.
//
// An archive is a directory named <id>_data containing book.json (metadata,
// spine, optional TOC) and an images/ directory referenced by chapter markup.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dgallion1/bookreader/internal/book"
	"github.com/dgallion1/bookreader/internal/htmldoc"
)

// archiveSuffix marks directories the preprocessor produced.
const archiveSuffix = "_data"

// bookFile is the archive's serialized book inside its directory.
const bookFile = "book.json"

// Summary is one row of the library listing.
type Summary struct {
	ID          string
	Title       string
	Author      string
	Chapters    int
	Description string
}

// Library resolves book identifiers to loaded, immutable Book values.
// Safe for concurrent use; on concurrent misses for the same id both callers
// load and the cache converges to one entry, which is fine because loading
// is idempotent.
type Library struct {
	dir      string
	maxBytes int64
	log      *slog.Logger
	cache    *lru.Cache[string, *book.Book]
}

// New creates a Library over dir with an LRU cache of cacheSize books.
// maxBytes bounds how large a book.json the loader will read.
func New(dir string, cacheSize int, maxBytes int64, log *slog.Logger) (*Library, error) {
	cache, err := lru.New[string, *book.Book](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create book cache: %w", err)
	}
	return &Library{
		dir:      dir,
		maxBytes: maxBytes,
		log:      log,
		cache:    cache,
	}, nil
}

// Open returns the book for id, loading and caching it on a miss.
// Returns book.ErrBookNotFound for unknown ids and book.ErrMalformedArchive
// for archives that cannot be deserialized. Failures are never cached.
func (l *Library) Open(id string) (*book.Book, error) {
	id = sanitizeSegment(id)
	if !strings.HasSuffix(id, archiveSuffix) {
		return nil, fmt.Errorf("book %q: %w", id, book.ErrBookNotFound)
	}
	if b, ok := l.cache.Get(id); ok {
		return b, nil
	}

	b, err := l.load(id)
	if err != nil {
		return nil, err
	}
	l.cache.Add(id, b)
	return b, nil
}

// List scans the books directory for archives and returns their summaries
// sorted by title. Archives that fail to load are logged and skipped, never
// fatal to the listing.
func (l *Library) List() []Summary {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.log.Error("scan books dir", "dir", l.dir, "error", err)
		return nil
	}

	var books []Summary
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), archiveSuffix) {
			continue
		}
		b, err := l.Open(entry.Name())
		if err != nil {
			if !errors.Is(err, book.ErrBookNotFound) {
				l.log.Warn("skipping unreadable archive", "id", entry.Name(), "error", err)
			}
			continue
		}
		books = append(books, Summary{
			ID:          entry.Name(),
			Title:       b.Metadata.Title,
			Author:      b.Metadata.AuthorLine(),
			Chapters:    b.Spine.Len(),
			Description: b.Metadata.Description,
		})
	}

	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books
}

// ImagePath resolves an image inside a book archive to its on-disk path.
// Both segments are reduced to their base names so neither can escape the
// books directory. Returns book.ErrImageNotFound when the file is absent.
func (l *Library) ImagePath(bookID, imageName string) (string, error) {
	path := filepath.Join(l.dir, sanitizeSegment(bookID), "images", sanitizeSegment(imageName))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("image %s/%s: %w", bookID, imageName, book.ErrImageNotFound)
	}
	return path, nil
}

func (l *Library) load(id string) (*book.Book, error) {
	path := filepath.Join(l.dir, id, bookFile)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("book %q: %w", id, book.ErrBookNotFound)
		}
		return nil, fmt.Errorf("book %q: open archive: %w", id, err)
	}
	defer f.Close()

	var b book.Book
	dec := json.NewDecoder(io.LimitReader(f, l.maxBytes))
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("book %q: decode %s: %v: %w", id, bookFile, err, book.ErrMalformedArchive)
	}

	normalize(&b)
	return &b, nil
}

// normalize fills fields the preprocessor is allowed to omit: chapter order
// defaults to spine position and the plain-text rendering is derived from
// the chapter HTML when absent.
func normalize(b *book.Book) {
	for i := range b.Spine {
		ch := &b.Spine[i]
		if ch.Order == 0 {
			ch.Order = i
		}
		if ch.Text == "" && ch.Content != "" {
			ch.Text = htmldoc.ExtractText(ch.Content)
		}
	}
}

// sanitizeSegment strips any path components from a URL segment, keeping only
// the base name.
func sanitizeSegment(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
