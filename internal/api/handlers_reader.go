package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/bookreader/internal/book"
	"github.com/dgallion1/bookreader/internal/section"
)

// readerView is the data handed to the reader template for one chapter page.
type readerView struct {
	BookID       string
	BookTitle    string
	Author       string
	Chapter      book.Chapter
	ChapterIndex int
	ChapterCount int
	PrevIndex    *int
	NextIndex    *int
	Anchor       string
	IsSubsection bool
	TOC          []tocItem
}

// tocItem is a table-of-contents entry with its reader URL resolved.
type tocItem struct {
	Title    string
	URL      string
	Children []tocItem
}

// tocItems resolves TOC entries to reader URLs. An entry whose href carries a
// fragment becomes an anchor link into its chapter; entries without a spine
// association keep an empty URL and render as plain text.
func tocItems(bookID string, entries []book.TOCEntry) []tocItem {
	var items []tocItem
	for _, e := range entries {
		item := tocItem{Title: e.Title, Children: tocItems(bookID, e.Children)}
		if e.ChapterIndex >= 0 {
			item.URL = "/read/" + bookID + "/" + strconv.Itoa(e.ChapterIndex)
			if _, frag, ok := strings.Cut(e.Href, "#"); ok && frag != "" {
				item.URL += "?anchor=" + url.QueryEscape(frag)
			}
		}
		items = append(items, item)
	}
	return items
}

// handleReadBook serves chapter 0 of a book.
func (s *Server) handleReadBook(w http.ResponseWriter, r *http.Request) {
	s.serveChapter(w, r, chi.URLParam(r, "bookID"), 0)
}

// handleReadChapter serves one chapter, narrowed to a subsection when the
// anchor query parameter resolves inside it.
func (s *Server) handleReadChapter(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "chapterIndex"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.serveChapter(w, r, chi.URLParam(r, "bookID"), index)
}

func (s *Server) serveChapter(w http.ResponseWriter, r *http.Request, bookID string, index int) {
	b, err := s.lib.Open(bookID)
	if err != nil {
		s.bookError(w, r, bookID, err)
		return
	}

	chapter, err := b.Spine.Get(index)
	if err != nil {
		http.Error(w, "Chapter not found", http.StatusNotFound)
		return
	}

	anchor := strings.TrimPrefix(r.URL.Query().Get("anchor"), "#")
	isSubsection := false
	if content, ok := section.Subsection(chapter.Content, anchor); ok {
		chapter = chapter.WithContent(content)
		isSubsection = true
	}

	view := readerView{
		BookID:       bookID,
		BookTitle:    b.Metadata.Title,
		Author:       b.Metadata.AuthorLine(),
		Chapter:      chapter,
		ChapterIndex: index,
		ChapterCount: b.Spine.Len(),
		Anchor:       anchor,
		IsSubsection: isSubsection,
		TOC:          tocItems(bookID, b.TOC),
	}
	if prev, ok := book.PreviousIndex(index); ok {
		view.PrevIndex = &prev
	}
	if next, ok := book.NextIndex(index, b.Spine.Len()); ok {
		view.NextIndex = &next
	}

	s.renderPage(w, "reader.html", view)
}

// handleImage serves an image belonging to a book archive. Chapter markup
// references images as images/<name>, which the browser resolves under the
// /read/{bookID}/ prefix.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	path, err := s.lib.ImagePath(chi.URLParam(r, "bookID"), chi.URLParam(r, "imageName"))
	if err != nil {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

// bookError maps loader failures to responses. Malformed archives are
// reported as absent books; only the log distinguishes them.
func (s *Server) bookError(w http.ResponseWriter, r *http.Request, bookID string, err error) {
	if errors.Is(err, book.ErrMalformedArchive) {
		s.log.Warn("malformed archive", "book", bookID, "error", err)
	} else if !errors.Is(err, book.ErrBookNotFound) {
		s.log.Error("load book", "book", bookID, "error", err)
	}
	http.Error(w, "Book not found", http.StatusNotFound)
}
