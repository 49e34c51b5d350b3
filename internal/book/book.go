// Package book defines the immutable data model for a loaded e-book archive:
// metadata, the spine of ordered chapters, and index-based navigation over it.
package book

import "strings"

// Metadata holds the archive's descriptive fields.
type Metadata struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description,omitempty"`
}

// AuthorLine joins the author list for display.
func (m Metadata) AuthorLine() string {
	return strings.Join(m.Authors, ", ")
}

// Chapter is one spine entry. Values are immutable after load; narrowing to a
// subsection produces a new value via WithContent, never a mutation of the
// cached original.
type Chapter struct {
	ID      string `json:"id"`
	Href    string `json:"href"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Text    string `json:"text"`
	Order   int    `json:"order"`
}

// WithContent returns a copy of c with its HTML content replaced. Identifier,
// href, title, text and order are preserved.
func (c Chapter) WithContent(content string) Chapter {
	c.Content = content
	return c
}

// TOCEntry is a table-of-contents node. ChapterIndex is the spine index the
// entry points into, -1 when the entry has no spine association.
type TOCEntry struct {
	Title        string     `json:"title"`
	Href         string     `json:"href"`
	ChapterIndex int        `json:"chapter_index"`
	Children     []TOCEntry `json:"children,omitempty"`
}

// Book is a fully loaded archive. It is constructed once by the loader and
// read-only afterwards; concurrent requests share the same value.
type Book struct {
	Metadata Metadata   `json:"metadata"`
	Spine    Spine      `json:"spine"`
	TOC      []TOCEntry `json:"toc,omitempty"`
}
