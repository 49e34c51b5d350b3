package api

import "net/http"

// handleLibrary lists all readable book archives.
func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "library.html", struct {
		Books []libraryRow
	}{Books: s.libraryRows()})
}

// libraryRow is one book in the listing.
type libraryRow struct {
	ID          string
	Title       string
	Author      string
	Chapters    int
	Description string
}

func (s *Server) libraryRows() []libraryRow {
	var rows []libraryRow
	for _, b := range s.lib.List() {
		rows = append(rows, libraryRow{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Chapters:    b.Chapters,
			Description: b.Description,
		})
	}
	return rows
}
