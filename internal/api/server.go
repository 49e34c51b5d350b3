package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/bookreader/internal/config"
	"github.com/dgallion1/bookreader/internal/library"
)

// Server is the HTTP surface of the reader.
type Server struct {
	router chi.Router
	lib    *library.Library
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(lib *library.Library, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		lib: lib,
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/", s.handleLibrary)
	r.Get("/read/{bookID}", s.handleReadBook)
	r.Get("/read/{bookID}/{chapterIndex}", s.handleReadChapter)
	r.Get("/read/{bookID}/images/{imageName}", s.handleImage)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
