// Package http serves a library of built archives for browsing. Stored
// files go out byte for byte except for HTML pages, which get their
// navigation sidebar resolved per request the same way a reader
// application embedding the page would resolve it.
package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/zip"
)

//go:embed templates
var templateFS embed.FS

var libraryTemplate = template.Must(template.ParseFS(templateFS, "templates/library.html"))

// Server serves the archives in a library directory over HTTP.
type Server struct {
	router chi.Router
	log    *slog.Logger

	library string
}

// NewServer returns a server over the archives in library. A nil logger
// discards logs.
func NewServer(library string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{library: library, log: log}
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

	r.Get("/", s.handleLibrary)
	r.Get("/{slug}", s.handleArchiveRedirect)
	r.Get("/{slug}/*", s.handleArchiveItem)

	s.router = r
}

// libraryEntry is one archive row on the library page.
type libraryEntry struct {
	Slug  string
	Title string
	Name  string
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.scanLibrary()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Archives []libraryEntry }{Archives: entries}
	if err := libraryTemplate.Execute(w, data); err != nil {
		s.log.Error("rendering library page", "err", err)
	}
}

// scanLibrary reads the library directory fresh on every call, so
// archives built while the server runs show up without a restart.
func (s *Server) scanLibrary() ([]libraryEntry, error) {
	dirents, err := os.ReadDir(s.library)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docpack.Errorf(docpack.ENOTFOUND, "library directory %q does not exist", s.library)
		}
		return nil, err
	}

	var entries []libraryEntry
	for _, de := range dirents {
		if de.IsDir() || !strings.HasSuffix(de.Name(), docpack.ArchiveExt) {
			continue
		}

		path := filepath.Join(s.library, de.Name())
		rd, err := zip.OpenReader(path)
		if err != nil {
			s.log.Warn("skipping unreadable archive", "path", path, "err", err)
			continue
		}
		meta := rd.Meta()
		rd.Close()

		entries = append(entries, libraryEntry{
			Slug:  strings.TrimSuffix(de.Name(), docpack.ArchiveExt),
			Title: meta.Title,
			Name:  meta.Name,
		})
	}
	return entries, nil
}

// handleArchiveRedirect bounces bare archive URLs to their slash form so
// the relative links inside pages resolve against the archive root.
func (s *Server) handleArchiveRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
}

// openArchive opens the archive for slug. Archives are reopened per
// request so a rebuild that replaces the file is picked up immediately.
func (s *Server) openArchive(slug string) (*zip.Reader, error) {
	return zip.OpenReader(filepath.Join(s.library, slug+docpack.ArchiveExt))
}

// statuses maps application error codes to HTTP status codes.
var statuses = map[string]int{
	docpack.ECONFLICT:    http.StatusConflict,
	docpack.EINVALID:     http.StatusBadRequest,
	docpack.ENOTFOUND:    http.StatusNotFound,
	docpack.EUNAVAILABLE: http.StatusServiceUnavailable,
}

// writeError reports err to the client with a status derived from its
// application code. Internal errors are logged and not leaked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := docpack.ErrorCode(err)
	status, ok := statuses[code]
	if !ok {
		status = http.StatusInternalServerError
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	http.Error(w, docpack.ErrorMessage(err), status)
}
