package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/nav"
	"github.com/jmendel/docpack/zip"
)

func (s *Server) handleArchiveItem(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	path := chi.URLParam(r, "*")
	if path == "" {
		path = docpack.LandingPage
	}

	rd, err := s.openArchive(slug)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rd.Close()

	content, mime, err := rd.Item(path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if mime == "text/html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(s.renderPage(r, rd, slug, path, content))
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(content)
}

// renderPage resolves the page's navigation sidebar and splices it into
// the stored markup. The widget fetches the listing through an HTTP
// round trip served from the archive itself, so the sidebar is exactly
// what a reader embedding the page would draw, load failure included:
// a failed mount serves the page with the failure message in the
// sidebar's place instead of masking it.
func (s *Server) renderPage(r *http.Request, rd *zip.Reader, slug, path string, page []byte) []byte {
	prefix := "/" + slug + "/"

	widget := nav.New(nav.Config{
		ListingURL: "http://" + r.Host + prefix + docpack.ListingFile,
		Path:       path,
		Prefix:     prefix,
		HTTPClient: &http.Client{Transport: &archiveTransport{archive: rd, prefix: prefix}},
	})
	if err := widget.Mount(r.Context()); err != nil {
		s.log.Warn("navigation unavailable", "slug", slug, "path", path, "err", err)
	}

	return splice(page, widget.HTML())
}

// splice replaces the page's sidebar placeholder with markup. Pages
// without a placeholder pass through untouched.
func splice(page []byte, markup string) []byte {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return page
	}

	placeholder := doc.Find("[data-docpack-nav]")
	if placeholder.Length() == 0 {
		return page
	}
	placeholder.ReplaceWithHtml(markup)

	out, err := doc.Html()
	if err != nil {
		return page
	}
	return []byte(out)
}

// archiveTransport resolves requests against an open archive instead of
// the network, keyed by URL path with the mount prefix stripped.
type archiveTransport struct {
	archive *zip.Reader
	prefix  string
}

func (t *archiveTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	path := strings.TrimPrefix(req.URL.Path, t.prefix)

	content, mime, err := t.archive.Item(path)
	if err != nil {
		if docpack.ErrorCode(err) == docpack.ENOTFOUND {
			return archiveResponse(req, http.StatusNotFound, "text/plain", []byte("not found")), nil
		}
		return nil, err
	}
	return archiveResponse(req, http.StatusOK, mime, content), nil
}

func archiveResponse(req *http.Request, status int, mime string, body []byte) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", mime)
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
