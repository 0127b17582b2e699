package build

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmendel/docpack"
)

//go:embed templates
var templateFS embed.FS

var (
	pageTemplate     = template.Must(template.ParseFS(templateFS, "templates/page.html"))
	licensesTemplate = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/licenses.txt"))
)

// pageData feeds the page template.
type pageData struct {
	Title     string
	Path      string
	RelPrefix string
	Listing   string

	// Content and Attribution are HTML served by DevDocs. It ships
	// pre-rendered and is embedded as-is.
	Content     template.HTML
	Attribution template.HTML
}

// renderPage renders one documentation page with the shared chrome and the
// sidebar placeholder the navigation widget mounts into.
func renderPage(data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// licenseData feeds the licenses template.
type licenseData struct {
	FullName    string
	Attribution string
}

// renderLicenses renders the license and attribution notice for a docset.
func renderLicenses(doc docpack.Metadata) ([]byte, error) {
	var buf bytes.Buffer
	err := licensesTemplate.Execute(&buf, licenseData{
		FullName:    doc.FullName(),
		Attribution: textContent(doc.Attribution),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// titleFromHTML extracts a display title from page content, preferring the
// first h1 and falling back to the first h2.
func titleFromHTML(content string) string {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(root.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(root.Find("h2").First().Text())
	}
	return title
}

// textContent strips markup from an HTML snippet. Attribution strings in
// DevDocs metadata carry anchor tags, which have no place in a plain text
// file.
func textContent(snippet string) string {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}
	return strings.TrimSpace(root.Text())
}
