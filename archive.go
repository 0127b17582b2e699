package docpack

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Metadata length limits for generated archives. Titles beyond the
// recommended length render poorly in catalog UIs.
const (
	RecommendedMaxTitleLength = 30
	MaxDescriptionLength      = 80
	MaxLongDescriptionLength  = 4000
)

// ArchiveConfig holds the user-facing metadata written into each archive.
// Fields ending in Format accept {placeholder} tokens that are substituted
// per docset, see Metadata.Placeholders for the available values.
type ArchiveConfig struct {
	// File name for the archive, without extension.
	NameFormat string
	// Human readable title. At most RecommendedMaxTitleLength after
	// formatting.
	TitleFormat string
	// Publisher of the archive. Not formatted.
	Publisher string
	// Creator of the content. Not formatted.
	Creator string
	// Short description. At most MaxDescriptionLength after formatting.
	DescriptionFormat string
	// Long description. At most MaxLongDescriptionLength after
	// formatting. Empty means none.
	LongDescriptionFormat string
	// Semicolon delimited list of tags. Formatting is supported.
	Tags string
}

var placeholderToken = regexp.MustCompile(`\{([a-z_]+)\}`)

// expandFormat substitutes {placeholder} tokens in s. Unknown placeholders
// are an error naming the valid set.
func expandFormat(s string, placeholders map[string]string) (string, error) {
	var expandErr error
	out := placeholderToken.ReplaceAllStringFunc(s, func(tok string) string {
		key := tok[1 : len(tok)-1]
		val, ok := placeholders[key]
		if !ok {
			if expandErr == nil {
				valid := make([]string, 0, len(placeholders))
				for k := range placeholders {
					valid = append(valid, k)
				}
				sort.Strings(valid)
				expandErr = Errorf(EINVALID,
					"invalid placeholder %q in %q, valid placeholders are: %s",
					key, s, strings.Join(valid, ", "))
			}
			return ""
		}
		return val
	})
	if expandErr != nil {
		return "", expandErr
	}
	return out, nil
}

// checkLength rejects strings longer than max characters.
func checkLength(s, field string, max int) (string, error) {
	if n := utf8.RuneCountInString(s); n > max {
		prefix := []rune(s)
		if len(prefix) > 15 {
			prefix = prefix[:15]
		}
		return "", Errorf(EINVALID, "%s %q (%d chars) is longer than the allowed %d chars",
			field, string(prefix)+"…", n, max)
	}
	return s, nil
}

// Format returns a copy of the config with placeholders substituted and
// length limits enforced. Publisher and Creator pass through untouched.
func (c ArchiveConfig) Format(placeholders map[string]string) (ArchiveConfig, error) {
	out := c
	var err error

	if out.NameFormat, err = expandFormat(c.NameFormat, placeholders); err != nil {
		return ArchiveConfig{}, err
	}

	title, err := expandFormat(c.TitleFormat, placeholders)
	if err != nil {
		return ArchiveConfig{}, err
	}
	if out.TitleFormat, err = checkLength(title, "formatted title", RecommendedMaxTitleLength); err != nil {
		return ArchiveConfig{}, err
	}

	desc, err := expandFormat(c.DescriptionFormat, placeholders)
	if err != nil {
		return ArchiveConfig{}, err
	}
	if out.DescriptionFormat, err = checkLength(desc, "formatted description", MaxDescriptionLength); err != nil {
		return ArchiveConfig{}, err
	}

	if c.LongDescriptionFormat != "" {
		long, err := expandFormat(c.LongDescriptionFormat, placeholders)
		if err != nil {
			return ArchiveConfig{}, err
		}
		if out.LongDescriptionFormat, err = checkLength(long, "formatted long description", MaxLongDescriptionLength); err != nil {
			return ArchiveConfig{}, err
		}
	}

	if out.Tags, err = expandFormat(c.Tags, placeholders); err != nil {
		return ArchiveConfig{}, err
	}

	return out, nil
}

// TagList returns the semicolon delimited tags as a slice, dropping
// empty elements.
func (c ArchiveConfig) TagList() []string {
	var out []string
	for _, t := range strings.Split(c.Tags, ";") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ArchiveMeta is the resolved metadata recorded in a generated archive.
type ArchiveMeta struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Publisher       string   `json:"publisher"`
	Creator         string   `json:"creator"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Language        string   `json:"language"`
	Source          string   `json:"source,omitempty"`
	Scraper         string   `json:"scraper"`
}

// ArchiveItem is a single file stored in an archive.
type ArchiveItem struct {
	// Path of the item inside the archive e.g. "index" or
	// "application.css".
	Path string
	// Title shown in reader search. Optional.
	Title string
	// MIME type of the content.
	MimeType string
	// Content is the item's payload.
	Content []byte
}

// ArchiveWriter stores items into an archive under construction. The
// archive only becomes visible at its target path after Commit.
type ArchiveWriter interface {
	// AddItem stores one item. Adding a path twice returns ECONFLICT.
	AddItem(item *ArchiveItem) error

	// Commit finalizes the archive and moves it to its target path.
	// The writer is unusable afterwards.
	Commit() error

	// Abort discards the partially written archive.
	Abort() error
}
