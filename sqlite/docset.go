package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmendel/docpack"
)

// Compile-time interface verification.
var _ docpack.DocsetIndex = (*DocsetService)(nil)

// DocsetService implements docpack.DocsetIndex using SQLite.
type DocsetService struct {
	db *DB
}

// NewDocsetService creates a new DocsetService.
func NewDocsetService(db *DB) *DocsetService {
	return &DocsetService{db: db}
}

// CreateDocset records a built archive. A previous record with the same
// slug is replaced along with its entries.
func (s *DocsetService) CreateDocset(ctx context.Context, docset *docpack.Docset) error {
	if err := docset.Validate(); err != nil {
		return err
	}

	docset.ID = uuid.New().String()
	if docset.BuiltAt.IsZero() {
		docset.BuiltAt = time.Now().UTC()
	}

	// Entries cascade with the old record.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM docsets WHERE slug = ?", docset.Slug); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO docsets (id, slug, title, version, path, pages, built_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, docset.ID, docset.Slug, docset.Title, docset.Version, docset.Path, docset.Pages,
		docset.BuiltAt.Format(time.RFC3339))

	return err
}

// FindDocsetByID retrieves a docset by ID.
func (s *DocsetService) FindDocsetByID(ctx context.Context, id string) (*docpack.Docset, error) {
	var docset docpack.Docset
	var builtAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, title, version, path, pages, built_at
		FROM docsets
		WHERE id = ?
	`, id).Scan(&docset.ID, &docset.Slug, &docset.Title, &docset.Version, &docset.Path,
		&docset.Pages, &builtAt)

	if err == sql.ErrNoRows {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "docset not found")
	}
	if err != nil {
		return nil, err
	}

	docset.BuiltAt, err = parseRFC3339(builtAt, "built_at")
	if err != nil {
		return nil, err
	}

	return &docset, nil
}

// FindDocsets retrieves docsets matching the filter, newest first.
func (s *DocsetService) FindDocsets(ctx context.Context, filter docpack.DocsetFilter) ([]*docpack.Docset, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, slug, title, version, path, pages, built_at FROM docsets WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Slug != nil {
		query.WriteString(" AND slug = ?")
		args = append(args, *filter.Slug)
	}

	query.WriteString(" ORDER BY built_at DESC, slug ASC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docsets []*docpack.Docset
	for rows.Next() {
		var docset docpack.Docset
		var builtAt string

		if err := rows.Scan(&docset.ID, &docset.Slug, &docset.Title, &docset.Version,
			&docset.Path, &docset.Pages, &builtAt); err != nil {
			return nil, err
		}

		docset.BuiltAt, err = parseRFC3339(builtAt, "built_at")
		if err != nil {
			return nil, err
		}

		docsets = append(docsets, &docset)
	}

	return docsets, rows.Err()
}

// CreateEntries records sidebar entries for a built archive. The batch is
// inserted in a single transaction since a docset can carry thousands of
// entries.
func (s *DocsetService) CreateEntries(ctx context.Context, entries []*docpack.Entry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (docset_id, name, path, section, position)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, entry.DocsetID, entry.Name, entry.Path,
			entry.Section, entry.Position); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SearchEntries retrieves entries matching the filter, ordered by docset
// and sidebar position.
func (s *DocsetService) SearchEntries(ctx context.Context, filter docpack.EntryFilter) ([]*docpack.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT docset_id, name, path, section, position FROM entries WHERE 1=1")

	if filter.DocsetID != nil {
		query.WriteString(" AND docset_id = ?")
		args = append(args, *filter.DocsetID)
	}
	if filter.Match != "" {
		// LIKE is case insensitive for ASCII in SQLite.
		query.WriteString(" AND name LIKE ?")
		args = append(args, "%"+filter.Match+"%")
	}

	query.WriteString(" ORDER BY docset_id, position")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*docpack.Entry
	for rows.Next() {
		var entry docpack.Entry

		if err := rows.Scan(&entry.DocsetID, &entry.Name, &entry.Path,
			&entry.Section, &entry.Position); err != nil {
			return nil, err
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteDocset permanently removes a docset record and its entries.
func (s *DocsetService) DeleteDocset(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM docsets WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return docpack.Errorf(docpack.ENOTFOUND, "docset not found")
	}

	return nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
