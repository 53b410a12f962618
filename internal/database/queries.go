package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/liturgical-calendar/internal/refdata"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// Document Queries
// =============================================================================

// GetDocument retrieves one document. Returns ErrNotFound if it doesn't exist.
func (db *DB) GetDocument(ctx context.Context, kind refdata.Kind, id string) (*Document, error) {
	query := `
		SELECT kind, id, body, checksum, created_at, updated_at
		FROM documents
		WHERE kind = ? AND id = ?
	`

	var doc Document
	var body string
	var createdAt, updatedAt sql.NullString
	err := db.QueryRowContext(ctx, query, string(kind), id).Scan(
		&doc.Kind, &doc.ID, &body, &doc.Checksum, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query document %s/%s: %w", kind, id, err)
	}

	doc.Body = []byte(body)
	doc.CreatedAt = parseTimestamp(createdAt)
	doc.UpdatedAt = parseTimestamp(updatedAt)
	return &doc, nil
}

// ListDocumentIDs returns the ids of every document of a kind, sorted.
func (db *DB) ListDocumentIDs(ctx context.Context, kind refdata.Kind) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT id FROM documents WHERE kind = ? ORDER BY id", string(kind))
	if err != nil {
		return nil, fmt.Errorf("query document ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document ids: %w", err)
	}
	return ids, nil
}

// CountDocuments returns the number of stored documents per kind.
func (db *DB) CountDocuments(ctx context.Context) (map[refdata.Kind]int, error) {
	rows, err := db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM documents GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[refdata.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan document count: %w", err)
		}
		counts[refdata.Kind(kind)] = n
	}
	return counts, rows.Err()
}

// upsertDocument writes body under (kind, id) and reports whether the row
// was inserted, updated or left unchanged.
func upsertDocument(ctx context.Context, tx *sql.Tx, kind refdata.Kind, id string, body []byte) (string, error) {
	sum := checksum(body)

	var existing string
	err := tx.QueryRowContext(ctx, "SELECT checksum FROM documents WHERE kind = ? AND id = ?", string(kind), id).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO documents (kind, id, body, checksum) VALUES (?, ?, ?, ?)",
			string(kind), id, string(body), sum,
		)
		if err != nil {
			return "", fmt.Errorf("insert document %s/%s: %w", kind, id, err)
		}
		return "inserted", nil
	case err != nil:
		return "", fmt.Errorf("query document %s/%s: %w", kind, id, err)
	case existing == sum:
		return "unchanged", nil
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE documents SET body = ?, checksum = ?, updated_at = datetime('now') WHERE kind = ? AND id = ?",
		string(body), sum, string(kind), id,
	)
	if err != nil {
		return "", fmt.Errorf("update document %s/%s: %w", kind, id, err)
	}
	return "updated", nil
}

// =============================================================================
// refdata.Source
// =============================================================================

// Document implements refdata.Source.
func (db *DB) Document(ctx context.Context, kind refdata.Kind, id string) ([]byte, error) {
	doc, err := db.GetDocument(ctx, kind, id)
	if IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s/%s", refdata.ErrMissingDocument, kind, id)
	}
	if err != nil {
		return nil, err
	}
	return doc.Body, nil
}

// List implements refdata.Source.
func (db *DB) List(ctx context.Context, kind refdata.Kind) ([]string, error) {
	return db.ListDocumentIDs(ctx, kind)
}

// =============================================================================
// Import
// =============================================================================

// Import copies every document of src into the database in one
// transaction. The documents are loaded as a catalog first, so a set that
// the engine could not resolve is rejected before anything is written.
// Stored documents that src no longer has are removed.
func (db *DB) Import(ctx context.Context, src refdata.Source, origin string) (*ImportRun, error) {
	if _, err := refdata.Load(ctx, src); err != nil {
		return nil, fmt.Errorf("validate %s: %w", origin, err)
	}

	run := &ImportRun{Origin: origin}
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, kind := range refdata.Kinds {
			ids, err := src.List(ctx, kind)
			if err != nil {
				return err
			}

			keep := make(map[string]bool, len(ids))
			for _, id := range ids {
				body, err := src.Document(ctx, kind, id)
				if err != nil {
					return err
				}
				outcome, err := upsertDocument(ctx, tx, kind, id, body)
				if err != nil {
					return err
				}
				switch outcome {
				case "inserted":
					run.Inserted++
				case "updated":
					run.Updated++
				default:
					run.Unchanged++
				}
				keep[id] = true
			}

			removed, err := removeStale(ctx, tx, kind, keep)
			if err != nil {
				return err
			}
			run.Removed += removed
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO imports (origin, inserted, updated, unchanged, removed) VALUES (?, ?, ?, ?, ?)",
			run.Origin, run.Inserted, run.Updated, run.Unchanged, run.Removed,
		)
		if err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		run.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, err
	}

	db.logger.Info("reference data imported",
		slog.String("origin", origin),
		slog.Int("inserted", run.Inserted),
		slog.Int("updated", run.Updated),
		slog.Int("unchanged", run.Unchanged),
		slog.Int("removed", run.Removed),
	)
	return run, nil
}

func removeStale(ctx context.Context, tx *sql.Tx, kind refdata.Kind, keep map[string]bool) (int, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM documents WHERE kind = ?", string(kind))
	if err != nil {
		return 0, fmt.Errorf("query stored %s documents: %w", kind, err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE kind = ? AND id = ?", string(kind), id); err != nil {
			return 0, fmt.Errorf("delete document %s/%s: %w", kind, id, err)
		}
	}
	return len(stale), nil
}

// RecentImports returns the latest import runs, newest first.
func (db *DB) RecentImports(ctx context.Context, limit int) ([]ImportRun, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, origin, inserted, updated, unchanged, removed, imported_at
		FROM imports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		var importedAt sql.NullString
		if err := rows.Scan(&r.ID, &r.Origin, &r.Inserted, &r.Updated, &r.Unchanged, &r.Removed, &importedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		r.ImportedAt = parseTimestamp(importedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
