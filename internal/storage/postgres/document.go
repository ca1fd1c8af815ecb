package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// ErrDocumentNotFound is returned when a document lookup yields no results.
var ErrDocumentNotFound = errors.New("document not found")

// StoredDocument is a dungeon document with its persistence metadata.
type StoredDocument struct {
	ID        uuid.UUID
	Name      string
	Document  *dungeon.Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentSummary is one row of a document listing.
type DocumentSummary struct {
	ID        uuid.UUID
	Name      string
	Levels    int
	UpdatedAt time.Time
}

// DocumentRepository persists dungeon documents as JSONB.
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a DocumentRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Save inserts doc, or replaces the stored copy when id already exists.
// A nil id allocates a new one.
//
// Precondition: doc must be non-nil.
// Postcondition: Returns the stored row with timestamps set.
func (r *DocumentRepository) Save(ctx context.Context, id uuid.UUID, doc *dungeon.Document) (StoredDocument, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	data, err := dungeon.Encode(doc)
	if err != nil {
		return StoredDocument{}, err
	}

	out := StoredDocument{ID: id, Name: doc.Name}
	err = r.db.QueryRow(ctx, `
		INSERT INTO documents (id, name, document)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, document = EXCLUDED.document, updated_at = NOW()
		RETURNING created_at, updated_at`,
		id.String(), doc.Name, data,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("saving document %s: %w", id, err)
	}
	out.Document, err = dungeon.Decode(data)
	if err != nil {
		return StoredDocument{}, err
	}
	return out, nil
}

// Get loads the document with id.
//
// Postcondition: Returns ErrDocumentNotFound if no row matches.
func (r *DocumentRepository) Get(ctx context.Context, id uuid.UUID) (StoredDocument, error) {
	var (
		out  StoredDocument
		data []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT name, document, created_at, updated_at
		FROM documents WHERE id = $1`,
		id.String(),
	).Scan(&out.Name, &data, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoredDocument{}, ErrDocumentNotFound
		}
		return StoredDocument{}, fmt.Errorf("querying document %s: %w", id, err)
	}
	out.ID = id
	out.Document, err = dungeon.Decode(data)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return out, nil
}

// List returns every stored document, most recently updated first.
func (r *DocumentRepository) List(ctx context.Context) ([]DocumentSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, jsonb_array_length(document->'levels'), updated_at
		FROM documents ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentSummary
	for rows.Next() {
		var (
			s  DocumentSummary
			id string
		)
		if err := rows.Scan(&id, &s.Name, &s.Levels, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing document id %q: %w", id, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return out, nil
}

// Delete removes the document with id.
//
// Postcondition: Returns ErrDocumentNotFound if no row matched.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
