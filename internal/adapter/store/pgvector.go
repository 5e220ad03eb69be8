package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/openkb/knowledge-agent/internal/domain"
	"github.com/openkb/knowledge-agent/internal/port"
)

// PgVectorIndex implements port.VectorIndex on Postgres with the
// pgvector extension. Cosine similarity is computed as 1 - (a <=> b).
type PgVectorIndex struct {
	db    *sql.DB
	table string
}

// NewPgVectorIndex opens a connection pool and returns the index. The
// table name doubles as the collection name.
func NewPgVectorIndex(databaseURL, table string) (*PgVectorIndex, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PgVectorIndex{db: db, table: table}, nil
}

// Close closes the connection pool.
func (v *PgVectorIndex) Close() error {
	return v.db.Close()
}

// EnsureCollection creates the chunk table if missing and verifies
// that an existing table was declared with the same dimensionality.
func (v *PgVectorIndex) EnsureCollection(ctx context.Context, dimension int) error {
	if _, err := v.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id uuid PRIMARY KEY,
		document_id text NOT NULL,
		chunk_index int NOT NULL,
		content text NOT NULL,
		page int NOT NULL DEFAULT 0,
		vector vector(%d) NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`, v.table, dimension)
	if _, err := v.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	// pgvector stores the declared dimension in atttypmod.
	var declared int
	err := v.db.QueryRowContext(ctx,
		`SELECT atttypmod FROM pg_attribute WHERE attrelid = $1::regclass AND attname = 'vector'`,
		v.table,
	).Scan(&declared)
	if err != nil {
		return fmt.Errorf("inspect vector column: %w", err)
	}
	if declared != dimension {
		return fmt.Errorf("%w: table %q declares dimension %d, configured %d",
			port.ErrDimensionMismatch, v.table, declared, dimension)
	}
	return nil
}

// Upsert writes points in one transaction, overwriting rows that share
// an ID.
func (v *PgVectorIndex) Upsert(ctx context.Context, points []domain.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, document_id, chunk_index, content, page, vector)
		 VALUES ($1, $2, $3, $4, $5, $6::vector)
		 ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			chunk_index = EXCLUDED.chunk_index,
			content = EXCLUDED.content,
			page = EXCLUDED.page,
			vector = EXCLUDED.vector`, v.table))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Payload.DocumentID, p.Payload.ChunkIndex, p.Payload.Content, p.Payload.Page,
			vectorToString(p.Vector),
		); err != nil {
			return fmt.Errorf("insert point: %w", err)
		}
	}

	return tx.Commit()
}

// Search performs a cosine similarity search over the chunk table.
func (v *PgVectorIndex) Search(ctx context.Context, vector []float32, topK int) ([]domain.RetrievedNeighbor, error) {
	query := fmt.Sprintf(
		`SELECT document_id, chunk_index, content, page,
		        1 - (vector <=> $1::vector) AS similarity
		 FROM %s
		 ORDER BY vector <=> $1::vector
		 LIMIT $2`, v.table)

	rows, err := v.db.QueryContext(ctx, query, vectorToString(vector), topK)
	if err != nil {
		// 42P01 undefined_table: nothing has been ingested yet.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
			return nil, nil
		}
		return nil, fmt.Errorf("search similar: %w", err)
	}
	defer rows.Close()

	var neighbors []domain.RetrievedNeighbor
	for rows.Next() {
		var n domain.RetrievedNeighbor
		if err := rows.Scan(
			&n.Payload.DocumentID, &n.Payload.ChunkIndex, &n.Payload.Content, &n.Payload.Page,
			&n.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scan neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}

// DeleteByDocument deletes all chunks of a document.
func (v *PgVectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, v.table)
	_, err := v.db.ExecContext(ctx, query, documentID)
	return err
}

// Ping checks database reachability.
func (v *PgVectorIndex) Ping(ctx context.Context) error {
	return v.db.PingContext(ctx)
}

// vectorToString converts a float32 slice to pgvector literal format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
