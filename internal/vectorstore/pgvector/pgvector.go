// Package pgvector provides a PostgreSQL vector store backed by the
// pgvector extension. It uses pgx/v5 for connection pooling and JSONB for
// document metadata.
package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"verdict/internal/domain"
)

// Storage is a pgvector-backed vector store.
type Storage struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
}

type Config struct {
	DSN      string
	Table    string
	MaxConns int32
}

// Ensure Storage implements domain.VectorStore at compile time.
var _ domain.VectorStore = (*Storage)(nil)

// New creates a pgvector store and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.DSN == "" {
		return nil, errors.New("pgvector: missing DSN")
	}
	table := cfg.Table
	if table == "" {
		table = "verdict_documents"
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Storage{pool: pool, table: table}, nil
}

// Init ensures the pgvector extension and the document table exist with the
// given dimension. A dimension change drops and recreates the table.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	ctx := context.Background()
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enabling pgvector extension: %w", err)
	}
	if s.dimension != 0 && s.dimension != dimension {
		if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS "+s.table); err != nil {
			return fmt.Errorf("dropping table for re-init: %w", err)
		}
	}
	s.dimension = dimension
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        TEXT PRIMARY KEY,
			content   TEXT NOT NULL,
			metadata  JSONB,
			embedding vector(%d) NOT NULL
		)
	`, s.table, dimension))
	if err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}
	return nil
}

func (s *Storage) Upsert(docs []domain.Document, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	ctx := context.Background()
	batch := &pgx.Batch{}
	sql := fmt.Sprintf(`
		INSERT INTO %s (id, content, metadata, embedding)
		VALUES ($1, $2, $3, $4::vector)
		ON CONFLICT (id) DO UPDATE
		SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding
	`, s.table)
	for i := range docs {
		meta, err := json.Marshal(docs[i].Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		batch.Queue(sql, docs[i].ID, docs[i].Content, meta, vectorLiteral(vectors[i]))
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range docs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upserting document: %w", err)
		}
	}
	return nil
}

func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	ctx := context.Background()
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1::vector) AS score
		FROM %s
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`, s.table), vectorLiteral(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			doc   domain.Document
			meta  []byte
			score float64
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &meta, &score); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}
		results = append(results, domain.SearchResult{Document: doc, Score: score})
	}
	return results, rows.Err()
}

func (s *Storage) Clear() error {
	_, err := s.pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+s.table)
	return err
}

// Close releases the connection pool.
func (s *Storage) Close() { s.pool.Close() }

// vectorLiteral renders a pgvector input literal, e.g. "[0.1,0.2]".
func vectorLiteral(vec []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
