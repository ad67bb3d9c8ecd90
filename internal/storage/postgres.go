package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/bdougie/pagecap/internal/models"
)

// ThumbDims is the length of the page thumbnail vectors stored in the catalog
const ThumbDims = 64

// ErrNoBook is returned when writing through a search-only connection
var ErrNoBook = errors.New("catalog connection has no book")

// PostgresStorage manages the page catalog in PostgreSQL
type PostgresStorage struct {
	pool     *pgxpool.Pool
	bookID   int
	bookName string
}

// NewPostgresStorage connects to the catalog and registers the book.
// An empty bookName opens a search-only connection.
func NewPostgresStorage(ctx context.Context, connString, bookName string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &PostgresStorage{
		pool:     pool,
		bookName: bookName,
	}

	if bookName == "" {
		return storage, nil
	}

	bookID, err := storage.getOrCreateBook(ctx, bookName)
	if err != nil {
		pool.Close()
		return nil, err
	}
	storage.bookID = bookID

	return storage, nil
}

// Close closes the database connection
func (s *PostgresStorage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStorage) getOrCreateBook(ctx context.Context, name string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM books WHERE name = $1",
		name).Scan(&id)

	if err == nil {
		return id, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("error checking for existing book: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		"INSERT INTO books (name, created_at) VALUES ($1, $2) RETURNING id",
		name, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create book entry: %w", err)
	}

	return id, nil
}

// AddPage records a captured page and its thumbnail vector. Re-capturing a book replaces its rows.
func (s *PostgresStorage) AddPage(ctx context.Context, page models.Page, thumb []float32) error {
	if s.bookID == 0 {
		return ErrNoBook
	}
	var vec any
	if len(thumb) == ThumbDims {
		vec = pgvector.NewVector(thumb)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO pages
        (book_id, page_number, page_path, digest, thumb, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (book_id, page_number) DO UPDATE
        SET page_path = EXCLUDED.page_path,
            digest = EXCLUDED.digest,
            thumb = COALESCE(EXCLUDED.thumb, pages.thumb)`,
		s.bookID, page.Number, page.Path, page.Digest, vec, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store page %d: %w", page.Number, err)
	}
	return nil
}

// AddResult stores a page analysis
func (s *PostgresStorage) AddResult(ctx context.Context, result models.AnalysisResult) error {
	if s.bookID == 0 {
		return ErrNoBook
	}
	var pageNum int
	if _, err := fmt.Sscanf(filepath.Base(result.Page), "%d.png", &pageNum); err != nil {
		return fmt.Errorf("invalid page filename format: %s", result.Page)
	}

	path := result.Path
	if path == "" {
		path = result.Page
	}

	// keep an existing page row as is, create a bare one otherwise
	var pageID int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pages
        (book_id, page_number, page_path, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (book_id, page_number) DO UPDATE
        SET page_number = EXCLUDED.page_number
        RETURNING id`,
		s.bookID, pageNum, path, time.Now()).Scan(&pageID)
	if err != nil {
		return fmt.Errorf("failed to find page %d: %w", pageNum, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses
        (page_id, content, created_at)
        VALUES ($1, $2, $3)`,
		pageID, result.Content, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	return nil
}

// PruneAfter drops the book's pages numbered above last, along with their
// analyses, so a shorter re-capture leaves no stale rows behind
func (s *PostgresStorage) PruneAfter(ctx context.Context, last int) (int64, error) {
	if s.bookID == 0 {
		return 0, ErrNoBook
	}
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM pages WHERE book_id = $1 AND page_number > $2",
		s.bookID, last)
	if err != nil {
		return 0, fmt.Errorf("failed to prune pages after %d: %w", last, err)
	}
	return tag.RowsAffected(), nil
}

// PageCount returns how many pages the book has in the catalog
func (s *PostgresStorage) PageCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM pages WHERE book_id = $1", s.bookID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// PagePath returns the stored path of one page
func (s *PostgresStorage) PagePath(ctx context.Context, number int) (string, error) {
	var path string
	err := s.pool.QueryRow(ctx,
		"SELECT page_path FROM pages WHERE book_id = $1 AND page_number = $2",
		s.bookID, number).Scan(&path)
	if err != nil {
		return "", fmt.Errorf("failed to read page %d: %w", number, err)
	}
	return path, nil
}

// Flush implements the Storage interface - no-op for Postgres as we save immediately
func (s *PostgresStorage) Flush() error {
	return nil
}

// SearchSimilarPages finds catalog pages whose thumbnail is closest to thumb
func (s *PostgresStorage) SearchSimilarPages(ctx context.Context, thumb []float32, limit int) ([]models.PageSearchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT b.name, p.page_number, p.page_path,
        1 - (p.thumb <=> $1) AS similarity
        FROM pages p
        JOIN books b ON p.book_id = b.id
        WHERE p.thumb IS NOT NULL
        ORDER BY p.thumb <=> $1
        LIMIT $2`,
		pgvector.NewVector(thumb), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar pages: %w", err)
	}
	defer rows.Close()

	var results []models.PageSearchResult
	for rows.Next() {
		var result models.PageSearchResult
		if err := rows.Scan(&result.Book, &result.PageNumber, &result.PagePath, &result.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan search results: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// InitSchema creates the database schema if it doesn't exist
func InitSchema(ctx context.Context, connString string) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	_, err = conn.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS books (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            UNIQUE(name)
        );

        CREATE TABLE IF NOT EXISTS pages (
            id SERIAL PRIMARY KEY,
            book_id INTEGER REFERENCES books(id) ON DELETE CASCADE,
            page_number INTEGER NOT NULL,
            page_path TEXT NOT NULL,
            digest VARCHAR(32) NOT NULL DEFAULT '',
            thumb vector(%d),
            created_at TIMESTAMPTZ NOT NULL,
            UNIQUE(book_id, page_number)
        );

        CREATE TABLE IF NOT EXISTS analyses (
            id SERIAL PRIMARY KEY,
            page_id INTEGER REFERENCES pages(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        );
    `, ThumbDims))
	if err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}

	_, err = conn.Exec(ctx, `
        CREATE INDEX IF NOT EXISTS idx_pages_book_id ON pages(book_id);
        CREATE INDEX IF NOT EXISTS idx_analyses_page_id ON analyses(page_id);
    `)
	if err != nil {
		return fmt.Errorf("failed to create database indexes: %w", err)
	}

	return nil
}
