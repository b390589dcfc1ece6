// Package sqlite implements the repository interfaces on top of SQLite.
//
// It is the default backend: an embedded, pure-Go database
// (modernc.org/sqlite, no CGo) that needs no separate server and runs
// in-memory for tests with dbPath ":memory:".
//
// REFERENCES WITHOUT FOREIGN-KEY CONSTRAINTS:
// blogs.topic_id and comments.blog_id are plain indexed columns. The parent
// check happens inside the INSERT/UPDATE statement itself
// (... WHERE EXISTS (SELECT 1 FROM topics WHERE id = ?)), so a write with an
// unknown parent changes no rows, while deleting a parent is never blocked
// and never cascades. A REFERENCES clause could not express that: SQLite's
// NO ACTION rejects the parent delete.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/repository"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out the per-resource
// repositories that share it.
type DB struct {
	conn *sql.DB

	topics   *TopicRepo
	blogs    *BlogRepo
	comments *CommentRepo
}

// New opens the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/blog.db" → file-based database (persistent)
//   - ":memory:"     → in-memory database, lost on close
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every new connection to ":memory:" is a separate, empty database.
	// Pin the pool to one connection so all requests see the same tables.
	if dbPath == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	db.topics = &TopicRepo{conn: conn}
	db.blogs = &BlogRepo{conn: conn}
	db.comments = &CommentRepo{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Topics() repository.TopicRepository     { return db.topics }
func (db *DB) Blogs() repository.BlogRepository       { return db.blogs }
func (db *DB) Comments() repository.CommentRepository { return db.comments }

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS topics (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_topics_name ON topics(name);
	`)
	if err != nil {
		return fmt.Errorf("creating topics table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS blogs (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			body     TEXT NOT NULL,
			author   TEXT NOT NULL,
			tags     TEXT NOT NULL DEFAULT '[]',
			topic_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_blogs_topic_id ON blogs(topic_id);
		CREATE INDEX IF NOT EXISTS idx_blogs_name ON blogs(name);
	`)
	if err != nil {
		return fmt.Errorf("creating blogs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id        TEXT PRIMARY KEY,
			body      TEXT NOT NULL,
			commenter TEXT NOT NULL,
			blog_id   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_comments_blog_id ON comments(blog_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// exists reports whether table has a row with the given id. table is
// always a constant from this package, never user input.
func exists(ctx context.Context, conn *sql.DB, table string, id uuid.UUID) (bool, error) {
	var n int
	err := conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, table), id,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
