package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"bugtracker/internal/models"
	"bugtracker/internal/storage"
)

// Store keeps bug records in a SQLite database. It is the zero-dependency
// backend for local runs and tests; production deployments normally use the
// mongo backend instead.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes the SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer; one connection serializes access.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bugs (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'open',
            priority TEXT NOT NULL DEFAULT 'medium',
            assigned_to TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_bugs_created ON bugs(created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// newID generates a ULID so identifiers stay opaque strings, matching the
// mongo backend's hex object ids at the API boundary.
func newID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// ListBugs retrieves all bugs in insertion order.
func (s *Store) ListBugs(ctx context.Context) ([]models.Bug, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, status, priority, assigned_to, created_at
        FROM bugs ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bugs: %w", err)
	}
	defer rows.Close()

	var bugs []models.Bug
	for rows.Next() {
		var b models.Bug
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Status, &b.Priority, &b.AssignedTo, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bug: %w", err)
		}
		bugs = append(bugs, b)
	}
	return bugs, rows.Err()
}

// CreateBug persists a new bug, assigning its id and creation time.
func (s *Store) CreateBug(ctx context.Context, b models.Bug) (models.Bug, error) {
	b.ID = newID()
	b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if !b.Status.Valid() {
		b.Status = models.DefaultStatus
	}
	if !b.Priority.Valid() {
		b.Priority = models.DefaultPriority
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO bugs(id, title, description, status, priority, assigned_to, created_at)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		b.ID, strings.TrimSpace(b.Title), strings.TrimSpace(b.Description), b.Status, b.Priority, strings.TrimSpace(b.AssignedTo), b.CreatedAt)
	if err != nil {
		return models.Bug{}, fmt.Errorf("insert bug: %w", err)
	}
	return s.GetBug(ctx, b.ID)
}

// GetBug fetches a single bug by id.
func (s *Store) GetBug(ctx context.Context, id string) (models.Bug, error) {
	var b models.Bug
	err := s.db.QueryRowContext(ctx, `SELECT id, title, description, status, priority, assigned_to, created_at
        FROM bugs WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &b.Description, &b.Status, &b.Priority, &b.AssignedTo, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bug{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Bug{}, fmt.Errorf("get bug: %w", err)
	}
	return b, nil
}

// UpdateBug applies the supplied subset of fields and returns the post-update
// record.
func (s *Store) UpdateBug(ctx context.Context, id string, changes storage.BugChanges) (models.Bug, error) {
	current, err := s.GetBug(ctx, id)
	if err != nil {
		return models.Bug{}, err
	}

	if v := changes.Title; v != nil && strings.TrimSpace(*v) != "" {
		current.Title = strings.TrimSpace(*v)
	}
	if v := changes.Description; v != nil && strings.TrimSpace(*v) != "" {
		current.Description = strings.TrimSpace(*v)
	}
	if v := changes.Status; v != nil && v.Valid() {
		current.Status = *v
	}
	if v := changes.Priority; v != nil && v.Valid() {
		current.Priority = *v
	}
	if v := changes.AssignedTo; v != nil {
		current.AssignedTo = strings.TrimSpace(*v)
	}

	_, err = s.db.ExecContext(ctx, `UPDATE bugs SET title = ?, description = ?, status = ?, priority = ?, assigned_to = ? WHERE id = ?`,
		current.Title, current.Description, current.Status, current.Priority, current.AssignedTo, id)
	if err != nil {
		return models.Bug{}, fmt.Errorf("update bug: %w", err)
	}
	return s.GetBug(ctx, id)
}

// DeleteBug removes a bug by id.
func (s *Store) DeleteBug(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bugs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bug: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
