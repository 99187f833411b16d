// Package catalog persists the image path to label mapping in a SQLite
// database that lives next to the images.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"grid-labeler/internal/logger"

	_ "modernc.org/sqlite"
)

const (
	// DatabaseName is the file created inside the labeled directory.
	DatabaseName = "images.db"

	// Unlabeled is the label given to every newly discovered image.
	Unlabeled = "unlabeled"

	component = "Catalog"
)

const createTable = `CREATE TABLE IF NOT EXISTS images (path TEXT UNIQUE, label TEXT)`

// ErrNoTable reports a query against a database that was never initialized.
var ErrNoTable = errors.New("images table does not exist")

var imageExtensions = []string{".jpg", ".png", ".jpeg"}

// Record is one row of the images table.
type Record struct {
	Path  string `yaml:"path" parquet:"path"`
	Label string `yaml:"label" parquet:"label"`
}

// LabelCount is one row of the label summary.
type LabelCount struct {
	Label string
	Count int
}

// Store owns the database connection.
type Store struct {
	db     *sql.DB
	path   string
	logger logger.Logger
}

// Open connects to images.db inside directory. The table is created by
// Initialize, not here, so a fresh database reports ErrNoTable until then.
func Open(directory string, log logger.Logger) (*Store, error) {
	dbPath := filepath.Join(directory, DatabaseName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	// One connection keeps transactions and plain queries on the same file handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", dbPath, err)
	}

	return &Store{db: db, path: dbPath, logger: log}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the table and inserts every image found under
// directory with the Unlabeled label. Existing rows are left untouched.
// It returns the number of rows added.
func (s *Store) Initialize(ctx context.Context, directory string) (int, error) {
	s.logger.Info(component, "initializing database of images", map[string]interface{}{
		"directory": directory,
	})

	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return 0, fmt.Errorf("create images table: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin initialize: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO images(path, label) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	err = filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(d.Name()) {
			return nil
		}

		path, err = catalogPath(directory, path)
		if err != nil {
			return err
		}
		res, err := stmt.ExecContext(ctx, path, Unlabeled)
		if err != nil {
			return fmt.Errorf("insert %s: %w", path, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", directory, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit initialize: %w", err)
	}

	s.logger.Info(component, "ready to label images", map[string]interface{}{
		"inserted": inserted,
	})
	return inserted, nil
}

// catalogPath keys a walked file by directory exactly as given, followed
// by a separator and the path below it. Scanning "." stores "./a.jpg",
// which keeps databases written by earlier versions of the tool valid.
func catalogPath(directory, walked string) (string, error) {
	rel, err := filepath.Rel(directory, walked)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", walked, err)
	}
	if strings.HasSuffix(directory, string(filepath.Separator)) {
		return directory + rel, nil
	}
	return directory + string(filepath.Separator) + rel, nil
}

// IsImageFile reports whether name carries one of the scanned extensions.
// Matching is case-sensitive.
func IsImageFile(name string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// UnlabeledPaths returns every path still waiting for a label. A missing
// table triggers one Initialize of directory followed by a retry.
func (s *Store) UnlabeledPaths(ctx context.Context, directory string) ([]string, error) {
	paths, err := s.queryUnlabeled(ctx)
	if errors.Is(err, ErrNoTable) {
		s.logger.Warning(component, "images table missing, initializing", nil)
		if _, err := s.Initialize(ctx, directory); err != nil {
			return nil, err
		}
		paths, err = s.queryUnlabeled(ctx)
	}
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Store) queryUnlabeled(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM images WHERE label = '' OR label = ? ORDER BY rowid", Unlabeled)
	if err != nil {
		return nil, classify(err, "query unlabeled")
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan unlabeled row: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate unlabeled")
	}
	return paths, nil
}

// Label returns the stored label for path.
func (s *Store) Label(ctx context.Context, path string) (string, error) {
	var label sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT label FROM images WHERE path = ?", path).Scan(&label)
	if err != nil {
		return "", classify(err, "query label")
	}
	return label.String, nil
}

// Records returns every row in insertion order.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, label FROM images ORDER BY rowid")
	if err != nil {
		return nil, classify(err, "query records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var label sql.NullString
		if err := rows.Scan(&r.Path, &label); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Label = label.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate records")
	}
	return records, nil
}

// Summary counts rows per label.
func (s *Store) Summary(ctx context.Context) ([]LabelCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT COALESCE(label, '') AS l, COUNT(*) FROM images GROUP BY l ORDER BY l")
	if err != nil {
		return nil, classify(err, "query summary")
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var c LabelCount
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate summary")
	}
	return counts, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Shutdown closes the store for the shutdown manager.
func (s *Store) Shutdown() {
	if err := s.Close(); err != nil {
		s.logger.Error(component, "failed to close database", err, map[string]interface{}{"path": s.path})
		return
	}
	s.logger.Debug(component, "database closed", map[string]interface{}{"path": s.path})
}

func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", op, ErrNoTable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
