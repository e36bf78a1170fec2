package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vanderheijden86/checktree/pkg/checktree"
	"github.com/vanderheijden86/checktree/pkg/model"

	_ "modernc.org/sqlite"
)

// SchemaVersion is stored in the meta table of every snapshot.
const SchemaVersion = 1

var schema = []string{
	`CREATE TABLE nodes (
		value TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		parent TEXT NOT NULL,
		depth INTEGER NOT NULL,
		position INTEGER NOT NULL,
		is_leaf INTEGER NOT NULL,
		disabled INTEGER NOT NULL,
		checked INTEGER NOT NULL,
		half_checked INTEGER NOT NULL,
		expanded INTEGER NOT NULL,
		loading INTEGER NOT NULL,
		check_state INTEGER NOT NULL
	)`,
	`CREATE INDEX idx_nodes_parent ON nodes(parent)`,
	`CREATE TABLE lists (
		list TEXT NOT NULL,
		position INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (list, position)
	)`,
	`CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// SQLiteExporter writes a snapshot of a tree to a SQLite database.
type SQLiteExporter struct {
	Tree *checktree.Tree
	// Now stamps the snapshot; defaults to time.Now.
	Now func() time.Time
}

// NewSQLiteExporter creates an exporter for tree.
func NewSQLiteExporter(tree *checktree.Tree) *SQLiteExporter {
	return &SQLiteExporter{Tree: tree, Now: time.Now}
}

// Export replaces the database at path with a fresh snapshot.
func (e *SQLiteExporter) Export(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if err := e.insertNodes(ctx, tx); err != nil {
		return fmt.Errorf("insert nodes: %w", err)
	}
	if err := e.insertLists(ctx, tx); err != nil {
		return fmt.Errorf("insert lists: %w", err)
	}
	if err := e.insertMeta(ctx, tx); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return db.Close()
}

func (e *SQLiteExporter) insertNodes(ctx context.Context, tx *sql.Tx) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (value, label, parent, depth, position, is_leaf, disabled,
			checked, half_checked, expanded, loading, check_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range e.Tree.Records() {
		_, err := stmt.ExecContext(ctx,
			rec.Value,
			rec.Label,
			rec.Parent,
			rec.Depth,
			i,
			rec.IsLeaf(),
			rec.Disabled,
			rec.Checked,
			rec.HalfChecked,
			rec.Expanded,
			rec.Loading,
			int(e.Tree.CheckState(rec.Value)),
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", rec.Value, err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertLists(ctx context.Context, tx *sql.Tx) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO lists (list, position, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, values := range e.Tree.Lists().ByName() {
		for i, v := range values {
			if _, err := stmt.ExecContext(ctx, string(name), i, v); err != nil {
				return fmt.Errorf("insert %s[%d]: %w", name, i, err)
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertMeta(ctx context.Context, tx *sql.Tx) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"exported_at":    now().UTC().Format(time.RFC3339),
		"node_count":     strconv.Itoa(len(e.Tree.Records())),
		"no_cascade":     strconv.FormatBool(e.Tree.Options().NoCascade),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}
	return nil
}

// ReadCheckedList reads the checked list back from a snapshot, in store
// order.
func ReadCheckedList(ctx context.Context, path string) ([]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT value FROM lists WHERE list = ? ORDER BY position`, string(model.ListChecked))
	if err != nil {
		return nil, fmt.Errorf("query checked list: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
