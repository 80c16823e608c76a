package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"taskline/internal/task"
)

// Store persists a task list in a SQLite file.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	kind TEXT NOT NULL DEFAULT 'todo',
	name TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	date TEXT DEFAULT NULL,
	created_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns upgrades databases created before a column existed.
func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"kind": "ALTER TABLE tasks ADD COLUMN kind TEXT NOT NULL DEFAULT 'todo';",
		"date": "ALTER TABLE tasks ADD COLUMN date TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the saved tasks in list order.
func (s *Store) Load(ctx context.Context) (*task.List, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, name, done, date, created_at FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	list := task.NewList()
	for rows.Next() {
		var t task.Task
		var kind, createdStr string
		var doneInt int
		var dateStr sql.NullString

		if err := rows.Scan(&t.ID, &kind, &t.Name, &doneInt, &dateStr, &createdStr); err != nil {
			return nil, fmt.Errorf("load tasks: %w", err)
		}
		t.Kind = task.Kind(kind)
		t.Done = doneInt == 1
		if dateStr.Valid {
			d, err := task.ParseDate(dateStr.String)
			if err != nil {
				return nil, fmt.Errorf("load task %s: %w", t.ID, err)
			}
			t.Date = d
		}
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			t.CreatedAt = created
		}
		list.Add(&t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return list, nil
}

// Save replaces the stored tasks with the contents of list.
func (s *Store) Save(ctx context.Context, list *task.List) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks;`); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (id, position, kind, name, done, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	defer stmt.Close()

	pos := 0
	for t := range list.All() {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		done := 0
		if t.Done {
			done = 1
		}
		dateStr := sql.NullString{}
		if !t.Date.IsZero() {
			dateStr = sql.NullString{String: t.Date.Format(task.DateLayout), Valid: true}
		}
		created := t.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, t.ID, pos, string(t.Kind), t.Name, done, dateStr, created.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("save task %q: %w", t.Name, err)
		}
		pos++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
