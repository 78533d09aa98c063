package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"popup-designer/internal/designer/models"
)

//go:embed schema.sql
var schema string

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Summary describes a stored design without its snapshot.
type Summary struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Mechanism models.MechanismKind `json:"mechanism"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Init applies the schema.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Save inserts or replaces the snapshot stored under id.
func (r *Repository) Save(ctx context.Context, id string, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	now := r.now().UTC().Format(time.RFC3339Nano)

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO designs (id, name, mechanism, snapshot, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            mechanism = excluded.mechanism,
            snapshot = excluded.snapshot,
            updated_at = excluded.updated_at
    `, id, snap.ProjectName, string(snap.Mechanism), string(data), now, now)
	if err != nil {
		return fmt.Errorf("save design %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context, id string) (models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT snapshot FROM designs WHERE id = ?`, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snapshot{}, fmt.Errorf("design %s: %w", id, models.ErrNotFound)
		}
		return models.Snapshot{}, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode design %s: %w", id, err)
	}
	return snap, nil
}

// List returns stored designs, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, mechanism, created_at, updated_at
        FROM designs
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		var mechanism, created, updated string
		if err := rows.Scan(&s.ID, &s.Name, &mechanism, &created, &updated); err != nil {
			return nil, err
		}
		s.Mechanism = models.MechanismKind(mechanism)
		s.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("design %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// OpenSQLite opens (and creates) the database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
