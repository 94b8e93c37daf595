// Package store persists roof records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PanelPlan/internal/model"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("roof record not found")

const schema = `
CREATE TABLE IF NOT EXISTS roofs (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    name              TEXT    NOT NULL,
    panel_type        TEXT    NOT NULL,
    tilt_angle        REAL    NOT NULL,
    orientation_angle REAL    NOT NULL,
    panel_count       INTEGER NOT NULL,
    path              TEXT    NOT NULL,
    exclusion_zones   TEXT    NOT NULL,
    saved_at          TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS roofs_name ON roofs(name);
`

// StoredRoof is a record together with its storage metadata.
type StoredRoof struct {
	ID      int64            `json:"id"`
	SavedAt time.Time        `json:"saved_at"`
	Record  model.RoofRecord `json:"record"`
}

// SQLiteStore keeps roof records in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens the database at dbPath, creating parent directories.
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

// Open opens the database file and applies the schema.
func Open(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Init creates the schema if it is missing.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts a record and returns its id.
func (s *SQLiteStore) Save(ctx context.Context, rec model.RoofRecord) (int64, error) {
	path, zones, err := encodeGeometry(rec)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO roofs (name, panel_type, tilt_angle, orientation_angle, panel_count, path, exclusion_zones, saved_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `,
		rec.Name, rec.PanelType, rec.TiltAngle, rec.OrientationAngle, rec.PanelCount,
		path, zones, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert roof: %w", err)
	}
	return res.LastInsertId()
}

// Update overwrites an existing record.
func (s *SQLiteStore) Update(ctx context.Context, id int64, rec model.RoofRecord) error {
	path, zones, err := encodeGeometry(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE roofs
        SET name = ?, panel_type = ?, tilt_angle = ?, orientation_angle = ?, panel_count = ?,
            path = ?, exclusion_zones = ?, saved_at = ?
        WHERE id = ?
    `,
		rec.Name, rec.PanelType, rec.TiltAngle, rec.OrientationAngle, rec.PanelCount,
		path, zones, s.now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("update roof %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (StoredRoof, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, panel_type, tilt_angle, orientation_angle, panel_count, path, exclusion_zones, saved_at
        FROM roofs
        WHERE id = ?
    `, id)

	r, err := scanRoof(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredRoof{}, fmt.Errorf("roof %d: %w", id, ErrNotFound)
		}
		return StoredRoof{}, err
	}
	return r, nil
}

// List returns every record ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]StoredRoof, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, panel_type, tilt_angle, orientation_angle, panel_count, path, exclusion_zones, saved_at
        FROM roofs
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("list roofs: %w", err)
	}
	defer rows.Close()

	out := []StoredRoof{}
	for rows.Next() {
		r, err := scanRoof(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roofs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete roof %d: %w", id, err)
	}
	return requireAffected(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoof(sc scanner) (StoredRoof, error) {
	var (
		r           StoredRoof
		path, zones string
		savedAt     string
	)
	if err := sc.Scan(&r.ID, &r.Record.Name, &r.Record.PanelType, &r.Record.TiltAngle,
		&r.Record.OrientationAngle, &r.Record.PanelCount, &path, &zones, &savedAt); err != nil {
		return StoredRoof{}, err
	}
	if err := json.Unmarshal([]byte(path), &r.Record.Path); err != nil {
		return StoredRoof{}, fmt.Errorf("decode path of roof %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(zones), &r.Record.ExclusionZones); err != nil {
		return StoredRoof{}, fmt.Errorf("decode zones of roof %d: %w", r.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return StoredRoof{}, fmt.Errorf("decode saved_at of roof %d: %w", r.ID, err)
	}
	r.SavedAt = t
	return r, nil
}

func encodeGeometry(rec model.RoofRecord) (string, string, error) {
	path := rec.Path
	if path == nil {
		path = model.Path{}
	}
	zones := rec.ExclusionZones
	if zones == nil {
		zones = []model.ZoneRecord{}
	}
	p, err := json.Marshal(path)
	if err != nil {
		return "", "", fmt.Errorf("encode path: %w", err)
	}
	z, err := json.Marshal(zones)
	if err != nil {
		return "", "", fmt.Errorf("encode zones: %w", err)
	}
	return string(p), string(z), nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("roof %d: %w", id, ErrNotFound)
	}
	return nil
}
