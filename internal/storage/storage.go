package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/martinsuchenak/portfinder/internal/model"

	_ "modernc.org/sqlite"
)

var (
	ErrSwitchNotFound = errors.New("switch not found")
	ErrDuplicate      = errors.New("switch address already in inventory")
)

// Storage is the switch inventory
type Storage interface {
	ListSwitches() ([]model.Switch, error)
	GetSwitch(ref string) (*model.Switch, error)
	CreateSwitch(sw *model.Switch) error
	SetSwitchEnabled(ref string, enabled bool) error
	DeleteSwitch(ref string) error
	Close() error
}

// SQLiteStorage keeps the inventory in a single SQLite file
type SQLiteStorage struct {
	db *sql.DB
}

// NewStorage opens (creating if needed) the inventory at path and migrates it
func NewStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating inventory directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	db.SetMaxOpenConns(1)

	ss := &SQLiteStorage{db: db}
	if err := ss.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return ss, nil
}

func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

const switchColumns = `id, name, address, port, community, description, enabled, position, created_at, updated_at`

// ListSwitches returns every switch in query order
func (ss *SQLiteStorage) ListSwitches() ([]model.Switch, error) {
	rows, err := ss.db.Query(`SELECT ` + switchColumns + ` FROM switches ORDER BY position, address`)
	if err != nil {
		return nil, fmt.Errorf("querying switches: %w", err)
	}
	defer rows.Close()

	var switches []model.Switch
	for rows.Next() {
		sw, err := scanSwitch(rows)
		if err != nil {
			return nil, err
		}
		switches = append(switches, *sw)
	}
	return switches, rows.Err()
}

// GetSwitch looks a switch up by id or address
func (ss *SQLiteStorage) GetSwitch(ref string) (*model.Switch, error) {
	row := ss.db.QueryRow(`SELECT `+switchColumns+` FROM switches WHERE id = ? OR address = ?`, ref, ref)
	sw, err := scanSwitch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSwitchNotFound
	}
	return sw, err
}

// CreateSwitch appends a switch to the end of the query order
func (ss *SQLiteStorage) CreateSwitch(sw *model.Switch) error {
	sw.Address = strings.TrimSpace(sw.Address)
	if sw.Address == "" {
		return errors.New("switch address is required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating UUIDv7 for switch: %w", err)
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM switches WHERE address = ?`, sw.Address).Scan(&exists); err != nil {
		return fmt.Errorf("checking switch address: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, sw.Address)
	}

	var position int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM switches`).Scan(&position); err != nil {
		return fmt.Errorf("computing switch position: %w", err)
	}

	now := time.Now().UTC()
	sw.ID = id.String()
	sw.Position = position
	sw.CreatedAt = now
	sw.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO switches (`+switchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sw.ID, sw.Name, sw.Address, sw.Port, sw.Community, sw.Description, boolToInt(sw.Enabled), sw.Position,
		formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting switch: %w", err)
	}

	return tx.Commit()
}

// SetSwitchEnabled includes or skips a switch in lookups
func (ss *SQLiteStorage) SetSwitchEnabled(ref string, enabled bool) error {
	res, err := ss.db.Exec(`UPDATE switches SET enabled = ?, updated_at = ? WHERE id = ? OR address = ?`,
		boolToInt(enabled), formatTime(time.Now().UTC()), ref, ref)
	if err != nil {
		return fmt.Errorf("updating switch: %w", err)
	}
	return requireAffected(res)
}

// DeleteSwitch removes a switch by id or address
func (ss *SQLiteStorage) DeleteSwitch(ref string) error {
	res, err := ss.db.Exec(`DELETE FROM switches WHERE id = ? OR address = ?`, ref, ref)
	if err != nil {
		return fmt.Errorf("deleting switch: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSwitch(row rowScanner) (*model.Switch, error) {
	var (
		sw               model.Switch
		enabled          int
		created, updated string
	)
	err := row.Scan(&sw.ID, &sw.Name, &sw.Address, &sw.Port, &sw.Community, &sw.Description,
		&enabled, &sw.Position, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning switch: %w", err)
	}
	sw.Enabled = enabled != 0
	sw.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	sw.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &sw, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSwitchNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
