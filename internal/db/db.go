package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// SchemaVersion is stored in PRAGMA user_version once migrations ran.
const SchemaVersion = 2

// FileName is the database file inside the data directory.
const FileName = "dayline.db"

// DataDir returns dir, or the default data directory when dir is empty,
// creating it if needed.
func DataDir(dir string) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "share", "dayline")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Open opens (and migrates) the database in dataDir.
func Open(dataDir string) (*sql.DB, error) {
	dir, err := DataDir(dataDir)
	if err != nil {
		return nil, err
	}
	return OpenPath(filepath.Join(dir, FileName))
}

// OpenPath opens (and migrates) the database file at path.
func OpenPath(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; keeps pragmas applied to the single connection
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	if err := EnsureBlockSource(db); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

// UserVersion reads the schema version recorded in the database.
func UserVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`PRAGMA user_version`).Scan(&v)
	return v, err
}

// EnsureBlockSource adds the blocks.source column to databases created
// before block provenance was tracked. It is idempotent.
func EnsureBlockSource(db *sql.DB) error {
	need, err := missingColumn(db, "blocks", "source")
	if err != nil || !need {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`ALTER TABLE blocks ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'`); err != nil {
		return fmt.Errorf("add source: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_blocks_source ON blocks(source)`); err != nil {
		return err
	}
	return tx.Commit()
}

func missingColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return false, nil
		}
	}
	return true, rows.Err()
}
