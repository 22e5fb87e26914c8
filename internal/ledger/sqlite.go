package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLedger is a local development backend with the same flat get/set
// semantics as the on-chain contract. It lets the whole catalog run offline.
type SQLiteLedger struct {
	db      *sql.DB
	getStmt *sql.Stmt
	setStmt *sql.Stmt
}

func OpenSQLite(dbPath string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db path: %w", err)
	}

	// DSN notes:
	// - _pragma=busy_timeout sets a lock wait
	// - _pragma=journal_mode(WAL) enables the write-ahead log
	// - _pragma=synchronous(NORMAL) sets the disk synchronizing
	//	 mode to NORMAL (recommended with WAL enabled)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(dbPath))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	get, err := db.Prepare(`
		SELECT value FROM ledger_entries WHERE key = ?
	`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	set, err := db.Prepare(`
		INSERT INTO ledger_entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		_ = get.Close()
		_ = db.Close()
		return nil, err
	}

	return &SQLiteLedger{db: db, getStmt: get, setStmt: set}, nil
}

func (l *SQLiteLedger) Close() error {
	if l.getStmt != nil {
		_ = l.getStmt.Close()
	}
	if l.setStmt != nil {
		_ = l.setStmt.Close()
	}
	return l.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ledger_entries (
			key    TEXT PRIMARY KEY,
			value  BLOB NOT NULL
		);
	`)
	return err
}

func (l *SQLiteLedger) IsAvailable(ctx context.Context) (bool, error) {
	if l == nil || l.db == nil {
		return false, errors.New("ledger not initialized")
	}
	if err := l.db.PingContext(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (l *SQLiteLedger) GetData(ctx context.Context, key string) ([]byte, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("ledger not initialized")
	}

	var value []byte
	err := l.getStmt.QueryRowContext(ctx, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		// Absent keys read as empty, like the contract.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (l *SQLiteLedger) SetData(ctx context.Context, key string, value []byte) error {
	if l == nil || l.db == nil {
		return errors.New("ledger not initialized")
	}

	_, err := l.setStmt.ExecContext(ctx, key, value)
	return err
}
