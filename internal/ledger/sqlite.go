package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"tmcrawl/internal/ports"
)

const storeFile = "themanufacturer_seen.sqlite"

// SQLiteLedger is the durable seen-URL set backed by a single SQLite file
// under the state directory.
type SQLiteLedger struct {
	mu      sync.Mutex
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SeenLedger = (*SQLiteLedger)(nil)

// Open creates the state directory if absent, opens the backing store and
// ensures the schema exists.
func Open(stateDir string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(stateDir, storeFile)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS seen (url TEXT PRIMARY KEY, first_seen TEXT)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init seen schema: %w", err)
	}

	return &SQLiteLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Has reports whether a prior successful Add persisted the URL, including in
// a previous run.
func (l *SQLiteLedger) Has(ctx context.Context, url string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return false, fmt.Errorf("seen store is closed")
	}

	query, args, err := l.builder.
		Select("1").
		From("seen").
		Where(sq.Eq{"url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has query: %w", err)
	}

	var one int
	err = l.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return true, nil
}

// Add inserts the URL with a first-seen timestamp; duplicate inserts are
// ignored.
func (l *SQLiteLedger) Add(ctx context.Context, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return fmt.Errorf("seen store is closed")
	}

	query, args, err := l.builder.
		Insert("seen").
		Columns("url", "first_seen").
		Values(url, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(url) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add query: %w", err)
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert seen: %w", err)
	}
	return nil
}

// Close releases the backing store; safe to call more than once.
func (l *SQLiteLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	if err != nil {
		return fmt.Errorf("close seen store: %w", err)
	}
	return nil
}
