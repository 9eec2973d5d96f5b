package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lbtheory/isoortho/internal/tensor"
)

//go:embed schema.sql
var schemaSQL string

// ErrCorruptEntry is returned when a stored row cannot be decoded.
var ErrCorruptEntry = errors.New("cache: corrupt entry")

// SQLite is a Store persisted in a SQLite database. Tensor data is stored as
// zstd-compressed little-endian int64 values.
type SQLite struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder

	mu     sync.Mutex
	closed bool
}

// OpenSQLite creates or opens the cache database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &SQLite{db: db, enc: enc, dec: dec}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Get loads the tensor stored under key.
func (s *SQLite) Get(ctx context.Context, key Key) (*tensor.Tensor, bool, error) {
	if s.isClosed() {
		return nil, false, ErrClosed
	}

	var shapeJSON string
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT shape, data FROM tensors WHERE kind = ? AND ord = ? AND dim = ?`,
		key.Kind, key.Order, key.Dim,
	).Scan(&shapeJSON, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query %s: %w", key, err)
	}

	var shape tensor.Shape
	if err := json.Unmarshal([]byte(shapeJSON), &shape); err != nil {
		return nil, false, fmt.Errorf("%w: %s: shape: %v", ErrCorruptEntry, key, err)
	}

	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: decompress: %v", ErrCorruptEntry, key, err)
	}
	if len(raw) != 8*shape.NumElements() {
		return nil, false, fmt.Errorf("%w: %s: %d bytes for shape %v", ErrCorruptEntry, key, len(raw), shape)
	}

	data := make([]int64, shape.NumElements())
	for i := range data {
		data[i] = int64(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	t, err := tensor.FromSlice(data, shape)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptEntry, key, err)
	}
	return t, true, nil
}

// Put stores t under key, replacing any previous entry.
func (s *SQLite) Put(ctx context.Context, key Key, t *tensor.Tensor) error {
	if s.isClosed() {
		return ErrClosed
	}

	shapeJSON, err := json.Marshal(t.Shape())
	if err != nil {
		return fmt.Errorf("failed to marshal shape: %w", err)
	}

	data := t.Data()
	raw := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(raw[8*i:], uint64(v))
	}
	blob := s.enc.EncodeAll(raw, nil)

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tensors (kind, ord, dim, shape, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		key.Kind, key.Order, key.Dim, string(shapeJSON), blob, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Keys lists the cached keys ordered by kind, order and dimension.
func (s *SQLite) Keys(ctx context.Context) ([]Key, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, ord, dim FROM tensors ORDER BY kind, ord, dim`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Kind, &k.Order, &k.Dim); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close releases the database and codec resources.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.dec.Close()
	_ = s.enc.Close()
	return s.db.Close()
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
