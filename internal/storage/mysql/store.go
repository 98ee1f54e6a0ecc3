package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotelverse/internal/adapters/observability"
	"hotelverse/internal/domain"
)

const driverName = "mysql"

// Store keeps every collection in one `documents` table with a JSON body.
type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close(context.Context) error { return s.db.Close() }

func (s *Store) Driver() string { return driverName }

func (s *Store) Ready() error { return nil }

func (s *Store) Insert(ctx context.Context, collection string, doc any) (id string, err error) {
	defer observe("insert", time.Now(), &err)
	if _, err := s.db.ExecContext(ctx, ensureCollectionSQL, collection); err != nil {
		return "", err
	}
	id, body, err := encodeDoc(doc)
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, insertDocumentSQL, id, collection, body); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) InsertManyIfEmpty(ctx context.Context, collection string, docs []any) (n int, err error) {
	defer observe("insert_many_if_empty", time.Now(), &err)
	if len(docs) == 0 {
		return 0, nil
	}
	// Create the collection row outside the tx so the lock below always has a row to take.
	if _, err := s.db.ExecContext(ctx, ensureCollectionSQL, collection); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var name string
	if err = tx.QueryRowContext(ctx, lockCollectionSQL, collection).Scan(&name); err != nil {
		return 0, err
	}
	var existing int64
	if err = tx.QueryRowContext(ctx, countDocumentsSQL, collection).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, tx.Rollback()
	}

	for _, d := range docs {
		id, body, encErr := encodeDoc(d)
		if encErr != nil {
			err = encErr
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, insertDocumentSQL, id, collection, body); err != nil {
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *Store) Count(ctx context.Context, collection string) (n int64, err error) {
	defer observe("count", time.Now(), &err)
	err = s.db.QueryRowContext(ctx, countDocumentsSQL, collection).Scan(&n)
	return n, err
}

func (s *Store) Find(ctx context.Context, collection string, f domain.Filter, out any) (err error) {
	defer observe("find", time.Now(), &err)
	q, args, err := compileFind(collection, f)
	if err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	// Stitch the bodies into one JSON array and decode it into out in a single pass.
	arr := []byte{'['}
	first := true
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return err
		}
		if !first {
			arr = append(arr, ',')
		}
		arr = append(arr, body...)
		first = false
	}
	if err := rows.Err(); err != nil {
		return err
	}
	arr = append(arr, ']')
	return json.Unmarshal(arr, out)
}

func (s *Store) Collections(ctx context.Context) (names []string, err error) {
	defer observe("collections", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx, listCollectionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// encodeDoc assigns a fresh id and returns the JSON body carrying it.
func encodeDoc(doc any) (string, []byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", nil, fmt.Errorf("encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	id := uuid.NewString()
	m["id"] = id
	body, err := json.Marshal(m)
	return id, body, err
}

func observe(op string, start time.Time, err *error) {
	observability.ObserveStore(driverName, op, *err, time.Since(start))
}
