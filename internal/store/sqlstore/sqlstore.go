package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/toby-sam/budget/internal/store"
)

// Dialect selects the placeholder style of the underlying database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Medium keeps documents in the budget_documents table.
type Medium struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Medium {
	return &Medium{db: db, dialect: dialect}
}

func (m *Medium) Read(ctx context.Context, key string) ([]byte, error) {
	query := m.rebind(`SELECT value FROM budget_documents WHERE key = ?`)

	var value string

	err := m.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotExist
		}

		return nil, fmt.Errorf("reading document %q: %w", key, err)
	}

	return []byte(value), nil
}

func (m *Medium) Write(ctx context.Context, key string, data []byte) error {
	query := m.rebind(`
		INSERT INTO budget_documents (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)

	_, err := m.db.ExecContext(ctx, query, key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing document %q: %w", key, err)
	}

	return nil
}

// rebind turns ? placeholders into $n for Postgres.
func (m *Medium) rebind(query string) string {
	if m.dialect != Postgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteString("$" + strconv.Itoa(n))
	}

	return b.String()
}
