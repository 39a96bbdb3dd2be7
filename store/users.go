// Package store is the persistent side of the service: parameterized queries
// and scoped transactions against the relational users table. It knows
// nothing about caching; the coordinator in package usercache decides when a
// query happens.
package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-user-store/users"
)

// Users executes reads and transactional writes for the user aggregate.
type Users struct {
	db *bun.DB
}

// NewUsers creates the store adapter on an open bun handle.
func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

// DB exposes the underlying handle for lifecycle management (ping, close).
func (s *Users) DB() *bun.DB { return s.db }

// FetchAll returns every user row, column-complete and ordered by id. A
// read-only query outside any transaction; an empty table yields an empty
// slice, not an error.
func (s *Users) FetchAll(ctx context.Context) ([]users.User, error) {
	rows := make([]users.User, 0)
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// RunInTx acquires a connection, begins a transaction and invokes fn with a
// handle capable of executing statements. A nil return commits; any error,
// including one raised before fn issues a statement, rolls back and is
// propagated. The connection is released on both paths.
func (s *Users) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// UpsertTx inserts the record or, when a row with the same id exists,
// overwrites its name, email and age with the incoming values.
func (s *Users) UpsertTx(ctx context.Context, tx bun.IDB, u users.User) error {
	_, err := tx.NewInsert().
		Model(&u).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("age = EXCLUDED.age").
		Exec(ctx)
	return err
}

// EnsureSchema creates the users table when it does not exist yet. Exposed
// through the bootstrap endpoint so fresh environments can self-provision.
func (s *Users) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*users.User)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}
