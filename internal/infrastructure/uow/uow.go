package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studyplatform/internal/domain"
)

// Conn is the subset of a pooled pgx connection the unit of work issues
// statements through. *pgxpool.Conn satisfies it.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// UnitOfWork binds one borrowed connection and demarcates at most one
// transaction on it at a time. Begin on an open transaction is a no-op, and
// Commit/Rollback without an open transaction are no-ops, so callers may
// invoke Rollback unconditionally on failure paths.
type UnitOfWork struct {
	conn Conn
	open bool
}

func New(conn Conn) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.conn == nil {
		return domain.ErrConnUnavailable
	}
	if u.open {
		return nil
	}
	if _, err := u.conn.Exec(ctx, "BEGIN"); err != nil {
		return err
	}
	u.open = true
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.conn == nil || !u.open {
		return nil
	}
	if _, err := u.conn.Exec(ctx, "COMMIT"); err != nil {
		// A failed commit keeps the open flag so the defensive rollback that
		// follows still reaches the store.
		return err
	}
	u.open = false
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.conn == nil || !u.open {
		return nil
	}
	if _, err := u.conn.Exec(ctx, "ROLLBACK"); err != nil {
		return err
	}
	u.open = false
	return nil
}

func (u *UnitOfWork) InTransaction() bool {
	return u.open
}

func (u *UnitOfWork) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if u.conn == nil {
		return pgconn.CommandTag{}, domain.ErrConnUnavailable
	}
	return u.conn.Exec(ctx, sql, args...)
}

func (u *UnitOfWork) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if u.conn == nil {
		return nil, domain.ErrConnUnavailable
	}
	return u.conn.Query(ctx, sql, args...)
}

// QueryRow mirrors pgx's single-row convenience on top of Query.
func (u *UnitOfWork) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	rows, err := u.Query(ctx, sql, args...)
	if err != nil {
		return errRow{err: err}
	}
	return rowAdapter{rows: rows}
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

type rowAdapter struct{ rows pgx.Rows }

func (r rowAdapter) Scan(dest ...any) error {
	defer r.rows.Close()
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return err
		}
		return pgx.ErrNoRows
	}
	if err := r.rows.Scan(dest...); err != nil {
		return err
	}
	r.rows.Close()
	return r.rows.Err()
}
