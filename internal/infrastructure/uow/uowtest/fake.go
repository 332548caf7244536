// Package uowtest provides an in-memory stand-in for a pooled postgres
// connection so transactional components can be tested without a live store.
package uowtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Stmt struct {
	SQL  string
	Args []any
}

type rule struct {
	substr string
	fields []string
	data   [][]any
	err    error
}

// FakeConn records every statement and answers queries from registered rules,
// matched by substring in registration order.
type FakeConn struct {
	Log   []Stmt
	rules []rule
}

func NewFakeConn() *FakeConn {
	return &FakeConn{}
}

// On registers result rows for any statement containing substr.
func (c *FakeConn) On(substr string, fields []string, data [][]any) {
	c.rules = append(c.rules, rule{substr: substr, fields: fields, data: data})
}

// FailOn makes any statement containing substr return err.
func (c *FakeConn) FailOn(substr string, err error) {
	c.rules = append(c.rules, rule{substr: substr, err: err})
}

func (c *FakeConn) match(sql string) *rule {
	for i := range c.rules {
		if strings.Contains(sql, c.rules[i].substr) {
			return &c.rules[i]
		}
	}
	return nil
}

func (c *FakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.Log = append(c.Log, Stmt{SQL: sql, Args: args})
	if r := c.match(sql); r != nil && r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (c *FakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.Log = append(c.Log, Stmt{SQL: sql, Args: args})
	if r := c.match(sql); r != nil {
		if r.err != nil {
			return nil, r.err
		}
		return &FakeRows{fields: r.fields, data: r.data}, nil
	}
	return &FakeRows{}, nil
}

// Statements returns the SQL text of everything issued so far.
func (c *FakeConn) Statements() []string {
	out := make([]string, 0, len(c.Log))
	for _, s := range c.Log {
		out = append(out, s.SQL)
	}
	return out
}

// FakeRows satisfies pgx.Rows over static data.
type FakeRows struct {
	fields []string
	data   [][]any
	idx    int
	err    error
}

func (r *FakeRows) Close() {}

func (r *FakeRows) Err() error { return r.err }

func (r *FakeRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("SELECT %d", len(r.data)))
}

func (r *FakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, pgconn.FieldDescription{Name: f})
	}
	return out
}

func (r *FakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *FakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	if len(dest) > len(row) {
		return fmt.Errorf("scan: %d targets for %d values", len(dest), len(row))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *FakeRows) Values() ([]any, error) {
	return r.data[r.idx-1], nil
}

func (r *FakeRows) RawValues() [][]byte { return nil }

func (r *FakeRows) Conn() *pgx.Conn { return nil }

func assign(dest, val any) error {
	switch d := dest.(type) {
	case *any:
		*d = val
		return nil
	case *int64:
		switch v := val.(type) {
		case int64:
			*d = v
		case int:
			*d = int64(v)
		default:
			return fmt.Errorf("scan: cannot assign %T to *int64", val)
		}
		return nil
	case *int:
		switch v := val.(type) {
		case int64:
			*d = int(v)
		case int:
			*d = v
		default:
			return fmt.Errorf("scan: cannot assign %T to *int", val)
		}
		return nil
	case *float64:
		switch v := val.(type) {
		case float64:
			*d = v
		case int:
			*d = float64(v)
		default:
			return fmt.Errorf("scan: cannot assign %T to *float64", val)
		}
		return nil
	case *string:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("scan: cannot assign %T to *string", val)
		}
		*d = s
		return nil
	case *bool:
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("scan: cannot assign %T to *bool", val)
		}
		*d = b
		return nil
	case *time.Time:
		t, ok := val.(time.Time)
		if !ok {
			return fmt.Errorf("scan: cannot assign %T to *time.Time", val)
		}
		*d = t
		return nil
	default:
		return fmt.Errorf("scan: unsupported target %T", dest)
	}
}
