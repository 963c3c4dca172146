// Package querybuilder renders the small set of Postgres statements the
// repositories need, with positional $n placeholders.
package querybuilder

import (
	"errors"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

var (
	errTableRequired   = errors.New("table is required")
	errColumnsRequired = errors.New("columns are required")
	errValuesRequired  = errors.New("insert values are required")
)

// writer accumulates SQL text and bound arguments for one statement.
type writer struct {
	buf  *bytebufferpool.ByteBuffer
	args []any
}

func newWriter() *writer {
	return &writer{buf: bytebufferpool.Get()}
}

// finish returns the rendered statement and releases the buffer.
func (w *writer) finish() (string, []any) {
	query := w.buf.String()
	bytebufferpool.Put(w.buf)
	w.buf = nil
	return query, w.args
}

func (w *writer) str(s string) {
	_, _ = w.buf.WriteString(s)
}

func (w *writer) bind(v any) {
	w.args = append(w.args, v)
	_ = w.buf.WriteByte('$')
	w.buf.B = strconv.AppendInt(w.buf.B, int64(len(w.args)), 10)
}

func (w *writer) list(items []string) {
	for i, item := range items {
		if i > 0 {
			w.str(", ")
		}
		w.str(item)
	}
}

func (w *writer) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.str(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			w.str(" AND ")
		}
		c.render(w)
	}
}

// Condition is one AND-joined predicate of a WHERE clause.
type Condition interface {
	render(w *writer)
}

type condFunc func(w *writer)

func (f condFunc) render(w *writer) { f(w) }

// Eq matches column = value.
func Eq(column string, value any) Condition {
	return condFunc(func(w *writer) {
		w.str(column)
		w.str(" = ")
		w.bind(value)
	})
}

// In matches column against a value list. An empty list matches nothing.
func In(column string, values []any) Condition {
	return condFunc(func(w *writer) {
		if len(values) == 0 {
			w.str("1=0")
			return
		}
		w.str(column)
		w.str(" IN (")
		for i, v := range values {
			if i > 0 {
				w.str(", ")
			}
			w.bind(v)
		}
		w.str(")")
	})
}

func IsNull(column string) Condition {
	return condFunc(func(w *writer) {
		w.str(column)
		w.str(" IS NULL")
	})
}

// Expr embeds raw SQL; each ? consumes the next value as a placeholder.
func Expr(sql string, values ...any) Condition {
	return condFunc(func(w *writer) {
		next := 0
		start := 0
		for i := 0; i < len(sql); i++ {
			if sql[i] != '?' || next >= len(values) {
				continue
			}
			w.str(sql[start:i])
			w.bind(values[next])
			next++
			start = i + 1
		}
		w.str(sql[start:])
	})
}
