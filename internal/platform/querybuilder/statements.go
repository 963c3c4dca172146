package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
)

type SelectBuilder struct {
	columns   []string
	table     string
	conds     []Condition
	orderBy   []string
	limit     int
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit caps the row count; values <= 0 leave the query unbounded.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// ForUpdate locks the selected rows until the enclosing transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errTableRequired
	}
	if len(b.columns) == 0 {
		return "", nil, errColumnsRequired
	}

	w := newWriter()
	w.str("SELECT ")
	w.list(b.columns)
	w.str(" FROM ")
	w.str(b.table)
	w.where(b.conds)
	if len(b.orderBy) > 0 {
		w.str(" ORDER BY ")
		w.list(b.orderBy)
	}
	if b.limit > 0 {
		w.str(" LIMIT ")
		w.str(strconv.Itoa(b.limit))
	}
	if b.forUpdate {
		w.str(" FOR UPDATE")
	}
	query, args := w.finish()
	return query, args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

// Values appends one row; call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = sql
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errTableRequired
	}
	if len(b.columns) == 0 {
		return "", nil, errColumnsRequired
	}
	if len(b.rows) == 0 {
		return "", nil, errValuesRequired
	}
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(b.columns))
		}
	}

	w := newWriter()
	w.str("INSERT INTO ")
	w.str(b.table)
	w.str(" (")
	w.list(b.columns)
	w.str(") VALUES ")
	for i, row := range b.rows {
		if i > 0 {
			w.str(", ")
		}
		w.str("(")
		for j, v := range row {
			if j > 0 {
				w.str(", ")
			}
			w.bind(v)
		}
		w.str(")")
	}
	if b.suffix != "" {
		w.str(" ")
		w.str(b.suffix)
	}
	query, args := w.finish()
	return query, args, nil
}

type assignment struct {
	column string
	value  any
	raw    string
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	conds []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression such as NOW().
func (b *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, raw: expr})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errTableRequired
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update assignments are required")
	}

	w := newWriter()
	w.str("UPDATE ")
	w.str(b.table)
	w.str(" SET ")
	for i, a := range b.sets {
		if i > 0 {
			w.str(", ")
		}
		w.str(a.column)
		w.str(" = ")
		if a.raw != "" {
			w.str(a.raw)
			continue
		}
		w.bind(a.value)
	}
	w.where(b.conds)
	query, args := w.finish()
	return query, args, nil
}

type DeleteBuilder struct {
	table string
	conds []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// ToSQL refuses to render a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errTableRequired
	}
	if len(b.conds) == 0 {
		return "", nil, errors.New("delete requires at least one condition")
	}

	w := newWriter()
	w.str("DELETE FROM ")
	w.str(b.table)
	w.where(b.conds)
	query, args := w.finish()
	return query, args, nil
}
