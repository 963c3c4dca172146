package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// column maps one db-tagged struct field to its column name.
type column struct {
	name  string
	index int
}

var layouts sync.Map // reflect.Type -> []column

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := modelRow(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// InsertModels renders a single multi-row insert. Every model shares the
// layout of T, so the column list is derived once.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, errValuesRequired
	}

	b := InsertInto(table).Suffix(suffix)
	for i := range models {
		cols, vals, err := modelRow(models[i])
		if err != nil {
			return "", nil, fmt.Errorf("model %d: %w", i, err)
		}
		if i == 0 {
			b.Columns(cols...)
		} else if !slices.Equal(cols, b.columns) {
			return "", nil, fmt.Errorf("model %d columns differ from first model", i)
		}
		b.Values(vals...)
	}
	return b.ToSQL()
}

func modelRow(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, errors.New("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, errors.New("model must be struct")
	}

	layout := layoutOf(v.Type())
	if len(layout) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	cols := make([]string, len(layout))
	vals := make([]any, len(layout))
	for i, c := range layout {
		cols[i] = c.name
		vals[i] = v.Field(c.index).Interface()
	}
	return cols, vals, nil
}

func layoutOf(t reflect.Type) []column {
	if cached, ok := layouts.Load(t); ok {
		return cached.([]column)
	}

	var out []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		out = append(out, column{name: name, index: i})
	}
	layouts.Store(t, out)
	return out
}
