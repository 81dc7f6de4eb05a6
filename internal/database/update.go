package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/serenize/snaker"
)

var ErrEmptyPatch = errors.New("nothing to update")

// BuildUpdate renders an UPDATE for every non-nil pointer field of patch.
// Column names come from the `db` tag, otherwise the snake_case field name.
// extra holds fixed assignments such as "updated_at = NOW()" and is only
// appended when at least one field is set.
func BuildUpdate(table string, id int64, patch interface{}, extra ...string) (string, []interface{}, error) {
	return BuildKeyedUpdate(table, patch, []string{"id"}, []interface{}{id}, extra...)
}

// BuildKeyedUpdate is BuildUpdate for rows identified by one or more key columns
func BuildKeyedUpdate(table string, patch interface{}, keyColumns []string, keyValues []interface{}, extra ...string) (string, []interface{}, error) {
	if len(keyColumns) == 0 || len(keyColumns) != len(keyValues) {
		return "", nil, errors.Errorf("update of %s needs matching key columns and values", table)
	}
	v := reflect.Indirect(reflect.ValueOf(patch))
	if v.Kind() != reflect.Struct {
		return "", nil, errors.Errorf("patch for %s must be a struct, got %s", table, v.Kind())
	}
	t := v.Type()
	sets := make([]string, 0, t.NumField())
	args := make([]interface{}, 0, t.NumField()+len(keyValues))
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		column := ColumnName(field)
		if column == "" {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}
		val := fv.Elem().Interface()
		if ss, ok := val.([]string); ok {
			val = pq.Array(ss)
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(sets) == 0 {
		return "", nil, ErrEmptyPatch
	}
	sets = append(sets, extra...)
	where := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		args = append(args, keyValues[i])
		where[i] = fmt.Sprintf("%s = $%d", col, len(args))
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), strings.Join(where, " AND "))
	return stmt, args, nil
}

// ColumnName maps a struct field to its column, "" means the field is skipped
func ColumnName(field reflect.StructField) string {
	tag := field.Tag.Get("db")
	if tag == "-" {
		return ""
	}
	if tag != "" {
		return tag
	}
	return snaker.CamelToSnake(field.Name)
}
