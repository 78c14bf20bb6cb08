package postgres

import (
	"reflect"
	"sync"
)

// columnCache holds column lists per struct type.
var columnCache sync.Map // map[reflect.Type][]string

// ExtractDBColumns returns the column names of T's "db" tags in field order.
// Embedded structs are walked recursively; "-" and untagged fields are skipped.
//
// Usage:
//
//	cols := ExtractDBColumns[catalog.Product]()
//	// ["id", "sku", "name", "unit"]
func ExtractDBColumns[T any]() []string {
	var zero T
	t := reflect.TypeOf(zero)
	if cached, ok := columnCache.Load(t); ok {
		return append([]string(nil), cached.([]string)...)
	}
	cols := extractColumnsFromType(t)
	columnCache.Store(t, cols)
	return append([]string(nil), cols...)
}

func extractColumnsFromType(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

// SelectColumns qualifies T's columns with a table alias. Columns listed in
// nullableText are wrapped in COALESCE with an empty string so they scan into
// plain strings.
func SelectColumns[T any](alias string, nullableText ...string) []string {
	nullable := make(map[string]struct{}, len(nullableText))
	for _, c := range nullableText {
		nullable[c] = struct{}{}
	}

	cols := ExtractDBColumns[T]()
	out := make([]string, len(cols))
	for i, c := range cols {
		qualified := c
		if alias != "" {
			qualified = alias + "." + c
		}
		if _, ok := nullable[c]; ok {
			out[i] = "COALESCE(" + qualified + ", '') AS " + c
			continue
		}
		out[i] = qualified
	}
	return out
}
