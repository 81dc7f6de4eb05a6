// Package listing implements the search box and sort order shared by the
// list endpoints.
package listing

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

type SortKey string

const (
	SortByName    SortKey = "name"
	SortByUpdated SortKey = "updated"
)

type Query struct {
	Term string
	Sort SortKey
}

// QueryFromURL reads ?q= and ?sort=, unknown sort keys fall back to def
func QueryFromURL(values url.Values, def SortKey) Query {
	q := Query{Term: values.Get("q"), Sort: def}
	switch SortKey(strings.ToLower(values.Get("sort"))) {
	case SortByName:
		q.Sort = SortByName
	case SortByUpdated:
		q.Sort = SortByUpdated
	}
	return q
}

// Accessors describes how to read the searchable and sortable parts of T
type Accessors[T any] struct {
	Fields  func(T) []string
	Starred func(T) bool
	Name    func(T) string
	Updated func(T) time.Time
}

// Filter keeps items where the term is a case-insensitive substring of any field.
// A blank term keeps everything. The input slice is not modified.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if term == "" || matches(fields(it), term) {
			out = append(out, it)
		}
	}
	return out
}

func matches(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Sort orders items in place: starred first, then by key. Ties keep their
// original relative order.
func Sort[T any](items []T, key SortKey, acc Accessors[T]) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if acc.Starred != nil {
			sa, sb := acc.Starred(a), acc.Starred(b)
			if sa != sb {
				return sa
			}
		}
		switch {
		case key == SortByUpdated && acc.Updated != nil:
			return acc.Updated(a).After(acc.Updated(b))
		case acc.Name != nil:
			return strings.ToLower(acc.Name(a)) < strings.ToLower(acc.Name(b))
		}
		return false
	})
}

// Apply filters a copy of items and sorts the result
func Apply[T any](items []T, q Query, acc Accessors[T]) []T {
	out := Filter(items, q.Term, acc.Fields)
	Sort(out, q.Sort, acc)
	return out
}
