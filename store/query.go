package store

import (
	"slices"
)

type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// QueryBuilder filters, sorts and pages a snapshot of entities.
type QueryBuilder[T any] struct {
	items     []T
	wheres    []func(T) bool
	orders    []orderClause[T]
	limitVal  *int
	offsetVal *int
}

type orderClause[T any] struct {
	cmp       func(a, b T) int
	direction OrderDirection
}

// From starts a query over items. The slice is not modified.
func From[T any](items []T) *QueryBuilder[T] {
	return &QueryBuilder[T]{items: items}
}

// Where adds a predicate; all predicates must hold.
func (q *QueryBuilder[T]) Where(pred func(T) bool) *QueryBuilder[T] {
	q.wheres = append(q.wheres, pred)
	return q
}

// WhereIf adds the predicate only when cond is true.
func (q *QueryBuilder[T]) WhereIf(cond bool, pred func(T) bool) *QueryBuilder[T] {
	if cond {
		q.wheres = append(q.wheres, pred)
	}
	return q
}

// OrderBy adds a sort key; earlier keys take precedence.
func (q *QueryBuilder[T]) OrderBy(cmp func(a, b T) int, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, orderClause[T]{cmp: cmp, direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	q.limitVal = &n
	return q
}

func (q *QueryBuilder[T]) Offset(n int) *QueryBuilder[T] {
	q.offsetVal = &n
	return q
}

func (q *QueryBuilder[T]) filtered() []T {
	out := make([]T, 0, len(q.items))
	for _, item := range q.items {
		if q.matches(item) {
			out = append(out, item)
		}
	}

	if len(q.orders) > 0 {
		slices.SortStableFunc(out, func(a, b T) int {
			for _, o := range q.orders {
				c := o.cmp(a, b)
				if o.direction == DESC {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}
	return out
}

func (q *QueryBuilder[T]) matches(item T) bool {
	for _, pred := range q.wheres {
		if !pred(item) {
			return false
		}
	}
	return true
}

// All returns every matching item, honoring Limit and Offset.
func (q *QueryBuilder[T]) All() []T {
	out := q.filtered()

	start := 0
	if q.offsetVal != nil {
		start = min(max(*q.offsetVal, 0), len(out))
	}
	end := len(out)
	if q.limitVal != nil && *q.limitVal >= 0 {
		end = min(start+*q.limitVal, len(out))
	}
	return out[start:end]
}

// First returns the first matching item.
func (q *QueryBuilder[T]) First() (T, bool) {
	out := q.filtered()
	if len(out) == 0 {
		var zero T
		return zero, false
	}
	return out[0], true
}

// Count returns the number of matching items, ignoring Limit and Offset.
func (q *QueryBuilder[T]) Count() int {
	n := 0
	for _, item := range q.items {
		if q.matches(item) {
			n++
		}
	}
	return n
}

// Pagination represents pagination parameters
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate applies pagination to a query builder and returns results with metadata
func Paginate[T any](q *QueryBuilder[T], page, pageSize int) *PaginationResult[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100 // Max page size
	}

	total := q.Count()
	data := q.Offset((page - 1) * pageSize).Limit(pageSize).All()

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}
}
