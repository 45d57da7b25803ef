// Package qb is a small clonable query builder: raw clause fragments carry
// their own positional bindings, and rendering walks clauses in SQL order so
// the flattened binding list always matches placeholder order in the text.
package qb

import (
	"github.com/searchq/searchq/searchq/dialect"
)

// Expr is a raw SQL fragment with the bindings for its placeholders, in
// left-to-right order.
type Expr struct {
	SQL      string
	Bindings []any
}

// Scope is a named query mutation applied at render time. Scopes model the
// automatic filtering an outer layer attaches to every query (soft deletes,
// tenancy); the merge protocol strips them from the outer query once the
// subquery encapsulates base-table access.
type Scope struct {
	Name  string
	Apply func(*Query)
}

type joinType string

const (
	joinInner joinType = "inner join"
	joinLeft  joinType = "left join"
)

// JoinClause collects the predicates of a single join.
type JoinClause struct {
	kind  joinType
	table string
	ons   []Expr
}

// On adds an equality predicate between two column references.
func (j *JoinClause) On(left, op, right string) *JoinClause {
	j.ons = append(j.ons, Expr{SQL: left + " " + op + " " + right})
	return j
}

// OnRaw adds a raw predicate with bindings.
func (j *JoinClause) OnRaw(sql string, bindings ...any) *JoinClause {
	j.ons = append(j.ons, Expr{SQL: sql, Bindings: bindings})
	return j
}

// Query is a mutable, clonable representation of a single SELECT statement.
// The zero value is not usable; construct with New.
type Query struct {
	dialect dialect.Dialect
	table   string
	from    *Expr // raw FROM source, overrides table when set

	selects []Expr
	joins   []JoinClause
	wheres  []Expr
	groups  []string
	havings []Expr
	orders  []Expr
	limit   int
	offset  int

	scopes []Scope
}

// New creates a query over the given (already prefixed) base table.
func New(d dialect.Dialect, table string) *Query {
	return &Query{dialect: d, table: table}
}

// Dialect returns the dialect the query renders with.
func (q *Query) Dialect() dialect.Dialect { return q.dialect }

// Table returns the base table name the query was built over.
func (q *Query) Table() string { return q.table }

// Clone returns a deep copy; mutating the copy never affects the original.
func (q *Query) Clone() *Query {
	c := &Query{
		dialect: q.dialect,
		table:   q.table,
		limit:   q.limit,
		offset:  q.offset,
	}
	if q.from != nil {
		f := *q.from
		f.Bindings = append([]any(nil), q.from.Bindings...)
		c.from = &f
	}
	c.selects = cloneExprs(q.selects)
	c.wheres = cloneExprs(q.wheres)
	c.havings = cloneExprs(q.havings)
	c.orders = cloneExprs(q.orders)
	c.groups = append([]string(nil), q.groups...)
	c.scopes = append([]Scope(nil), q.scopes...)
	c.joins = make([]JoinClause, len(q.joins))
	for i, j := range q.joins {
		c.joins[i] = JoinClause{kind: j.kind, table: j.table, ons: cloneExprs(j.ons)}
	}
	return c
}

func cloneExprs(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = Expr{SQL: e.SQL, Bindings: append([]any(nil), e.Bindings...)}
	}
	return out
}

// Select replaces the select list with raw expressions.
func (q *Query) Select(exprs ...string) *Query {
	q.selects = q.selects[:0]
	for _, e := range exprs {
		q.selects = append(q.selects, Expr{SQL: e})
	}
	return q
}

// AddSelect appends one raw select expression with bindings.
func (q *Query) AddSelect(sql string, bindings ...any) *Query {
	q.selects = append(q.selects, Expr{SQL: sql, Bindings: bindings})
	return q
}

// HasSelect reports whether any select expression has been set.
func (q *Query) HasSelect() bool { return len(q.selects) > 0 }

// FromRaw replaces the FROM source with a raw expression, typically a
// parenthesized subquery. Its bindings render before every other clause's.
func (q *Query) FromRaw(sql string, bindings ...any) *Query {
	q.from = &Expr{SQL: sql, Bindings: bindings}
	return q
}

// Where appends a raw conjunct to the WHERE clause.
func (q *Query) Where(sql string, bindings ...any) *Query {
	q.wheres = append(q.wheres, Expr{SQL: sql, Bindings: bindings})
	return q
}

// LeftJoin adds a left outer join built through fn.
func (q *Query) LeftJoin(table string, fn func(*JoinClause)) *Query {
	j := JoinClause{kind: joinLeft, table: table}
	fn(&j)
	q.joins = append(q.joins, j)
	return q
}

// Join adds an inner join built through fn.
func (q *Query) Join(table string, fn func(*JoinClause)) *Query {
	j := JoinClause{kind: joinInner, table: table}
	fn(&j)
	q.joins = append(q.joins, j)
	return q
}

// GroupBy appends grouping columns.
func (q *Query) GroupBy(cols ...string) *Query {
	q.groups = append(q.groups, cols...)
	return q
}

// Having appends a raw conjunct to the HAVING clause.
func (q *Query) Having(sql string, bindings ...any) *Query {
	q.havings = append(q.havings, Expr{SQL: sql, Bindings: bindings})
	return q
}

// OrderBy appends an ordering term; col must already be dialect-safe.
func (q *Query) OrderBy(col, dir string) *Query {
	q.orders = append(q.orders, Expr{SQL: col + " " + dir})
	return q
}

// OrderByRaw appends a raw ordering expression with bindings.
func (q *Query) OrderByRaw(sql string, bindings ...any) *Query {
	q.orders = append(q.orders, Expr{SQL: sql, Bindings: bindings})
	return q
}

// Limit sets the maximum row count; non-positive means unlimited.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Offset sets the number of rows skipped before the limit window.
func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// ClearJoins drops all join clauses.
func (q *Query) ClearJoins() *Query {
	q.joins = nil
	return q
}

// ClearGroups drops all grouping columns.
func (q *Query) ClearGroups() *Query {
	q.groups = nil
	return q
}

// WithScope registers a named render-time mutation.
func (q *Query) WithScope(name string, fn func(*Query)) *Query {
	q.scopes = append(q.scopes, Scope{Name: name, Apply: fn})
	return q
}

// WithoutScopes drops all registered scopes.
func (q *Query) WithoutScopes() *Query {
	q.scopes = nil
	return q
}

// resolved returns the query with scopes applied. Scopes mutate a clone so
// repeated rendering never applies a scope twice.
func (q *Query) resolved() *Query {
	if len(q.scopes) == 0 {
		return q
	}
	c := q.Clone()
	scopes := c.scopes
	c.scopes = nil
	for _, s := range scopes {
		s.Apply(c)
	}
	return c
}
