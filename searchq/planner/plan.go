// Package planner assembles scored subqueries: relevance projection and
// threshold filter, declared joins with deduplicating grouping, allow-listed
// sort application, and the clone/merge protocol that composes the scored
// subquery back into the caller's query.
package planner

import (
	"fmt"
	"strings"

	"github.com/searchq/searchq/searchq/dialect"
	"github.com/searchq/searchq/searchq/qb"
	"github.com/searchq/searchq/searchq/score"
)

// Join declares one left outer join of the search plan.
type Join struct {
	Table    string // unprefixed table name
	LeftKey  string
	RightKey string

	// Optional extra equality pair, inlined as a literal. The value comes
	// from model configuration, never from request input.
	ExtraColumn string
	ExtraValue  string
	HasExtra    bool
}

// Plan is the resolved, per-invocation view of a model's search
// configuration: every reference already carries the connection's table
// prefix, and the column set is ordered so fragments, bindings and the
// threshold basis stay aligned.
type Plan struct {
	Table          string // prefixed base table
	PrimaryKey     string // prefixed qualified ref, e.g. pre_products.id
	RelevanceField string
	Columns        []score.Column
	SortColumns    map[string]string // configured ref -> prefixed ref
	Joins          []Join            // prefixed, in declaration order
	GroupBy        []string          // explicit override, prefixed refs
	TableColumns   []string          // prefixed refs, full-group-by dialects
}

// PrefixRef applies a table prefix to the table qualifier of a column
// reference. Unqualified references are returned unchanged.
func PrefixRef(prefix, ref string) string {
	if prefix == "" {
		return ref
	}
	i := strings.Index(ref, ".")
	if i < 0 {
		return ref
	}
	return prefix + ref[:i] + ref[i:]
}

// ApplySearch projects the relevance column, filters on the threshold and
// orders descending by relevance. Empty fragment lists leave the query
// untouched.
func ApplySearch(q *qb.Query, d dialect.Dialect, p *Plan, frags []score.Fragment, threshold float64) {
	if len(frags) == 0 {
		return
	}
	if !q.HasSelect() {
		q.Select(d.QuoteIdent(p.Table + ".*"))
	}

	sum, args := score.Sum(frags)
	alias := p.RelevanceField
	q.AddSelect("max("+sum+") as "+alias, args...)

	// The threshold is server-computed, never user input; it is
	// interpolated with a fixed two-decimal rendering rather than bound.
	cutoff := fmt.Sprintf("%.2f", threshold)
	if d.SupportsAliasInHaving() {
		q.Having(alias + " >= " + cutoff)
	} else {
		// Dialects that cannot reference the alias in HAVING re-evaluate
		// the full expression, so its bindings are emitted a second time
		// in filter-clause position.
		q.Having("max("+sum+") >= "+cutoff, args...)
	}

	q.OrderByRaw(alias + " desc")
}

// ApplyJoins adds the plan's declared left outer joins.
func ApplyJoins(q *qb.Query, d dialect.Dialect, p *Plan) {
	for _, j := range p.Joins {
		join := j
		q.LeftJoin(join.Table, func(jc *qb.JoinClause) {
			jc.On(d.QuoteIdent(join.LeftKey), "=", d.QuoteIdent(join.RightKey))
			if join.HasExtra {
				jc.OnRaw(d.QuoteIdent(join.ExtraColumn) + " = '" + escapeLiteral(join.ExtraValue) + "'")
			}
		})
	}
}

// ApplyGrouping adds the deduplicating group-by: the explicit override when
// configured, otherwise the base primary key (or the full table-column list
// on dialects that demand it) plus every search column living on a joined
// table, so joined columns stay selectable.
func ApplyGrouping(q *qb.Query, d dialect.Dialect, p *Plan) {
	if len(p.GroupBy) > 0 {
		for _, g := range p.GroupBy {
			q.GroupBy(d.QuoteIdent(g))
		}
		return
	}

	if d.RequiresFullGroupBy() && len(p.TableColumns) > 0 {
		for _, c := range p.TableColumns {
			q.GroupBy(d.QuoteIdent(c))
		}
	} else {
		q.GroupBy(d.QuoteIdent(p.PrimaryKey))
	}

	for _, c := range p.Columns {
		for _, j := range p.Joins {
			if strings.Contains(c.Ref, j.Table) {
				q.GroupBy(d.QuoteIdent(c.Ref))
				break
			}
		}
	}
}

// SortRequest is one requested ordering term.
type SortRequest struct {
	Column string
	Dir    string
}

// ApplySort appends ordering clauses for the valid requests, preserving
// input order. Entries whose column is not in the allow-list or whose
// direction is unknown are dropped silently; the rest of the list is still
// processed.
func ApplySort(q *qb.Query, d dialect.Dialect, p *Plan, reqs []SortRequest) {
	for _, r := range reqs {
		prefixed, ok := p.SortColumns[r.Column]
		if !ok {
			continue
		}
		dir := strings.ToLower(r.Dir)
		if dir != "asc" && dir != "desc" {
			continue
		}
		q.OrderBy(d.QuoteIdent(prefixed), dir)
	}
}

// Merge composes the scored subquery with the caller's original query. The
// subquery becomes the FROM source, aliased as the base table so the
// original's clauses against that name keep working; its bindings render
// first, ahead of the original's own clause bindings. Scopes, joins and
// grouping on the original are suppressed since the subquery, cloned from the
// original, already encapsulates them along with base-table access.
func Merge(sub, original *qb.Query, d dialect.Dialect, alias string) *qb.Query {
	out := original.Clone().WithoutScopes().ClearJoins().ClearGroups()
	out.FromRaw("("+sub.RawSQL()+") as "+d.QuoteIdent(alias), sub.Bindings()...)
	return out
}

// escapeLiteral doubles single quotes in a configuration-supplied literal
// before it is inlined into join SQL.
func escapeLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
