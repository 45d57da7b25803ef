package qb

import (
	"strconv"
	"strings"

	"github.com/searchq/searchq/searchq/dialect"
)

// RawSQL renders the statement with question-mark placeholders regardless of
// dialect. This is the form used when embedding the query as a subquery; the
// dialect rewrite happens exactly once, on the final composed text.
func (q *Query) RawSQL() string {
	sql, _ := q.resolved().render()
	return sql
}

// SQL renders the executable statement in the dialect's placeholder style.
func (q *Query) SQL() string {
	sql, _ := q.resolved().render()
	return rewritePlaceholders(sql, q.dialect.Placeholders())
}

// Bindings returns the flattened binding list in render order: select, from,
// join, where, having, order.
func (q *Query) Bindings() []any {
	_, args := q.resolved().render()
	return args
}

// ToSQL renders the executable statement and its bindings together.
func (q *Query) ToSQL() (string, []any) {
	sql, args := q.resolved().render()
	return rewritePlaceholders(sql, q.dialect.Placeholders()), args
}

func (q *Query) render() (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("select ")
	if len(q.selects) == 0 {
		sb.WriteString("*")
	} else {
		for i, e := range q.selects {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.SQL)
			args = append(args, e.Bindings...)
		}
	}

	sb.WriteString(" from ")
	if q.from != nil {
		sb.WriteString(q.from.SQL)
		args = append(args, q.from.Bindings...)
	} else {
		sb.WriteString(q.dialect.QuoteIdent(q.table))
	}

	for _, j := range q.joins {
		sb.WriteString(" ")
		sb.WriteString(string(j.kind))
		sb.WriteString(" ")
		sb.WriteString(q.dialect.QuoteIdent(j.table))
		sb.WriteString(" on ")
		for i, on := range j.ons {
			if i > 0 {
				sb.WriteString(" and ")
			}
			sb.WriteString(on.SQL)
			args = append(args, on.Bindings...)
		}
	}

	if len(q.wheres) > 0 {
		sb.WriteString(" where ")
		for i, w := range q.wheres {
			if i > 0 {
				sb.WriteString(" and ")
			}
			sb.WriteString(w.SQL)
			args = append(args, w.Bindings...)
		}
	}

	if len(q.groups) > 0 {
		sb.WriteString(" group by ")
		sb.WriteString(strings.Join(q.groups, ", "))
	}

	if len(q.havings) > 0 {
		sb.WriteString(" having ")
		for i, h := range q.havings {
			if i > 0 {
				sb.WriteString(" and ")
			}
			sb.WriteString(h.SQL)
			args = append(args, h.Bindings...)
		}
	}

	if len(q.orders) > 0 {
		sb.WriteString(" order by ")
		for i, o := range q.orders {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(o.SQL)
			args = append(args, o.Bindings...)
		}
	}

	if clause := q.dialect.LimitClause(q.limit, q.offset); clause != "" {
		sb.WriteString(" ")
		sb.WriteString(clause)
	}

	return sb.String(), args
}

// rewritePlaceholders converts question-mark placeholders to the target
// style. Inlined configuration literals may carry '?' characters, so the
// rewrite skips single-quoted spans. Doubled quotes inside a literal toggle
// the state twice with nothing in between, which keeps the scan correct.
func rewritePlaceholders(sql string, style dialect.PlaceholderStyle) string {
	if style != dialect.PlaceholderDollar {
		return sql
	}
	var sb strings.Builder
	sb.Grow(len(sql) + 8)
	n := 0
	quoted := false
	for _, ch := range sql {
		if ch == '\'' {
			quoted = !quoted
		}
		if ch == '?' && !quoted {
			n++
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}
