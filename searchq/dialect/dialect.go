// Package dialect isolates per-driver SQL behavior: pattern-match operator,
// identifier quoting, placeholder style, alias support in post-aggregation
// filters, and limit clause shape. No other package branches on driver
// identity.
package dialect

import (
	"fmt"
	"strings"
)

// Driver names as they appear in connection configuration.
const (
	DriverMySQL     = "mysql"
	DriverPostgres  = "pgsql"
	DriverSQLServer = "sqlsrv"
)

// PlaceholderStyle selects the positional parameter syntax.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)

// Dialect exposes the driver-specific facts the query synthesizer needs.
type Dialect interface {
	// Name is the canonical driver identifier.
	Name() string

	// Operator is the case-insensitive pattern-match operator.
	Operator() string

	// QuoteIdent quotes a possibly table-qualified column reference.
	QuoteIdent(ref string) string

	// SupportsAliasInHaving reports whether a projected alias may be
	// referenced directly in the post-aggregation filter instead of
	// repeating the full expression.
	SupportsAliasInHaving() bool

	// Placeholders is the positional parameter style.
	Placeholders() PlaceholderStyle

	// RequiresFullGroupBy reports whether grouped aggregate queries must
	// group by every selected base column rather than the primary key
	// alone.
	RequiresFullGroupBy() bool

	// LimitClause renders the row-limiting clause. offset <= 0 means no
	// offset; limit <= 0 yields an empty clause.
	LimitClause(limit, offset int) string
}

// ForDriver returns the dialect for a driver name. Unrecognized drivers get
// the generic dialect rather than an error, so drivers not yet special-cased
// still produce working SQL.
func ForDriver(name string) Dialect {
	switch name {
	case DriverMySQL:
		return MySQL{}
	case DriverPostgres:
		return Postgres{}
	case DriverSQLServer:
		return SQLServer{}
	default:
		return Generic{}
	}
}

// backtickQuote quotes each dot-separated segment of a column reference.
// A trailing "*" segment is left bare so "t.*" renders as `t`.*.
func backtickQuote(ref string) string {
	parts := strings.Split(ref, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

func limitOffset(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	if offset > 0 {
		return fmt.Sprintf("limit %d offset %d", limit, offset)
	}
	return fmt.Sprintf("limit %d", limit)
}
