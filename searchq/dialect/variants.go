package dialect

import "fmt"

// MySQL permits filtering on the projected relevance alias directly.
type MySQL struct{}

func (MySQL) Name() string                   { return DriverMySQL }
func (MySQL) Operator() string               { return "LIKE" }
func (MySQL) QuoteIdent(ref string) string   { return backtickQuote(ref) }
func (MySQL) SupportsAliasInHaving() bool    { return true }
func (MySQL) RequiresFullGroupBy() bool      { return false }
func (MySQL) Placeholders() PlaceholderStyle { return PlaceholderQuestion }
func (MySQL) LimitClause(limit, offset int) string {
	return limitOffset(limit, offset)
}

// Postgres folds unquoted identifiers to lower case, so references are left
// unquoted, and matches case-insensitively via ILIKE.
type Postgres struct{}

func (Postgres) Name() string                   { return DriverPostgres }
func (Postgres) Operator() string               { return "ILIKE" }
func (Postgres) QuoteIdent(ref string) string   { return ref }
func (Postgres) SupportsAliasInHaving() bool    { return false }
func (Postgres) RequiresFullGroupBy() bool      { return false }
func (Postgres) Placeholders() PlaceholderStyle { return PlaceholderDollar }
func (Postgres) LimitClause(limit, offset int) string {
	return limitOffset(limit, offset)
}

// SQLServer has no LIMIT; row limiting needs OFFSET/FETCH after an ORDER BY.
// It also rejects grouping by the primary key alone when other selected
// columns are ungrouped aggregates.
type SQLServer struct{}

func (SQLServer) Name() string                   { return DriverSQLServer }
func (SQLServer) Operator() string               { return "LIKE" }
func (SQLServer) QuoteIdent(ref string) string   { return backtickQuote(ref) }
func (SQLServer) SupportsAliasInHaving() bool    { return false }
func (SQLServer) RequiresFullGroupBy() bool      { return true }
func (SQLServer) Placeholders() PlaceholderStyle { return PlaceholderQuestion }
func (SQLServer) LimitClause(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf("offset %d rows fetch next %d rows only", offset, limit)
}

// Generic is the fallback for drivers not yet special-cased: LIKE matching,
// backtick quoting, question-mark placeholders, no alias in HAVING.
type Generic struct{}

func (Generic) Name() string                   { return "generic" }
func (Generic) Operator() string               { return "LIKE" }
func (Generic) QuoteIdent(ref string) string   { return backtickQuote(ref) }
func (Generic) SupportsAliasInHaving() bool    { return false }
func (Generic) RequiresFullGroupBy() bool      { return false }
func (Generic) Placeholders() PlaceholderStyle { return PlaceholderQuestion }
func (Generic) LimitClause(limit, offset int) string {
	return limitOffset(limit, offset)
}
