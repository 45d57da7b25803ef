package searchq

import (
	"sort"
	"strings"
)

const (
	DefaultPrimaryKey     = "id"
	DefaultRelevanceField = "relevance"
)

// JoinEquality is an optional extra equality condition on a join. The value
// is inlined as a literal; it comes from model configuration and must never
// carry request input.
type JoinEquality struct {
	Column string
	Value  string
}

// Join declares a left outer join used to search or sort across a relation.
type Join struct {
	LeftKey  string
	RightKey string
	Extra    *JoinEquality
}

// Config is a model's search/sort definition. It is read-only at query
// time; Validate is called once when the model is constructed.
type Config struct {
	// Table is the unprefixed base table name.
	Table string

	// PrimaryKey is the base table's key column, defaulting to "id".
	PrimaryKey string

	// RelevanceField is the alias of the projected score column,
	// defaulting to "relevance".
	RelevanceField string

	// SearchColumns maps qualified table.column references to weights.
	// Higher weight means more important; equal weights rank equally.
	SearchColumns map[string]float64

	// SortColumns is the allow-list of sortable references. Requests for
	// anything else are dropped silently.
	SortColumns []string

	// Joins maps joined table names to their join declarations.
	Joins map[string]Join

	// GroupBy, when set, overrides the derived deduplicating grouping.
	GroupBy []string

	// TableColumns lists the base table's selectable columns, used as the
	// grouping set on dialects that reject primary-key-only grouping.
	TableColumns []string
}

// Validate fails fast on a misconfigured model instead of falling back to
// scanning schema columns.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Table) == "" {
		return ConfigError("table name is required")
	}
	if len(c.SearchColumns) == 0 {
		return ConfigError("at least one search column with a weight is required")
	}
	for ref, w := range c.SearchColumns {
		if strings.TrimSpace(ref) == "" {
			return ConfigError("search column reference must not be empty")
		}
		if w < 0 {
			return ConfigColumnError(ref, "search column weight must not be negative")
		}
	}
	for _, ref := range c.SortColumns {
		if strings.TrimSpace(ref) == "" {
			return ConfigError("sort column reference must not be empty")
		}
	}
	for table, j := range c.Joins {
		if strings.TrimSpace(table) == "" {
			return ConfigError("join table name must not be empty")
		}
		if strings.TrimSpace(j.LeftKey) == "" || strings.TrimSpace(j.RightKey) == "" {
			return ConfigColumnError(table, "join requires both key columns")
		}
		if j.Extra != nil && strings.TrimSpace(j.Extra.Column) == "" {
			return ConfigColumnError(table, "join extra equality requires a column")
		}
	}
	return nil
}

// primaryKey returns the configured or default key column name.
func (c Config) primaryKey() string {
	if c.PrimaryKey != "" {
		return c.PrimaryKey
	}
	return DefaultPrimaryKey
}

// relevanceField returns the configured or default relevance alias.
func (c Config) relevanceField() string {
	if c.RelevanceField != "" {
		return c.RelevanceField
	}
	return DefaultRelevanceField
}

// joinTables returns the joined table names in deterministic order.
func (c Config) joinTables() []string {
	out := make([]string, 0, len(c.Joins))
	for t := range c.Joins {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
