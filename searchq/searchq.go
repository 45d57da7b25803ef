// Package searchq augments SQL queries with relevance-ranked multi-column
// text search and allow-listed sorting, computed entirely inside the
// database: a free-text query and a weighted column map become a scored
// subquery that merges back into the caller's query without disturbing its
// other clauses.
package searchq

import (
	"github.com/searchq/searchq/searchq/dialect"
	"github.com/searchq/searchq/searchq/planner"
	"github.com/searchq/searchq/searchq/qb"
	"github.com/searchq/searchq/searchq/score"
	"github.com/searchq/searchq/searchq/token"
)

// Model binds a validated search configuration to a connection's dialect
// and table prefix. A Model is immutable and safe for concurrent use; all
// per-invocation state lives in the query values passed through it.
type Model struct {
	cfg     Config
	dialect dialect.Dialect
	prefix  string
	plan    *planner.Plan
}

// New builds a Model for the given driver and table prefix. Configuration
// errors surface here, before any query is augmented.
func New(cfg Config, driver, tablePrefix string) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := dialect.ForDriver(driver)
	m := &Model{cfg: cfg, dialect: d, prefix: tablePrefix}
	m.plan = m.buildPlan()
	return m, nil
}

// Dialect returns the dialect the model renders with.
func (m *Model) Dialect() dialect.Dialect { return m.dialect }

// TableName returns the prefixed base table name.
func (m *Model) TableName() string { return m.prefix + m.cfg.Table }

// Query returns a fresh query over the model's base table.
func (m *Model) Query() *qb.Query {
	return qb.New(m.dialect, m.TableName())
}

// Search augments q with relevance scoring for text. The incoming query is
// cloned into a scored subquery (joins, grouping, projection, threshold
// filter, relevance ordering) and merged back as the FROM source of the
// original, so filters and selects already on q keep working. Empty or
// blank text returns q unchanged.
func (m *Model) Search(q *qb.Query, text string, opts SearchOptions) (*qb.Query, error) {
	if opts.Threshold != nil && *opts.Threshold < 0 {
		return nil, ValidationError("relevance threshold must not be negative")
	}

	normalized := token.Normalize(text)
	if normalized == "" {
		return q, nil
	}
	tokens := token.Tokenize(text)

	sub := q.Clone()
	if opts.ApplyJoins {
		planner.ApplyJoins(sub, m.dialect, m.plan)
		planner.ApplyGrouping(sub, m.dialect, m.plan)
	}

	frags, basis := score.Build(m.dialect, m.plan.Columns, tokens, normalized, opts.EntireText, opts.EntireTextOnly)
	threshold := basis.DefaultThreshold()
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	planner.ApplySearch(sub, m.dialect, m.plan, frags, threshold)

	if len(frags) == 0 {
		return q, nil
	}
	return planner.Merge(sub, q, m.dialect, m.TableName()), nil
}

// Sort appends ordering clauses for the valid requests, dropping entries
// whose column is outside the allow-list or whose direction is unknown. An
// empty request list returns q unchanged. With applyJoins the ordering is
// computed on a joined, grouped subquery and merged back like Search does.
func (m *Model) Sort(q *qb.Query, reqs []SortRequest, applyJoins bool) *qb.Query {
	if len(reqs) == 0 {
		return q
	}
	if !applyJoins {
		planner.ApplySort(q, m.dialect, m.plan, toPlannerSorts(reqs))
		return q
	}

	sub := q.Clone()
	planner.ApplyJoins(sub, m.dialect, m.plan)
	planner.ApplyGrouping(sub, m.dialect, m.plan)
	planner.ApplySort(sub, m.dialect, m.plan, toPlannerSorts(reqs))
	return planner.Merge(sub, q, m.dialect, m.TableName())
}

// SearchSort searches, then sorts the merged result. Requested orderings
// take precedence over the relevance ordering, which lives inside the
// subquery.
func (m *Model) SearchSort(q *qb.Query, text string, reqs []SortRequest, opts SearchOptions) (*qb.Query, error) {
	searched, err := m.Search(q, text, opts)
	if err != nil {
		return nil, err
	}
	planner.ApplySort(searched, m.dialect, m.plan, toPlannerSorts(reqs))
	return searched, nil
}

// AddJoins applies the declared joins and deduplicating grouping directly to
// q, for callers composing manually with SearchOptions.ApplyJoins disabled.
func (m *Model) AddJoins(q *qb.Query) *qb.Query {
	planner.ApplyJoins(q, m.dialect, m.plan)
	planner.ApplyGrouping(q, m.dialect, m.plan)
	return q
}

// DefaultThreshold is the relevance cutoff used when SearchOptions carries
// none: the mean of the configured column weights.
func (m *Model) DefaultThreshold() float64 {
	basis := score.Basis{ColumnCount: len(m.plan.Columns)}
	for _, c := range m.plan.Columns {
		basis.WeightSum += c.Weight
	}
	return basis.DefaultThreshold()
}

// buildPlan resolves the configuration against the connection: prefixes are
// applied once, the column set is ordered, and join declarations are
// flattened, so every invocation works from the same resolved view.
func (m *Model) buildPlan() *planner.Plan {
	cfg := m.cfg
	p := &planner.Plan{
		Table:          m.TableName(),
		PrimaryKey:     m.TableName() + "." + cfg.primaryKey(),
		RelevanceField: cfg.relevanceField(),
		Columns: score.Resolve(cfg.SearchColumns, func(ref string) string {
			return planner.PrefixRef(m.prefix, ref)
		}),
		SortColumns: make(map[string]string, len(cfg.SortColumns)),
	}
	for _, ref := range cfg.SortColumns {
		p.SortColumns[ref] = planner.PrefixRef(m.prefix, ref)
	}
	for _, table := range cfg.joinTables() {
		j := cfg.Joins[table]
		pj := planner.Join{
			Table:    m.prefix + table,
			LeftKey:  planner.PrefixRef(m.prefix, j.LeftKey),
			RightKey: planner.PrefixRef(m.prefix, j.RightKey),
		}
		if j.Extra != nil {
			pj.ExtraColumn = planner.PrefixRef(m.prefix, j.Extra.Column)
			pj.ExtraValue = j.Extra.Value
			pj.HasExtra = true
		}
		p.Joins = append(p.Joins, pj)
	}
	for _, g := range cfg.GroupBy {
		p.GroupBy = append(p.GroupBy, planner.PrefixRef(m.prefix, g))
	}
	for _, c := range cfg.TableColumns {
		p.TableColumns = append(p.TableColumns, planner.PrefixRef(m.prefix, c))
	}
	return p
}

func toPlannerSorts(reqs []SortRequest) []planner.SortRequest {
	out := make([]planner.SortRequest, len(reqs))
	for i, r := range reqs {
		out[i] = planner.SortRequest{Column: r.Column, Dir: r.Dir}
	}
	return out
}
