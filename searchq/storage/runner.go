package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchq/searchq/searchq"
	"github.com/searchq/searchq/searchq/qb"
)

// Runner executes composed queries against an open handle.
type Runner struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewRunner(db *sql.DB, log zerolog.Logger) *Runner {
	return &Runner{db: db, log: log}
}

// Page is one page of results with the total row count of the full query.
type Page struct {
	Rows    []map[string]any
	Total   int64
	Page    int
	PerPage int
}

// Query renders q and returns all rows as column-keyed maps.
func (r *Runner) Query(ctx context.Context, q *qb.Query) ([]map[string]any, error) {
	stmt, args := q.ToSQL()

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	r.log.Debug().
		Str("sql", stmt).
		Int("bindings", len(args)).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("query")
	if err != nil {
		return nil, searchq.Wrap(searchq.ErrSQL, "execute query", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, searchq.Wrap(searchq.ErrSQL, "scan rows", err)
	}
	return out, nil
}

// Paginate wraps q in a count query for the total, then fetches one
// limit/offset window. page is 1-based.
func (r *Runner) Paginate(ctx context.Context, q *qb.Query, page, perPage int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}

	total, err := r.Count(ctx, q)
	if err != nil {
		return Page{}, err
	}

	window := q.Clone().Limit(perPage).Offset((page - 1) * perPage)
	rowsOut, err := r.Query(ctx, window)
	if err != nil {
		return Page{}, err
	}

	return Page{Rows: rowsOut, Total: total, Page: page, PerPage: perPage}, nil
}

// Count runs q as a wrapped count subquery. Wrapping keeps grouping and
// having semantics intact: the count is of result rows, not base rows.
func (r *Runner) Count(ctx context.Context, q *qb.Query) (int64, error) {
	counter := qb.New(q.Dialect(), q.Table()).
		Select("count(*) as aggregate").
		FromRaw("("+q.RawSQL()+") as aggregate_table", q.Bindings()...)
	stmt, args := counter.ToSQL()

	var total int64
	err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&total)
	r.log.Debug().Str("sql", stmt).Int("bindings", len(args)).Err(err).Msg("count")
	if err != nil {
		return 0, searchq.Wrap(searchq.ErrSQL, "count rows", err)
	}
	return total, nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[c] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
