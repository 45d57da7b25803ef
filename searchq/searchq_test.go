package searchq_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/searchq/searchq/searchq"
)

func usersConfig() searchq.Config {
	return searchq.Config{
		Table: "users",
		SearchColumns: map[string]float64{
			"users.name": 10,
			"users.bio":  2,
		},
		SortColumns: []string{"users.name", "users.age"},
	}
}

func newModel(t *testing.T, cfg searchq.Config, driver, prefix string) *searchq.Model {
	t.Helper()
	m, err := searchq.New(cfg, driver, prefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestSearchTwoTokens(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	q, err := m.Search(m.Query(), " Jo hn ", searchq.DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	sql := q.RawSQL()
	if !strings.HasPrefix(sql, "select * from (select `users`.*, max(case when") {
		t.Fatalf("merged query must select from the scored subquery: %q", sql)
	}
	if !strings.Contains(sql, ") as `users`") {
		t.Fatalf("subquery must be aliased as the base table: %q", sql)
	}
	if !strings.Contains(sql, "then 150 else 0 end") {
		t.Fatalf("missing weighted exact tier: %q", sql)
	}
	if !strings.Contains(sql, "group by `users`.`id`") {
		t.Fatalf("missing deduplicating grouping: %q", sql)
	}
	// Default threshold: (10+2)/2, interpolated with two decimals.
	if !strings.Contains(sql, "having relevance >= 6.00") {
		t.Fatalf("missing threshold filter: %q", sql)
	}
	if !strings.Contains(sql, "order by relevance desc") {
		t.Fatalf("missing relevance ordering: %q", sql)
	}

	// Columns in deterministic order, three tiers per token, wildcards in
	// the values. The threshold never appears among the bindings.
	want := []any{
		"jo", "jo%", "%jo%", "hn", "hn%", "%hn%",
		"jo", "jo%", "%jo%", "hn", "hn%", "%hn%",
	}
	if got := q.Bindings(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected bindings:\n got %v\nwant %v", got, want)
	}
}

func TestSearchEntireTextOnly(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	opts := searchq.DefaultSearchOptions()
	opts.EntireTextOnly = true
	q, err := m.Search(m.Query(), "Paris", opts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	sql := q.RawSQL()
	if strings.Contains(sql, "then 150 else") {
		t.Fatalf("token tiers must be absent: %q", sql)
	}
	if !strings.Contains(sql, "then 500 else") || !strings.Contains(sql, "then 300 else") {
		t.Fatalf("missing phrase tiers: %q", sql)
	}

	want := []any{"paris", "%paris%", "paris", "%paris%"}
	if got := q.Bindings(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected bindings: %v", got)
	}
}

func TestSearchBlankTextIsNoop(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")
	q := m.Query()

	got, err := m.Search(q, "   ", searchq.DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != q {
		t.Fatal("blank text must return the incoming query unchanged")
	}
}

func TestSearchNegativeThreshold(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	opts := searchq.DefaultSearchOptions()
	th := -1.0
	opts.Threshold = &th
	_, err := m.Search(m.Query(), "jo", opts)
	if !searchq.IsKind(err, searchq.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestSearchThresholdOverride(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	opts := searchq.DefaultSearchOptions()
	th := 8.0
	opts.Threshold = &th
	q, err := m.Search(m.Query(), "jo", opts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(q.RawSQL(), ">= 8.00") {
		t.Fatalf("override not applied: %q", q.RawSQL())
	}
}

func TestSearchPostgres(t *testing.T) {
	m := newModel(t, usersConfig(), "pgsql", "")

	q, err := m.Search(m.Query(), "Jo hn", searchq.DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	sql := q.SQL()
	if !strings.Contains(sql, "ILIKE $1") {
		t.Fatalf("missing pgsql operator or placeholder: %q", sql)
	}
	// No alias in HAVING: the scoring expression repeats, doubling the
	// match bindings. Numbering spans the whole composed statement.
	if !strings.Contains(sql, "$24") {
		t.Fatalf("expected 24 placeholders, got: %q", sql)
	}
	if len(q.Bindings()) != 24 {
		t.Fatalf("expected 24 bindings, got %d", len(q.Bindings()))
	}
}

func TestSearchKeepsOriginalClauses(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	q := m.Query().Where("`users`.`active` = ?", 1)
	merged, err := m.Search(q, "jo", searchq.DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	sql := merged.RawSQL()
	// The filter appears twice: inside the cloned subquery and on the
	// merged outer query, both against the aliased base table name.
	if strings.Count(sql, "`users`.`active` = ?") != 2 {
		t.Fatalf("original filter lost or duplicated wrongly: %q", sql)
	}
	// 6 match bindings, then the subquery's filter, then the outer one.
	args := merged.Bindings()
	if len(args) != 8 || args[6] != 1 || args[7] != 1 {
		t.Fatalf("unexpected binding layout: %v", args)
	}
}

func TestSearchJoinRoundTrip(t *testing.T) {
	cfg := searchq.Config{
		Table: "posts",
		SearchColumns: map[string]float64{
			"posts.title":  5,
			"authors.name": 5,
		},
		Joins: map[string]searchq.Join{
			"authors": {LeftKey: "posts.author_id", RightKey: "authors.id"},
		},
	}
	m := newModel(t, cfg, "mysql", "pre_")

	manual := m.Query()
	m.AddJoins(manual)
	a, err := m.Search(manual, "go", searchq.SearchOptions{ApplyJoins: false})
	if err != nil {
		t.Fatalf("Search (manual joins): %v", err)
	}

	b, err := m.Search(m.Query(), "go", searchq.DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search (automatic joins): %v", err)
	}

	if a.RawSQL() != b.RawSQL() {
		t.Fatalf("pre-applied joins must compose identically:\n a %q\n b %q", a.RawSQL(), b.RawSQL())
	}
	if !reflect.DeepEqual(a.Bindings(), b.Bindings()) {
		t.Fatalf("binding mismatch:\n a %v\n b %v", a.Bindings(), b.Bindings())
	}

	sql := b.RawSQL()
	if !strings.Contains(sql, "left join `pre_authors` on `pre_posts`.`author_id` = `pre_authors`.`id`") {
		t.Fatalf("missing prefixed join: %q", sql)
	}
	if !strings.Contains(sql, "group by `pre_posts`.`id`, `pre_authors`.`name`") {
		t.Fatalf("joined search column must join the grouping: %q", sql)
	}
}

func TestSortAllowList(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	q := m.Sort(m.Query(), []searchq.SortRequest{{Column: "users.evil", Dir: searchq.Asc}}, false)
	if strings.Contains(q.RawSQL(), "order by") {
		t.Fatalf("unknown column must not order: %q", q.RawSQL())
	}

	q = m.Sort(m.Query(), []searchq.SortRequest{
		{Column: "users.name", Dir: searchq.Desc},
		{Column: "users.age", Dir: searchq.Asc},
	}, false)
	if !strings.HasSuffix(q.RawSQL(), "order by `users`.`name` desc, `users`.`age` asc") {
		t.Fatalf("unexpected ordering: %q", q.RawSQL())
	}
}

func TestSortEmptyIsNoop(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")
	q := m.Query()
	if got := m.Sort(q, nil, true); got != q {
		t.Fatal("empty request list must return the incoming query unchanged")
	}
}

func TestSearchSortOrderPrecedence(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")

	q, err := m.SearchSort(m.Query(), "jo", []searchq.SortRequest{
		{Column: "users.name", Dir: searchq.Asc},
	}, searchq.DefaultSearchOptions())
	if err != nil {
		t.Fatalf("SearchSort: %v", err)
	}

	sql := q.RawSQL()
	// Relevance ordering lives inside the subquery; the requested sort
	// orders the outer result.
	if !strings.HasSuffix(sql, "order by `users`.`name` asc") {
		t.Fatalf("requested sort must win on the outer query: %q", sql)
	}
	if !strings.Contains(sql, "order by relevance desc)") {
		t.Fatalf("relevance ordering must stay inside the subquery: %q", sql)
	}
}

func TestDefaultThreshold(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "")
	if got := m.DefaultThreshold(); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
}

func TestTableNamePrefix(t *testing.T) {
	m := newModel(t, usersConfig(), "mysql", "pre_")
	if got := m.TableName(); got != "pre_users" {
		t.Fatalf("expected pre_users, got %q", got)
	}
	if got := m.Query().RawSQL(); got != "select * from `pre_users`" {
		t.Fatalf("unexpected base query: %q", got)
	}
}

func TestConfigValidation(t *testing.T) {
	_, err := searchq.New(searchq.Config{}, "mysql", "")
	if !searchq.IsKind(err, searchq.ErrConfig) {
		t.Fatalf("missing table must fail, got %v", err)
	}

	_, err = searchq.New(searchq.Config{Table: "users"}, "mysql", "")
	if !searchq.IsKind(err, searchq.ErrConfig) {
		t.Fatalf("missing search columns must fail, got %v", err)
	}

	cfg := usersConfig()
	cfg.SearchColumns["users.name"] = -1
	_, err = searchq.New(cfg, "mysql", "")
	var serr *searchq.Error
	if !errors.As(err, &serr) || serr.Kind != searchq.ErrConfig || serr.Column != "users.name" {
		t.Fatalf("negative weight must name the column, got %v", err)
	}

	cfg = usersConfig()
	cfg.Joins = map[string]searchq.Join{"posts": {LeftKey: "posts.user_id"}}
	_, err = searchq.New(cfg, "mysql", "")
	if !searchq.IsKind(err, searchq.ErrConfig) {
		t.Fatalf("half-declared join must fail, got %v", err)
	}
}
