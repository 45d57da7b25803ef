package qb

import (
	"reflect"
	"strings"
	"testing"

	"github.com/searchq/searchq/searchq/dialect"
)

func TestRenderBare(t *testing.T) {
	q := New(dialect.MySQL{}, "users")
	if got := q.RawSQL(); got != "select * from `users`" {
		t.Fatalf("unexpected SQL: %q", got)
	}
	if args := q.Bindings(); len(args) != 0 {
		t.Fatalf("expected no bindings, got %v", args)
	}
}

func TestRenderClauseOrder(t *testing.T) {
	q := New(dialect.MySQL{}, "users").
		AddSelect("? as flag", 1).
		FromRaw("(select id from src where k = ?) as `users`", 2).
		LeftJoin("posts", func(j *JoinClause) {
			j.OnRaw("`posts`.`x` = ?", 3)
		}).
		Where("`users`.`id` = ?", 4).
		GroupBy("`users`.`id`").
		Having("count(*) > ?", 5).
		OrderByRaw("field(id, ?)", 6)

	wantSQL := "select ? as flag" +
		" from (select id from src where k = ?) as `users`" +
		" left join `posts` on `posts`.`x` = ?" +
		" where `users`.`id` = ?" +
		" group by `users`.`id`" +
		" having count(*) > ?" +
		" order by field(id, ?)"
	if got := q.RawSQL(); got != wantSQL {
		t.Fatalf("unexpected SQL:\n got %q\nwant %q", got, wantSQL)
	}

	// Bindings flatten in the same order the clauses render.
	want := []any{1, 2, 3, 4, 5, 6}
	if got := q.Bindings(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected bindings %v, got %v", want, got)
	}
}

func TestBindingCountMatchesPlaceholders(t *testing.T) {
	q := New(dialect.MySQL{}, "users").
		Where("a = ?", 1).
		Where("b in (?, ?)", 2, 3).
		Having("c = ?", 4)
	if n, b := strings.Count(q.RawSQL(), "?"), len(q.Bindings()); n != b {
		t.Fatalf("%d placeholders but %d bindings", n, b)
	}
}

func TestJoinPredicatesAnded(t *testing.T) {
	q := New(dialect.MySQL{}, "users").Join("posts", func(j *JoinClause) {
		j.On("`users`.`id`", "=", "`posts`.`user_id`")
		j.OnRaw("`posts`.`status` = ?", "live")
	})
	want := "select * from `users` inner join `posts` on `users`.`id` = `posts`.`user_id` and `posts`.`status` = ?"
	if got := q.RawSQL(); got != want {
		t.Fatalf("unexpected SQL: %q", got)
	}
}

func TestCloneIndependence(t *testing.T) {
	q := New(dialect.MySQL{}, "users").Where("a = ?", 1)
	before := q.RawSQL()

	c := q.Clone().
		Where("b = ?", 2).
		GroupBy("`users`.`id`").
		OrderBy("`users`.`name`", "asc").
		Limit(5)

	if q.RawSQL() != before {
		t.Fatalf("mutating the clone changed the original: %q", q.RawSQL())
	}
	if c.RawSQL() == before {
		t.Fatal("clone was not mutated")
	}
	if len(q.Bindings()) != 1 {
		t.Fatalf("original bindings changed: %v", q.Bindings())
	}
}

func TestSelectReplacesAddSelectAppends(t *testing.T) {
	q := New(dialect.MySQL{}, "users")
	if q.HasSelect() {
		t.Fatal("fresh query should have no select list")
	}
	q.Select("`users`.`id`").AddSelect("count(*) as n")
	if got := q.RawSQL(); got != "select `users`.`id`, count(*) as n from `users`" {
		t.Fatalf("unexpected SQL: %q", got)
	}
	q.Select("`users`.`name`")
	if got := q.RawSQL(); got != "select `users`.`name` from `users`" {
		t.Fatalf("Select should replace the list: %q", got)
	}
}

func TestScopesApplyOncePerRender(t *testing.T) {
	q := New(dialect.MySQL{}, "users").WithScope("active", func(s *Query) {
		s.Where("`users`.`active` = ?", 1)
	})

	first := q.SQL()
	second := q.SQL()
	if first != second {
		t.Fatalf("repeated rendering diverged: %q vs %q", first, second)
	}
	if strings.Count(first, "?") != 1 {
		t.Fatalf("scope applied more than once: %q", first)
	}
	if len(q.Bindings()) != 1 {
		t.Fatalf("expected one binding, got %v", q.Bindings())
	}
}

func TestWithoutScopes(t *testing.T) {
	q := New(dialect.MySQL{}, "users").WithScope("active", func(s *Query) {
		s.Where("`users`.`active` = ?", 1)
	})
	q.WithoutScopes()
	if got := q.RawSQL(); got != "select * from `users`" {
		t.Fatalf("scope survived WithoutScopes: %q", got)
	}
}

func TestClearJoinsAndGroups(t *testing.T) {
	q := New(dialect.MySQL{}, "users").
		LeftJoin("posts", func(j *JoinClause) {
			j.On("`users`.`id`", "=", "`posts`.`user_id`")
		}).
		GroupBy("`users`.`id`")
	q.ClearJoins().ClearGroups()
	if got := q.RawSQL(); got != "select * from `users`" {
		t.Fatalf("clear left residue: %q", got)
	}
}

func TestPlaceholderRewrite(t *testing.T) {
	q := New(dialect.Postgres{}, "users").
		Where("a = ?", 1).
		Where("b = ?", 2)

	if got := q.RawSQL(); got != "select * from users where a = ? and b = ?" {
		t.Fatalf("raw form must keep question marks: %q", got)
	}
	if got := q.SQL(); got != "select * from users where a = $1 and b = $2" {
		t.Fatalf("unexpected rewritten SQL: %q", got)
	}

	sql, args := q.ToSQL()
	if sql != q.SQL() || len(args) != 2 {
		t.Fatalf("ToSQL mismatch: %q %v", sql, args)
	}
}

func TestPlaceholderRewriteSkipsQuotedLiterals(t *testing.T) {
	q := New(dialect.Postgres{}, "users").
		Where("status = 'live?'").
		Where("note = 'it''s ok?'").
		Where("active = ?", 1)

	want := "select * from users where status = 'live?' and note = 'it''s ok?' and active = $1"
	if got := q.SQL(); got != want {
		t.Fatalf("unexpected SQL:\n got %q\nwant %q", got, want)
	}
	if len(q.Bindings()) != 1 {
		t.Fatalf("expected one binding, got %v", q.Bindings())
	}
}

func TestLimitRendering(t *testing.T) {
	q := New(dialect.MySQL{}, "users").Limit(5).Offset(10)
	if got := q.RawSQL(); got != "select * from `users` limit 5 offset 10" {
		t.Fatalf("unexpected SQL: %q", got)
	}

	s := New(dialect.SQLServer{}, "users").OrderByRaw("`id` asc").Limit(5).Offset(10)
	want := "select * from `users` order by `id` asc offset 10 rows fetch next 5 rows only"
	if got := s.RawSQL(); got != want {
		t.Fatalf("unexpected SQL: %q", got)
	}
}
