// Package score builds the weighted SQL case expressions behind the
// relevance column. Each fragment is a pure function of (column, weight,
// token, tier); bindings are emitted strictly in fragment order and are
// never reordered independently of the SQL text.
package score

import (
	"sort"
	"strconv"

	"github.com/searchq/searchq/searchq/dialect"
)

// Multipliers per match tier. More specific matches score higher.
const (
	TierExact     = 15
	TierPrefix    = 5
	TierSubstring = 1
	PhraseExact   = 50
	PhraseInside  = 30
)

// Column is one search column with its configured weight, already prefixed
// for the active connection.
type Column struct {
	Ref    string
	Weight float64
}

// Fragment is one "case when match then weight else 0 end" expression and
// the bound match values for its placeholders.
type Fragment struct {
	SQL      string
	Bindings []any
}

// Basis carries the weight sum and column count of the resolved column set.
// Both come from the same set the fragments were built from, so the default
// threshold derived here is consistent with the emitted expression.
type Basis struct {
	WeightSum   float64
	ColumnCount int
}

// DefaultThreshold is the relevance cutoff used when the caller supplies
// none: the mean configured weight.
func (b Basis) DefaultThreshold() float64 {
	if b.ColumnCount == 0 {
		return 0
	}
	return b.WeightSum / float64(b.ColumnCount)
}

// Resolve orders a weighted column map deterministically. Fragment order,
// binding order and the threshold basis all derive from this one set.
func Resolve(columns map[string]float64, prefix func(string) string) []Column {
	out := make([]Column, 0, len(columns))
	for ref, w := range columns {
		if prefix != nil {
			ref = prefix(ref)
		}
		out = append(out, Column{Ref: ref, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

// Build emits scoring fragments for every column and token. Unless
// entireTextOnly, each token contributes exact, prefix and substring tiers
// per column. Whole-phrase tiers bind the full normalized query text and are
// added when entireText is set and the query has more than one token, or
// unconditionally when entireTextOnly is set. Wildcards are baked into the
// bound values, never into the SQL text.
func Build(d dialect.Dialect, columns []Column, tokens []string, normalized string, entireText, entireTextOnly bool) ([]Fragment, Basis) {
	basis := Basis{ColumnCount: len(columns)}
	for _, c := range columns {
		basis.WeightSum += c.Weight
	}

	phrases := entireTextOnly || (entireText && len(tokens) > 1)

	var frags []Fragment
	for _, c := range columns {
		if !entireTextOnly {
			for _, tok := range tokens {
				frags = append(frags,
					caseFragment(d, c.Ref, c.Weight*TierExact, tok),
					caseFragment(d, c.Ref, c.Weight*TierPrefix, tok+"%"),
					caseFragment(d, c.Ref, c.Weight*TierSubstring, "%"+tok+"%"),
				)
			}
		}
		if phrases {
			frags = append(frags,
				caseFragment(d, c.Ref, c.Weight*PhraseExact, normalized),
				caseFragment(d, c.Ref, c.Weight*PhraseInside, "%"+normalized+"%"),
			)
		}
	}
	return frags, basis
}

// Sum joins fragments into one arithmetic expression and flattens their
// bindings in the same order.
func Sum(frags []Fragment) (string, []any) {
	var sb []byte
	var args []any
	for i, f := range frags {
		if i > 0 {
			sb = append(sb, " + "...)
		}
		sb = append(sb, f.SQL...)
		args = append(args, f.Bindings...)
	}
	return string(sb), args
}

func caseFragment(d dialect.Dialect, ref string, weight float64, value string) Fragment {
	return Fragment{
		SQL:      "case when " + d.QuoteIdent(ref) + " " + d.Operator() + " ? then " + formatWeight(weight) + " else 0 end",
		Bindings: []any{value},
	}
}

// formatWeight prints a weight without a spurious exponent or trailing
// zeros, so 10*15 renders as 150 and 2.5*5 as 12.5.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
