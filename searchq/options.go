package searchq

// Direction values accepted by sort requests. Anything else is dropped.
const (
	Asc  = "asc"
	Desc = "desc"
)

// SortRequest is one user-requested ordering term.
type SortRequest struct {
	Column string
	Dir    string
}

// SearchOptions configures a search invocation.
type SearchOptions struct {
	// ApplyJoins controls whether the declared joins and the
	// deduplicating grouping are added to the scored subquery. Turn it
	// off when AddJoins was already applied to the incoming query.
	ApplyJoins bool

	// Threshold overrides the default relevance cutoff, the mean of the
	// configured weights. Must not be negative.
	Threshold *float64

	// EntireText adds whole-phrase match tiers when the query has more
	// than one token.
	EntireText bool

	// EntireTextOnly emits only the whole-phrase tiers, regardless of
	// token count.
	EntireTextOnly bool
}

// DefaultSearchOptions returns the options Search uses when the caller has
// no special requirements.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{ApplyJoins: true}
}
