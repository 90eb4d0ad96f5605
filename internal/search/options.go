package search

// Record is a raw catalog record as decoded from the upstream JSON payload.
type Record = map[string]any

// KeyMap maps a logical field name (e.g. "title") to a dotted path locating
// that field's value inside a record (e.g. "category.name"). An empty key
// map turns every search into an identity pass-through.
type KeyMap map[string]string

// Strategy selects the matching algorithm for a search call.
type Strategy string

const (
	StrategyContains   Strategy = "contains"
	StrategyStartsWith Strategy = "starts_with"
	StrategyEndsWith   Strategy = "ends_with"
	StrategyFuzzy      Strategy = "fuzzy"
	StrategyRegex      Strategy = "regex"
	StrategyRanked     Strategy = "ranked"
)

// ValidStrategies returns the list of valid search strategies.
func ValidStrategies() []Strategy {
	return []Strategy{
		StrategyContains,
		StrategyStartsWith,
		StrategyEndsWith,
		StrategyFuzzy,
		StrategyRegex,
		StrategyRanked,
	}
}

// ParseStrategy maps a strategy string to a Strategy, defaulting to contains
// for empty or unknown input.
func ParseStrategy(s string) Strategy {
	for _, valid := range ValidStrategies() {
		if Strategy(s) == valid {
			return valid
		}
	}
	return StrategyContains
}

// DefaultMinScore is the fuzzy score threshold used when Options.MinScore is
// not set.
const DefaultMinScore = 0.3

// Matcher is a user-supplied predicate consulted before the built-in field
// matching. It receives the record, the normalized query, and the options of
// the current call.
type Matcher func(rec Record, query string, opts Options) bool

// Options configures a search call.
type Options struct {
	// Keys maps logical field names to dotted record paths. Required; an
	// empty map makes every search a no-op pass-through.
	Keys KeyMap

	// CaseSensitive disables case folding of values and query.
	CaseSensitive bool

	// ExactMatch requires whole-value equality instead of substring
	// containment (Basic search only).
	ExactMatch bool

	// Strategy selects the matching algorithm for ByStrategy.
	Strategy Strategy

	// Weights assigns per-field multipliers for ranked search. Fields
	// without an entry default to weight 1.
	Weights map[string]float64

	// MinScore is the fuzzy match threshold; values <= 0 fall back to
	// DefaultMinScore.
	MinScore float64

	// RegexFlags holds flag letters for the regex strategy ("i" for
	// case-insensitive, "m" multi-line, "s" dot-matches-newline). The "g"
	// flag is accepted and ignored. Defaults to "gi".
	RegexFlags string

	// Matcher, when set, can claim a record before field matching runs.
	Matcher Matcher
}

// DefaultOptions returns search options over the given key map with the
// defaults applied.
func DefaultOptions(keys KeyMap) Options {
	return Options{
		Keys:       keys,
		Strategy:   StrategyContains,
		MinScore:   DefaultMinScore,
		RegexFlags: "gi",
	}
}

// minScore returns the effective fuzzy threshold.
func (o Options) minScore() float64 {
	if o.MinScore <= 0 {
		return DefaultMinScore
	}
	return o.MinScore
}

// weight returns the ranked-search multiplier for a field.
func (o Options) weight(field string) float64 {
	if w, ok := o.Weights[field]; ok && w > 0 {
		return w
	}
	return 1
}
