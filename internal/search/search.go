// Package search implements pure in-memory matching of catalog records
// against a query string: plain substring search, prefix/suffix/fuzzy/regex
// strategies, weighted ranking, and match highlighting. All functions leave
// their input slice untouched.
package search

import (
	"maps"
	"regexp"
	"sort"
	"strings"

	"github.com/utafrali/storefront/pkg/fieldpath"
)

// Basic filters records to those where at least one mapped key's value
// contains (or, with ExactMatch, equals) the query. An empty query or an
// empty key map returns the input unchanged.
func Basic(records []Record, query string, opts Options) []Record {
	if isPassThrough(records, query, opts) {
		return records
	}

	q := normalize(query, opts.CaseSensitive)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if opts.Matcher != nil && opts.Matcher(rec, q, opts) {
			out = append(out, rec)
			continue
		}
		if matchesAnyKey(rec, q, opts, func(value, query string) bool {
			if opts.ExactMatch {
				return value == query
			}
			return strings.Contains(value, query)
		}) {
			out = append(out, rec)
		}
	}
	return out
}

// ByStrategy filters records using the strategy selected in opts. The ranked
// strategy delegates to Ranked; a regex that does not compile matches no
// record and never surfaces an error.
func ByStrategy(records []Record, query string, opts Options) []Record {
	if isPassThrough(records, query, opts) {
		return records
	}

	switch opts.Strategy {
	case StrategyRanked:
		return Ranked(records, query, opts)
	case StrategyRegex:
		return regexSearch(records, query, opts)
	case StrategyFuzzy:
		return predicateSearch(records, query, opts, func(value, query string) bool {
			return fuzzyScore(value, query) >= opts.minScore()
		})
	case StrategyStartsWith:
		return predicateSearch(records, query, opts, strings.HasPrefix)
	case StrategyEndsWith:
		return predicateSearch(records, query, opts, strings.HasSuffix)
	default:
		return predicateSearch(records, query, opts, strings.Contains)
	}
}

// Ranked scores every record against the query and returns the matching
// records ordered by descending score. A key's score rewards early and
// relatively long matches; per-field weights multiply in, and a record's
// overall score is the mean over its matching keys. Records with no matching
// key are excluded. The sort is stable, so ties keep input order.
func Ranked(records []Record, query string, opts Options) []Record {
	if isPassThrough(records, query, opts) {
		return records
	}

	q := normalize(query, opts.CaseSensitive)
	qLen := float64(len(q))

	type scored struct {
		rec   Record
		score float64
	}

	matched := make([]scored, 0, len(records))
	for _, rec := range records {
		var total float64
		var count int

		for field, path := range opts.Keys {
			value, ok := resolveString(rec, path)
			if !ok {
				continue
			}
			value = normalize(value, opts.CaseSensitive)

			idx := strings.Index(value, q)
			if idx < 0 || len(value) == 0 {
				continue
			}

			vLen := float64(len(value))
			score := (1 - float64(idx)/vLen + qLen/vLen) / 2
			total += score * opts.weight(field)
			count++
		}

		if count > 0 {
			matched = append(matched, scored{rec: rec, score: total / float64(count)})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	out := make([]Record, len(matched))
	for i, s := range matched {
		out[i] = s.rec
	}
	return out
}

// Highlight runs Basic and wraps every occurrence of the literal query in
// the matching keys' values with <mark> tags. Regex metacharacters in the
// query are escaped, and the returned records are copies along the modified
// paths, so the input records stay untouched.
func Highlight(records []Record, query string, opts Options) []Record {
	matched := Basic(records, query, opts)
	if isPassThrough(records, query, opts) {
		return matched
	}

	flags := "(?i)"
	if opts.CaseSensitive {
		flags = ""
	}
	pattern, err := regexp.Compile(flags + regexp.QuoteMeta(query))
	if err != nil {
		return matched
	}

	q := normalize(query, opts.CaseSensitive)

	out := make([]Record, 0, len(matched))
	for _, rec := range matched {
		highlighted := rec
		for _, path := range opts.Keys {
			value, ok := resolveString(highlighted, path)
			if !ok {
				continue
			}
			if !strings.Contains(normalize(value, opts.CaseSensitive), q) {
				continue
			}
			wrapped := pattern.ReplaceAllString(value, "<mark>$0</mark>")
			highlighted = withValue(highlighted, path, wrapped)
		}
		out = append(out, highlighted)
	}
	return out
}

// isPassThrough reports whether the call must return the input unchanged.
func isPassThrough(records []Record, query string, opts Options) bool {
	return len(records) == 0 || query == "" || len(opts.Keys) == 0
}

// predicateSearch keeps records where any mapped key's normalized value
// satisfies the predicate.
func predicateSearch(records []Record, query string, opts Options, pred func(value, query string) bool) []Record {
	q := normalize(query, opts.CaseSensitive)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if opts.Matcher != nil && opts.Matcher(rec, q, opts) {
			out = append(out, rec)
			continue
		}
		if matchesAnyKey(rec, q, opts, pred) {
			out = append(out, rec)
		}
	}
	return out
}

// regexSearch keeps records where any mapped key's value matches the
// compiled query pattern. A pattern that does not compile matches nothing.
func regexSearch(records []Record, query string, opts Options) []Record {
	pattern, err := regexp.Compile(goFlags(opts.RegexFlags) + query)
	if err != nil {
		return []Record{}
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		for _, path := range opts.Keys {
			value, ok := resolveString(rec, path)
			if !ok {
				continue
			}
			if pattern.MatchString(value) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// fuzzyScore walks target left to right consuming query characters in
// order. It returns matched/len(query) when the whole query appears as an
// in-order subsequence, else 0.
func fuzzyScore(target, query string) float64 {
	if query == "" {
		return 0
	}

	qr := []rune(query)
	qi := 0
	matched := 0
	for _, ch := range target {
		if qi < len(qr) && ch == qr[qi] {
			qi++
			matched++
		}
	}

	if qi < len(qr) {
		return 0
	}
	return float64(matched) / float64(len(qr))
}

// matchesAnyKey reports whether any mapped key's resolved value satisfies
// the predicate. Missing and null values never match.
func matchesAnyKey(rec Record, query string, opts Options, pred func(value, query string) bool) bool {
	for _, path := range opts.Keys {
		value, ok := resolveString(rec, path)
		if !ok {
			continue
		}
		if pred(normalize(value, opts.CaseSensitive), query) {
			return true
		}
	}
	return false
}

// resolveString resolves a dotted path and coerces the value to a string.
func resolveString(rec Record, path string) (string, bool) {
	v, ok := fieldpath.Get(rec, path)
	if !ok {
		return "", false
	}
	return fieldpath.String(v)
}

// normalize case-folds s unless the call is case sensitive.
func normalize(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// goFlags translates JS-style regex flag letters into a Go inline flag
// group. The "g" flag has no Go equivalent and is ignored.
func goFlags(flags string) string {
	var b strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			b.WriteRune(f)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

// withValue returns a copy of rec with the value at the dotted path
// replaced. Maps along the path are cloned so the original record graph is
// never mutated.
func withValue(rec Record, path string, value any) Record {
	segments := strings.Split(path, ".")

	clone := maps.Clone(rec)
	current := clone
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			return clone
		}
		nextClone := maps.Clone(next)
		current[seg] = nextClone
		current = nextClone
	}
	current[segments[len(segments)-1]] = value
	return clone
}
