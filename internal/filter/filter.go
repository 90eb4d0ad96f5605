// Package filter derives category facets and applies category/price-range
// filtering plus sorting to catalog records. Like the search package, every
// function is pure and leaves its input untouched.
package filter

import (
	"sort"
	"strings"

	"github.com/utafrali/storefront/internal/search"
	"github.com/utafrali/storefront/pkg/fieldpath"
)

// Record paths the filter engine reads.
const (
	titlePath    = "title"
	pricePath    = "price"
	categoryPath = "category.name"
)

// Sort options for filtered results.
const (
	SortNone      = ""
	SortTitleAsc  = "asc"
	SortTitleDesc = "desc"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// ValidSortOptions returns the list of valid sort options.
func ValidSortOptions() []string {
	return []string{SortTitleAsc, SortTitleDesc, SortPriceLow, SortPriceHigh}
}

// IsValidSort checks whether the given sort string is a valid sort option.
func IsValidSort(option string) bool {
	for _, s := range ValidSortOptions() {
		if option == s {
			return true
		}
	}
	return option == SortNone
}

// State holds the active filter and sort selections. Price bounds are kept
// as strings because they arrive raw from the client; an empty string means
// the bound is not set. min <= max is deliberately not enforced.
type State struct {
	Selected []string `json:"selected_categories"`
	MinPrice string   `json:"min_price"`
	MaxPrice string   `json:"max_price"`
	Sort     string   `json:"sort"`
}

// Active reports whether any filter or sort is in effect.
func (s State) Active() bool {
	return len(s.Selected) > 0 || s.MinPrice != "" || s.MaxPrice != "" || s.Sort != SortNone
}

// Categories returns the sorted set of distinct non-empty category names
// across the records, case-sensitive as given.
func Categories(records []search.Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		v, ok := fieldpath.Get(rec, categoryPath)
		if !ok {
			continue
		}
		name, ok := fieldpath.String(v)
		if !ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Apply filters records against the state. A record passes when its category
// is among the selected ones (or none are selected) and its price satisfies
// both bounds. A record with a non-numeric price passes the price filter
// only when no bound is set; a record missing its category fails a
// non-empty category filter. Apply is idempotent.
func Apply(records []search.Record, s State) []search.Record {
	minPrice, hasMin := fieldpath.Number(s.MinPrice)
	if s.MinPrice == "" {
		hasMin = false
	}
	maxPrice, hasMax := fieldpath.Number(s.MaxPrice)
	if s.MaxPrice == "" {
		hasMax = false
	}

	selected := make(map[string]struct{}, len(s.Selected))
	for _, c := range s.Selected {
		selected[c] = struct{}{}
	}

	out := make([]search.Record, 0, len(records))
	for _, rec := range records {
		if len(selected) > 0 {
			name, ok := recordCategory(rec)
			if !ok {
				continue
			}
			if _, ok := selected[name]; !ok {
				continue
			}
		}

		price, numeric := recordPrice(rec)
		if hasMin || hasMax {
			if !numeric {
				continue
			}
			if hasMin && price < minPrice {
				continue
			}
			if hasMax && price > maxPrice {
				continue
			}
		}

		out = append(out, rec)
	}
	return out
}

// SortRecords returns a new ordering of records without mutating the input.
// Title sorts compare lexicographically, price sorts numerically; the
// default keeps input order. All sorts are stable.
func SortRecords(records []search.Record, option string) []search.Record {
	out := make([]search.Record, len(records))
	copy(out, records)

	switch option {
	case SortTitleAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.Compare(recordTitle(out[i]), recordTitle(out[j])) < 0
		})
	case SortTitleDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.Compare(recordTitle(out[i]), recordTitle(out[j])) > 0
		})
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			pi, _ := recordPrice(out[i])
			pj, _ := recordPrice(out[j])
			return pi < pj
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			pi, _ := recordPrice(out[i])
			pj, _ := recordPrice(out[j])
			return pi > pj
		})
	}

	return out
}

func recordTitle(rec search.Record) string {
	v, ok := fieldpath.Get(rec, titlePath)
	if !ok {
		return ""
	}
	s, _ := fieldpath.String(v)
	return s
}

func recordPrice(rec search.Record) (float64, bool) {
	v, ok := fieldpath.Get(rec, pricePath)
	if !ok {
		return 0, false
	}
	return fieldpath.Number(v)
}

func recordCategory(rec search.Record) (string, bool) {
	v, ok := fieldpath.Get(rec, categoryPath)
	if !ok {
		return "", false
	}
	return fieldpath.String(v)
}
