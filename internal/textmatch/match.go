// Package textmatch implements the case-insensitive substring term matching
// used by ingestion filters and lead scoring.
package textmatch

import (
	"strings"
)

// Match returns the terms of list found in text as case-insensitive
// substrings, in list order and without duplicates.
func Match(text string, list []string) []string {
	lower := strings.ToLower(text)
	var out []string
	seen := make(map[string]struct{}, len(list))
	for _, term := range list {
		t := strings.ToLower(term)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		if strings.Contains(lower, t) {
			seen[t] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

// Count is len(Match(text, list)).
func Count(text string, list []string) int {
	return len(Match(text, list))
}

// Any reports whether at least one term of list occurs in text.
func Any(text string, list []string) bool {
	lower := strings.ToLower(text)
	for _, term := range list {
		if t := strings.ToLower(term); t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// MatchDistinct is like Match, except that a term listed in subsumes under a
// longer term only counts where it occurs outside every occurrence of that
// longer term, so "too expensive" does not also count as "expensive".
// Overlapping terms that are not declared both count.
func MatchDistinct(text string, list []string, subsumes map[string][]string) []string {
	hits := Match(text, list)
	if len(subsumes) == 0 || len(hits) == 0 {
		return hits
	}
	lower := strings.ToLower(text)
	absorbedBy := make(map[string][]string)
	for long, shorts := range subsumes {
		for _, short := range shorts {
			k := strings.ToLower(short)
			absorbedBy[k] = append(absorbedBy[k], strings.ToLower(long))
		}
	}

	out := make([]string, 0, len(hits))
	for _, term := range hits {
		t := strings.ToLower(term)
		longs, ok := absorbedBy[t]
		if !ok || occursOutside(lower, t, longs) {
			out = append(out, term)
		}
	}
	return out
}

// occursOutside reports whether term occurs at least once without being
// wholly inside an occurrence of one of longs.
func occursOutside(lower, term string, longs []string) bool {
	covered := make([]bool, len(lower))
	for _, l := range longs {
		for _, start := range indexes(lower, l) {
			for k := start; k < start+len(l); k++ {
				covered[k] = true
			}
		}
	}
	for _, start := range indexes(lower, term) {
		for k := start; k < start+len(term); k++ {
			if !covered[k] {
				return true
			}
		}
	}
	return false
}

// indexes lists every, possibly overlapping, start of sub in s.
func indexes(s, sub string) []int {
	if sub == "" {
		return nil
	}
	var out []int
	for from := 0; from < len(s); {
		j := strings.Index(s[from:], sub)
		if j < 0 {
			break
		}
		out = append(out, from+j)
		from += j + 1
	}
	return out
}
