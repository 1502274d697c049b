package analyzers

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// endsSentence reports whether s ends with sentence punctuation.
func endsSentence(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(".!?:;,", r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// lastRunes returns at most n runes from the end of s.
func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// firstRunes returns at most n runes from the start of s.
func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// truncate shortens s for use in descriptions.
func truncate(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return firstRunes(s, n-3) + "..."
}

// lineList renders 1-based line numbers as a location string.
func lineList(lines []int) string {
	if len(lines) == 0 {
		return ""
	}
	const maxShown = 10
	parts := make([]string, 0, len(lines))
	for i, n := range lines {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("and %d more", len(lines)-maxShown))
			break
		}
		parts = append(parts, fmt.Sprint(n))
	}
	if len(lines) == 1 {
		return "line " + parts[0]
	}
	return "lines " + strings.Join(parts, ", ")
}

// quoteList renders up to max quoted strings.
func quoteList(items []string, max int) string {
	shown := items
	if len(shown) > max {
		shown = shown[:max]
	}
	quoted := make([]string, len(shown))
	for i, s := range shown {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	out := strings.Join(quoted, ", ")
	if len(items) > max {
		out += fmt.Sprintf(" and %d more", len(items)-max)
	}
	return out
}

// sortedKeys returns the keys of m with a count of at least min, sorted.
func sortedKeys(m map[string]int, min int) []string {
	var keys []string
	for k, n := range m {
		if n >= min {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
