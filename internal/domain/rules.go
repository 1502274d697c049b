package domain

import (
	"fmt"
	"sort"
	"strings"
)

// RuleCatalogVersion identifies the rule set issues are classified against.
const RuleCatalogVersion = "WCAG 2.1"

// Level is a conformance tier.
type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// Levels lists the conformance tiers from least to most strict.
var Levels = []Level{LevelA, LevelAA, LevelAAA}

// ParseLevel accepts A/AA/AAA in any case, with an optional "WCAG " prefix.
func ParseLevel(s string) (Level, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "WCAG ")
	for _, l := range Levels {
		if string(l) == v {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown compliance level %q (valid: A, AA, AAA)", s)
}

// Includes reports whether a rule at level other is in scope for target l.
func (l Level) Includes(other Level) bool {
	return other.rank() <= l.rank()
}

func (l Level) rank() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return len(Levels)
}

// Rule is one success criterion in the catalog.
type Rule struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

// Rule identifiers raised by the analyzers.
const (
	RuleNonTextContent     = "1.1.1"
	RuleInfoRelationships  = "1.3.1"
	RuleMeaningfulSequence = "1.3.2"
	RuleContrastMinimum    = "1.4.3"
	RuleImagesOfText       = "1.4.5"
	RuleContrastEnhanced   = "1.4.6"
	RuleBypassBlocks       = "2.4.1"
	RulePageTitled         = "2.4.2"
	RuleLinkPurpose        = "2.4.4"
	RuleHeadingsLabels     = "2.4.6"
	RuleLinkPurposeOnly    = "2.4.9"
	RuleSectionHeadings    = "2.4.10"
	RuleLanguageOfPage     = "3.1.1"
	RuleLanguageOfParts    = "3.1.2"
	RuleNameRoleValue      = "4.1.2"
)

var ruleCatalog = []Rule{
	{RuleNonTextContent, "Non-text Content", LevelA},
	{RuleInfoRelationships, "Info and Relationships", LevelA},
	{RuleMeaningfulSequence, "Meaningful Sequence", LevelA},
	{RuleBypassBlocks, "Bypass Blocks", LevelA},
	{RulePageTitled, "Page Titled", LevelA},
	{RuleLinkPurpose, "Link Purpose (In Context)", LevelA},
	{RuleLanguageOfPage, "Language of Page", LevelA},
	{RuleNameRoleValue, "Name, Role, Value", LevelA},
	{RuleContrastMinimum, "Contrast (Minimum)", LevelAA},
	{RuleImagesOfText, "Images of Text", LevelAA},
	{RuleHeadingsLabels, "Headings and Labels", LevelAA},
	{RuleLanguageOfParts, "Language of Parts", LevelAA},
	{RuleContrastEnhanced, "Contrast (Enhanced)", LevelAAA},
	{RuleLinkPurposeOnly, "Link Purpose (Link Only)", LevelAAA},
	{RuleSectionHeadings, "Section Headings", LevelAAA},
}

var rulesByID = func() map[string]Rule {
	m := make(map[string]Rule, len(ruleCatalog))
	for _, r := range ruleCatalog {
		m[r.ID] = r
	}
	return m
}()

// RuleCatalog returns a copy of the catalog ordered by level, then id.
func RuleCatalog() []Rule {
	out := make([]Rule, len(ruleCatalog))
	copy(out, ruleCatalog)
	return out
}

// LookupRule returns the rule with the given id.
func LookupRule(id string) (Rule, bool) {
	r, ok := rulesByID[id]
	return r, ok
}

// IsKnownRule reports whether id is in the catalog.
func IsKnownRule(id string) bool {
	_, ok := rulesByID[id]
	return ok
}

// RulesAtLevel returns the sorted rule ids that belong to exactly level l.
func RulesAtLevel(l Level) []string {
	var ids []string
	for _, r := range ruleCatalog {
		if r.Level == l {
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// IssueInScope reports whether at least one of the issue's rules is within
// the target level.
func IssueInScope(issue Issue, target Level) bool {
	for _, id := range issue.Rules {
		if r, ok := rulesByID[id]; ok && target.Includes(r.Level) {
			return true
		}
	}
	return false
}
