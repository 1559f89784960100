package internal

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SuggestionSource tells where a suggested category came from
type SuggestionSource string

const (
	SuggestNone    SuggestionSource = ""
	SuggestRule    SuggestionSource = "rule"
	SuggestHistory SuggestionSource = "history"
)

// Suggester proposes a category for a statement row. Config rules are tried
// first, then the category used most often for the same payee.
type Suggester struct {
	cfg     *Config
	history PayeeHistory
}

func NewSuggester(cfg *Config, history PayeeHistory) *Suggester {
	return &Suggester{cfg: cfg, history: history}
}

// Suggest returns the suggested category, or "" when there is none.
func (s *Suggester) Suggest(row StatementRow) (string, SuggestionSource) {
	if s == nil {
		return "", SuggestNone
	}

	if category := s.cfg.MatchRule(row.Payee, row.Amount); category != "" {
		return category, SuggestRule
	}

	if s.history == nil || strings.TrimSpace(row.Payee) == "" {
		return "", SuggestNone
	}

	counts, err := s.history.PayeeCategoryCounts(row.Payee)
	if err != nil {
		log.Warn().Err(err).Str("payee", row.Payee).Msg("could not look up payee history")
		return "", SuggestNone
	}

	best, bestCount := "", 0
	for category, n := range counts {
		// Ties go to the alphabetically first category so suggestions are stable
		if n > bestCount || (n == bestCount && category < best) {
			best, bestCount = category, n
		}
	}
	if best == "" {
		return "", SuggestNone
	}
	return best, SuggestHistory
}

// RuleSuggestion is a payee prefix whose transactions all went to one category
type RuleSuggestion struct {
	Prefix       string
	Pattern      string
	Category     string
	Payees       []string
	Transactions int
}

// SuggestRules looks for payee names sharing a prefix that were always
// categorized the same way. Each such group could become a config rule.
// Payees already matched by a config rule are left out.
func SuggestRules(txs []Transaction, cfg *Config) []RuleSuggestion {
	byPayee := make(map[string][]Transaction)
	for _, tx := range txs {
		if tx.Payee == "" || cfg.MatchRule(tx.Payee, tx.Amount) != "" {
			continue
		}
		byPayee[tx.Payee] = append(byPayee[tx.Payee], tx)
	}

	var payees []string
	for name := range byPayee {
		payees = append(payees, name)
	}

	var suggestions []RuleSuggestion
	for _, group := range findPrefixGroups(payees) {
		category, count, ok := singleCategory(group.names, byPayee)
		if !ok {
			continue
		}
		suggestions = append(suggestions, RuleSuggestion{
			Prefix:       group.prefix,
			Pattern:      "^" + regexp.QuoteMeta(group.prefix),
			Category:     category,
			Payees:       group.names,
			Transactions: count,
		})
	}

	suggestions = deduplicateSuggestions(suggestions)

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Transactions != suggestions[j].Transactions {
			return suggestions[i].Transactions > suggestions[j].Transactions
		}
		return suggestions[i].Prefix < suggestions[j].Prefix
	})
	return suggestions
}

type prefixGroup struct {
	prefix string
	names  []string
}

// findPrefixGroups groups payee names by their first one or two words, or by
// a leading run of characters for names without spaces (like "AMZN*MKTP123").
// Only groups with at least two distinct names are returned, shortest prefix first.
func findPrefixGroups(names []string) []prefixGroup {
	candidates := make(map[string][]string)

	for _, name := range names {
		words := strings.Fields(name)
		if len(words) == 0 {
			continue
		}
		if len(words[0]) >= 3 {
			candidates[words[0]] = append(candidates[words[0]], name)
		}
		if len(words) > 1 {
			twoWords := words[0] + " " + words[1]
			candidates[twoWords] = append(candidates[twoWords], name)
		}
		if !strings.Contains(name, " ") {
			for _, prefixLen := range []int{4, 6, 8} {
				if len(name) > prefixLen {
					candidates[name[:prefixLen]] = append(candidates[name[:prefixLen]], name)
				}
			}
		}
	}

	var prefixes []string
	for prefix := range candidates {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) < len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	var groups []prefixGroup
	seen := make(map[string]bool)
	for _, prefix := range prefixes {
		unique := uniqueStrings(candidates[prefix])
		if len(unique) < 2 {
			continue
		}
		sort.Strings(unique)
		key := strings.Join(unique, "|")
		if seen[key] {
			continue
		}
		seen[key] = true
		groups = append(groups, prefixGroup{prefix: prefix, names: unique})
	}
	return groups
}

// singleCategory returns the category shared by every transaction of the payees
func singleCategory(payees []string, byPayee map[string][]Transaction) (string, int, bool) {
	category := ""
	count := 0
	for _, payee := range payees {
		for _, tx := range byPayee[payee] {
			if category == "" {
				category = tx.Category
			} else if tx.Category != category {
				return "", 0, false
			}
			count++
		}
	}
	return category, count, category != ""
}

// deduplicateSuggestions drops suggestions that mostly cover payees an
// earlier, shorter prefix already covers
func deduplicateSuggestions(suggestions []RuleSuggestion) []RuleSuggestion {
	if len(suggestions) <= 1 {
		return suggestions
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return len(suggestions[i].Prefix) < len(suggestions[j].Prefix)
	})

	var result []RuleSuggestion
	covered := make(map[string]bool)
	for _, s := range suggestions {
		newNames := 0
		for _, name := range s.Payees {
			if !covered[name] {
				newNames++
			}
		}
		// Only keep if it adds significant new coverage (>50% new names)
		if float64(newNames)/float64(len(s.Payees)) > 0.5 {
			result = append(result, s)
			for _, name := range s.Payees {
				covered[name] = true
			}
		}
	}
	return result
}

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// PrintRuleSuggestions displays suggested rules in a form that can be pasted into the config
func PrintRuleSuggestions(w io.Writer, suggestions []RuleSuggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No rule suggestions found.")
		return
	}

	fmt.Fprintf(w, "Found %d potential rule(s):\n\n", len(suggestions))

	for _, s := range suggestions {
		fmt.Fprintf(w, "  \"%s\" -> %s (%d transactions)\n", s.Prefix, s.Category, s.Transactions)
		fmt.Fprintf(w, "    Payees: %s\n", strings.Join(truncateStrings(s.Payees, 3), ", "))
		if len(s.Payees) > 3 {
			fmt.Fprintf(w, "            ... and %d more\n", len(s.Payees)-3)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Add to config:")
	fmt.Fprintln(w, "  rules:")
	for _, s := range suggestions {
		fmt.Fprintf(w, "    - pattern: %q\n", s.Pattern)
		fmt.Fprintf(w, "      category: %q\n", s.Category)
	}
}

// truncateStrings returns at most n strings from the slice
func truncateStrings(strs []string, n int) []string {
	if len(strs) <= n {
		return strs
	}
	return strs[:n]
}
