package rule

import (
	"fmt"
	"strings"
)

// DefaultKey is the reserved match key for the fallback rule. A real entity
// state literally equal to "default" is indistinguishable from the fallback.
const DefaultKey = "default"

var ErrNoRule = fmt.Errorf("no matching rule and no default configured")

// Rule binds an entity state to a webhook destination and message text.
type Rule struct {
	MatchKey   string
	WebhookURL string
	Message    string
	TargetID   string // optional recipient of the message
}

// Table is the configured set of delivery rules, in declaration order.
type Table struct {
	rules []Rule
}

func NewTable(rules []Rule) Table {
	return Table{rules: rules}
}

// Resolve returns the rule for the given state. Matching is a case-insensitive
// exact match against each rule's MatchKey; when no rule matches, the rule
// keyed by DefaultKey is returned instead. When duplicates exist, the
// first-declared rule wins. ErrNoRule is returned when neither an exact match
// nor a default is configured.
func (t Table) Resolve(state string) (Rule, error) {
	for _, r := range t.rules {
		if strings.EqualFold(r.MatchKey, state) {
			return r, nil
		}
	}
	for _, r := range t.rules {
		if strings.EqualFold(r.MatchKey, DefaultKey) {
			return r, nil
		}
	}
	return Rule{}, ErrNoRule
}

// DuplicateKeys reports match keys declared more than once. Duplicates are a
// configuration smell, not an error: Resolve keeps the first declaration.
func (t Table) DuplicateKeys() []string {
	seen := make(map[string]int, len(t.rules))
	var dups []string
	for _, r := range t.rules {
		key := strings.ToLower(r.MatchKey)
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, key)
		}
	}
	return dups
}
