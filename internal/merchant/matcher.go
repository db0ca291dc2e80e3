// Package merchant canonicalizes free-text merchant names so that
// superficially different spellings of the same business compare equal.
package merchant

import (
	"regexp"
	"strings"
)

// stripKind says which end of the token list a rule trims.
type stripKind int

const (
	stripTrailing stripKind = iota
	stripLeading
)

// stripRule removes matching complete tokens from one end of a name.
// Tokens are only ever matched whole, never as substrings, so
// "COMMONWEALTH" can never lose a trailing "CO".
type stripRule struct {
	tokens map[string]bool
	kind   stripKind
	repeat bool // keep stripping while the edge token matches
}

var (
	businessSuffixes = tokenSet(
		"INC", "INCORPORATED", "LTD", "LIMITED", "PVT", "PRIVATE",
		"LLC", "LLP", "CO", "COMPANY", "CORP", "CORPORATION", "PLC", "GMBH",
	)
	domainExtensions = tokenSet(
		"COM", "NET", "ORG", "IN", "CO", "IO", "ME", "APP", "INFO",
	)
	protocolPrefixes = tokenSet("WWW", "HTTP", "HTTPS")

	// Applied in order; domain stripping can expose a further business
	// suffix ("NETFLIX INC COM"), so the suffix rule runs again after it.
	stripRules = []stripRule{
		{tokens: businessSuffixes, kind: stripTrailing, repeat: true},
		{tokens: domainExtensions, kind: stripTrailing, repeat: true},
		{tokens: businessSuffixes, kind: stripTrailing, repeat: true},
		{tokens: protocolPrefixes, kind: stripLeading, repeat: true},
	}

	nonAlnum = regexp.MustCompile(`[^A-Z0-9]+`)
)

func tokenSet(tokens ...string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// Normalize maps an arbitrary merchant string to its canonical uppercase
// form. The result is a deterministic function of the input; blank input
// normalizes to the empty string.
func Normalize(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = nonAlnum.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	tokens := strings.Fields(s)
	for _, rule := range stripRules {
		tokens = rule.apply(tokens)
	}

	return strings.Join(tokens, " ")
}

// apply trims matching edge tokens, always leaving at least one token so a
// name that consists only of a suffix ("CO") survives as itself.
func (r stripRule) apply(tokens []string) []string {
	for len(tokens) > 1 {
		var edge string
		if r.kind == stripTrailing {
			edge = tokens[len(tokens)-1]
		} else {
			edge = tokens[0]
		}

		if !r.tokens[edge] {
			break
		}

		if r.kind == stripTrailing {
			tokens = tokens[:len(tokens)-1]
		} else {
			tokens = tokens[1:]
		}

		if !r.repeat {
			break
		}
	}
	return tokens
}

// Matches reports whether two merchant strings normalize to the same
// canonical form. Two blank inputs match (both normalize to "").
func Matches(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// MatchesAny reports whether the merchant matches any of the given patterns.
// An empty pattern list never matches.
func MatchesAny(merchant string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(merchant, p) {
			return true
		}
	}
	return false
}

// FindBestMatch returns the first candidate (in list order) whose normalized
// form equals the merchant's, and whether one was found.
func FindBestMatch(merchant string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if Matches(merchant, c) {
			return c, true
		}
	}
	return "", false
}

// GroupByNormalized buckets merchants by canonical form, preserving the
// original strings in insertion order. Blank entries are dropped entirely,
// so the result never contains an empty-string key.
func GroupByNormalized(merchants []string) map[string][]string {
	groups := make(map[string][]string)
	for _, m := range merchants {
		key := Normalize(m)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], m)
	}
	return groups
}

// Contains reports whether the normalized keyword occurs as a substring of
// the normalized merchant. A blank merchant contains nothing.
func Contains(merchant, keyword string) bool {
	nm := Normalize(merchant)
	if nm == "" {
		return false
	}
	return strings.Contains(nm, Normalize(keyword))
}

// MatchesPattern applies a regex against the normalized merchant, so
// patterns should assume canonical uppercase, space-separated tokens.
func MatchesPattern(merchant string, pattern *regexp.Regexp) bool {
	if pattern == nil {
		return false
	}
	return pattern.MatchString(Normalize(merchant))
}
