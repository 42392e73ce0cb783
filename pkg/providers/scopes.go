package providers

import (
	"regexp"
	"strings"
)

// scopeSeparator matches the separators accepted in scope strings: spaces, commas and plus signs.
var scopeSeparator = regexp.MustCompile(`[ ,+]+`)

// ParseScopes splits a scope string such as "chat:read user:read" or "chat:read,user:read"
// into its individual scopes. Empty entries are dropped.
func ParseScopes(scopes string) []string {
	parts := scopeSeparator.Split(strings.TrimSpace(scopes), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UnionScopes merges scope lists, keeping the first occurrence of every scope in order.
func UnionScopes(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// ContainsAll reports whether every scope in want is present in have.
func ContainsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	for _, s := range want {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
