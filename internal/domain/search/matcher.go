// Package search holds the keyword matcher used by free-text
// professional search. Keyword expansion itself lives behind an
// external collaborator; this package only consumes its output.
package search

import "strings"

// Expansion is the collaborator's interpretation of a free-text query.
type Expansion struct {
	PrimaryCategory string
	Keywords        []string
}

// Keywords flattens an expansion into the lower-cased keyword set used
// for matching. When the expansion carries nothing usable the raw
// query becomes the sole keyword.
func Keywords(query string, exp Expansion) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(exp.PrimaryCategory)
	for _, kw := range exp.Keywords {
		add(kw)
	}
	if len(out) == 0 {
		add(query)
	}
	return out
}

// Matches reports whether any keyword is a case-insensitive substring
// of the candidate's profession, skills, name or bio.
func Matches(profession string, skills []string, name, bio string, keywords []string) bool {
	haystacks := make([]string, 0, len(skills)+3)
	haystacks = append(haystacks, strings.ToLower(profession), strings.ToLower(name), strings.ToLower(bio))
	for _, s := range skills {
		haystacks = append(haystacks, strings.ToLower(s))
	}

	for _, kw := range keywords {
		for _, h := range haystacks {
			if h != "" && strings.Contains(h, kw) {
				return true
			}
		}
	}
	return false
}
