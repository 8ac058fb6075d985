package types

import "strings"

// NormalizeSkills trims every skill, drops empties and removes case-insensitive duplicates.
// The first spelling of a skill wins and order is preserved.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, skill)
	}
	return out
}

// SplitSkills parses a comma-separated skill list as typed into a form.
func SplitSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeSkills(strings.Split(s, ","))
}

// FormatPlain joins the non-empty parts with single spaces.
func FormatPlain(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func joinSkills(skills []string) string {
	return strings.Join(skills, " ")
}
