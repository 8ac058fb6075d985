package parsing

import (
	"strings"

	"github.com/talentmatch/talent-match/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mysql":      "MySQL",
	"graphql":    "GraphQL",
	"c#":         "C#",
	"c++":        "C++",
}

// NormalizeSkillName normalizes a skill name to its canonical form.
// Known aliases map to a canonical spelling, all-caps acronyms are kept, and
// single lowercase words are capitalized.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// CanonicalSkills normalizes every skill name and removes duplicates, keeping first-seen order.
func CanonicalSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, NormalizeSkillName(s))
	}
	return types.NormalizeSkills(out)
}

var workArrangements = map[string]string{
	"remote":    types.WorkRemote,
	"hybrid":    types.WorkHybrid,
	"on-site":   types.WorkOnsite,
	"onsite":    types.WorkOnsite,
	"on site":   types.WorkOnsite,
	"in-office": types.WorkOnsite,
	"in office": types.WorkOnsite,
}

var employmentTypes = map[string]string{
	"full-time":  types.EmploymentFullTime,
	"full time":  types.EmploymentFullTime,
	"fulltime":   types.EmploymentFullTime,
	"part-time":  types.EmploymentPartTime,
	"part time":  types.EmploymentPartTime,
	"contract":   types.EmploymentContract,
	"contractor": types.EmploymentContract,
	"freelance":  types.EmploymentContract,
	"internship": types.EmploymentInternship,
	"intern":     types.EmploymentInternship,
}

// NormalizeWorkArrangement maps free-form arrangement text onto the board's values.
// Unknown values are returned trimmed.
func NormalizeWorkArrangement(s string) string {
	return lookup(workArrangements, s)
}

// NormalizeEmploymentType maps free-form contract text onto the board's values.
// Unknown values are returned trimmed.
func NormalizeEmploymentType(s string) string {
	return lookup(employmentTypes, s)
}

func lookup(table map[string]string, s string) string {
	s = strings.TrimSpace(s)
	if v, ok := table[strings.ToLower(s)]; ok {
		return v
	}
	return s
}
