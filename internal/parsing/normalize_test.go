package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"golang", "Go"},
		{"  Golang ", "Go"},
		{"reactjs", "React"},
		{"K8S", "Kubernetes"},
		{"postgres", "PostgreSQL"},
		{"python", "Python"},
		{"SQL", "SQL"},
		{"AWS", "AWS"},
		{"machine  learning", "machine learning"},
		{"TensorFlow", "TensorFlow"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestCanonicalSkills(t *testing.T) {
	got := CanonicalSkills([]string{"golang", "Go", "python", "", "Python", "k8s", "SQL"})
	assert.Equal(t, []string{"Go", "Python", "Kubernetes", "SQL"}, got)
	assert.Empty(t, CanonicalSkills(nil))
}

func TestNormalizeWorkArrangement(t *testing.T) {
	assert.Equal(t, "Remote", NormalizeWorkArrangement("remote"))
	assert.Equal(t, "On-site", NormalizeWorkArrangement(" Onsite "))
	assert.Equal(t, "Hybrid", NormalizeWorkArrangement("HYBRID"))
	assert.Equal(t, "Remote (US only)", NormalizeWorkArrangement("Remote (US only)"))
}

func TestNormalizeEmploymentType(t *testing.T) {
	assert.Equal(t, "Full-time", NormalizeEmploymentType("Full Time"))
	assert.Equal(t, "Contract", NormalizeEmploymentType("freelance"))
	assert.Equal(t, "Internship", NormalizeEmploymentType("intern"))
	assert.Equal(t, "", NormalizeEmploymentType(""))
}
