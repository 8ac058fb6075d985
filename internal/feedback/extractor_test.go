package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/talentmatch/talent-match/internal/llm"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

const pythonResume = `Jane Doe
Data Engineer with 5 years of experience in Python, building ETL pipelines.
BSc Computer Science, 2018.`

const goodFeedback = `{
	"skills": ["python", "ETL", "SQL"],
	"experience": ["Data Engineer, 5 years"],
	"education": ["BSc Computer Science, 2018"],
	"strengths": ["Clear focus"],
	"improvements": ["Add metrics"],
	"recommendations": "Quantify pipeline impact.",
	"overallScore": 7.2,
	"yearsOfExperience": 5,
	"bio": "Jane is a data engineer.",
	"socialLinks": {"github": "https://github.com/jane"}
}`

func TestExtract_PythonResume(t *testing.T) {
	client := &fakeLLM{response: goodFeedback}
	e := NewExtractor(client, nil)

	fb, err := e.Extract(context.Background(), pythonResume)
	require.NoError(t, err)

	assert.Contains(t, fb.Skills, "Python")
	assert.GreaterOrEqual(t, fb.OverallScore, 0.0)
	assert.LessOrEqual(t, fb.OverallScore, 10.0)
	require.NotNil(t, fb.YearsOfExperience)
	assert.Equal(t, 5.0, *fb.YearsOfExperience)
	assert.Equal(t, "https://github.com/jane", fb.SocialLinks["github"])

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "5 years of experience in Python")
	assert.NotContains(t, client.prompts[0], "{{.ResumeText}}")
}

func TestExtract_FencedResponse(t *testing.T) {
	client := &fakeLLM{response: "Here you go:\n```json\n" + goodFeedback + "\n```"}

	fb, err := NewExtractor(client, nil).Extract(context.Background(), pythonResume)
	require.NoError(t, err)
	assert.Equal(t, 7.2, fb.OverallScore)
}

func TestExtract_EmptyTextMakesNoCall(t *testing.T) {
	client := &fakeLLM{response: goodFeedback}

	_, err := NewExtractor(client, nil).Extract(context.Background(), " \n\t ")
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Could not extract text from the resume", err.Error())
	assert.Empty(t, client.prompts)
}

func TestExtract_UpstreamError(t *testing.T) {
	upstream := errors.New("503 service unavailable")
	client := &fakeLLM{err: upstream}

	_, err := NewExtractor(client, nil).Extract(context.Background(), pythonResume)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.ErrorIs(t, err, upstream)
}

func TestExtract_ParseErrorKeepsRawAndLogsIt(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	client := &fakeLLM{response: "Sorry, I can only review resumes written in English."}

	_, err := NewExtractor(client, zap.New(core)).Extract(context.Background(), pythonResume)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, client.response, parseErr.Raw)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, client.response, logs.All()[0].ContextMap()["raw"])
}

func TestDecode_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing fields", raw: `{"skills": ["Go"]}`},
		{name: "score above range", raw: strings.Replace(goodFeedback, "7.2", "42", 1)},
		{name: "skills not a list", raw: strings.Replace(goodFeedback, `["python", "ETL", "SQL"]`, `"python"`, 1)},
		{name: "array instead of object", raw: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.raw, schemaErr.Raw)
		})
	}
}

func TestDecode_TruncatedJSON(t *testing.T) {
	_, err := Decode(`{"skills": ["Go"], "overallScore": 7`)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
