package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the fields an LLM should pull out of free text.
type ExtractionSchema struct {
	Name        string        // Schema name, e.g. "JobPosting"
	Description string        // Preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint rendered into the prompt
	Description string
	Required    bool
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent values.\n")
	sb.WriteString("- Use an empty string or empty list when the text does not say.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobPostingSchema returns the extraction schema for a job board listing.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobPosting",
		Description: `You are an expert job posting parser for a job board.
Your task is to fill in the listing fields of a job board entry from the raw text of a job posting page.
EXCLUDE: application form fields, EEO statements, legal disclaimers, cookie banners.`,
		Fields: []SchemaField{
			{Name: "title", Description: "Job title as advertised", Required: true},
			{Name: "company", Description: "Hiring company name", Required: true},
			{Name: "location", Description: "City, region or country of the role"},
			{Name: "work_arrangement", Type: "\"Remote\" | \"Hybrid\" | \"On-site\"", Description: "Where the work happens"},
			{Name: "salary", Description: "Salary range exactly as written"},
			{Name: "experience_level", Type: "\"Entry Level\" | \"Mid Level\" | \"Senior Level\" | \"Executive\"", Description: "Seniority"},
			{Name: "employment_type", Type: "\"Full-time\" | \"Part-time\" | \"Contract\" | \"Internship\"", Description: "Contract type"},
			{Name: "description", Description: "Two to five sentence summary of the role and responsibilities", Required: true},
			{Name: "required_skills", Type: "[\"string\"]", Description: "Concrete skills and technologies, one per entry", Required: true},
		},
	}
}
