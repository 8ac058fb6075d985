package feedback

import "fmt"

// InputError is returned for resume text that cannot be analyzed. No API call is made.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// UpstreamError wraps a failure of the generative model API.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("feedback generation failed: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ParseError is returned when the model output is not JSON. Raw holds the output.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("feedback is not valid JSON: %v", e.Cause)
	}
	return "feedback is not valid JSON"
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// SchemaError is returned when the model output is JSON of the wrong shape.
type SchemaError struct {
	Raw   string
	Cause error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("feedback does not match schema: %v", e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}
