package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/talentmatch/talent-match/internal/applications"
	"github.com/talentmatch/talent-match/internal/extraction"
	"github.com/talentmatch/talent-match/internal/feedback"
	"github.com/talentmatch/talent-match/internal/ingestion"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/parsing"
)

// Messages shared by several handlers
const (
	msgInternal      = "Internal server error"
	msgParseFeedback = "Failed to parse AI analysis. Please try again."
	msgSaveFeedback  = "Failed to save feedback"
	msgFetchJobs     = "Failed to fetch jobs"
)

// NotFoundError is returned when a record does not exist or belongs to another user.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Kind)
}

// ForbiddenError is returned when the caller's role does not allow the action.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// RequestError is a malformed or invalid request body.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	status, _ := describe(err)
	return status
}

// describe maps an error to a status and the message shown to the caller.
// 5xx messages never include upstream details.
func describe(err error) (int, string) {
	var (
		notFound      *NotFoundError
		forbidden     *ForbiddenError
		badRequest    *RequestError
		validation    validator.ValidationErrors
		inputErr      *feedback.InputError
		upstreamErr   *feedback.UpstreamError
		parseErr      *feedback.ParseError
		schemaErr     *feedback.SchemaError
		unsupported   *extraction.UnsupportedFormatError
		extractErr    *extraction.ExtractionError
		partitionErr  *extraction.PartitionError
		sourceErr     *matching.SourceError
		rerankErr     *matching.RerankError
		jobMissing    *matching.JobNotFoundError
		appMissing    *applications.NotFoundError
		duplicate     *applications.DuplicateError
		badStatus     *applications.InvalidStatusError
		transition    *applications.TransitionError
		parserAPI     *parsing.APICallError
		parserParse   *parsing.ParseError
		parserInvalid *parsing.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Kind + " not found"
	case errors.As(err, &forbidden):
		return http.StatusForbidden, forbidden.Message
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, badRequest.Message
	case errors.As(err, &validation):
		return http.StatusBadRequest, "Invalid request: " + validation.Error()

	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, unsupported.Error()
	case errors.As(err, &extractErr):
		return http.StatusBadRequest, extractionMessage(extractErr.Format)
	case errors.As(err, &partitionErr):
		return http.StatusInternalServerError, "Document extraction service failed"
	case errors.As(err, &upstreamErr):
		return http.StatusInternalServerError, "Resume analysis service failed"
	case errors.As(err, &parseErr), errors.As(err, &schemaErr):
		return http.StatusInternalServerError, msgParseFeedback

	case errors.As(err, &jobMissing):
		return http.StatusNotFound, "Job not found"
	case errors.As(err, &sourceErr):
		return http.StatusInternalServerError, msgFetchJobs
	case errors.As(err, &rerankErr):
		return http.StatusInternalServerError, "Failed to process job recommendations"

	case errors.As(err, &appMissing):
		return http.StatusNotFound, appMissing.Error()
	case errors.As(err, &duplicate):
		return http.StatusConflict, duplicate.Error()
	case errors.As(err, &badStatus):
		return http.StatusBadRequest, badStatus.Error()
	case errors.As(err, &transition):
		return http.StatusConflict, transition.Error()

	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusUnprocessableEntity, "Could not fetch the job posting URL"
	case errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity, "No job posting text found at the URL"
	case errors.As(err, &parserAPI):
		return http.StatusInternalServerError, "Job posting parser failed"
	case errors.As(err, &parserParse), errors.As(err, &parserInvalid):
		return http.StatusInternalServerError, "Failed to parse job posting. Please try again."
	}
	return http.StatusInternalServerError, msgInternal
}

// extractionMessage names the document kind that yielded no text.
func extractionMessage(format string) string {
	switch format {
	case extraction.FormatPDF:
		return "Could not extract text from the PDF resume"
	case extraction.FormatDOCX:
		return "Could not extract text from the Word resume"
	}
	return "Could not extract text from the resume"
}
