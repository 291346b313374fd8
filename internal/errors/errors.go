package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the error shape every handler hands to the error middleware.
// Internal is logged but never rendered.
type APIError struct {
	Status   int               `json:"-"`
	Message  string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Internal error             `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Message:  message,
		Internal: err,
	}
}

func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *APIError {
	return New(http.StatusConflict, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError converts binding failures. Validator failures become a
// 422 with one message per field, anything else (malformed JSON) is a 400.
func NewValidationError(err error) *APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return BadRequest("Invalid request body", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe)] = describe(fe)
	}

	apiErr := UnprocessableEntity("Validation failed", err)
	apiErr.Fields = fields
	return apiErr
}

// jsonName turns "CreateSectionRequest.Sections[0].ID" into "sections[0].ID"
func jsonName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}
