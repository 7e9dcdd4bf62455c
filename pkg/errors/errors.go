package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when caller input is missing or malformed
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// UserError mirrors a Shopify mutation userErrors entry
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// ErrUpstream is returned when the Admin API rejected a query or mutation.
// Messages holds top-level GraphQL errors, UserErrors holds mutation userErrors.
type ErrUpstream struct {
	Operation  string
	Messages   []string
	UserErrors []UserError
}

func (e *ErrUpstream) Error() string {
	parts := make([]string, 0, len(e.Messages)+len(e.UserErrors))
	parts = append(parts, e.Messages...)
	for _, ue := range e.UserErrors {
		if len(ue.Field) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
			continue
		}
		parts = append(parts, ue.Message)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s rejected by upstream", e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(parts, "; "))
}

// Details returns the upstream errors in the shape returned to HTTP callers
func (e *ErrUpstream) Details() []interface{} {
	out := make([]interface{}, 0, len(e.Messages)+len(e.UserErrors))
	for _, m := range e.Messages {
		out = append(out, map[string]string{"message": m})
	}
	for _, ue := range e.UserErrors {
		out = append(out, ue)
	}
	return out
}

// ErrTransport is returned when the Admin API could not be reached or answered garbage
type ErrTransport struct {
	Operation string
	Err       error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// StatusCode maps an error to the HTTP status the gateway answers with
func StatusCode(err error) int {
	var validation *ErrValidation
	var upstream *ErrUpstream
	var notFound *ErrNotFound
	var unauthorized *ErrUnauthorized
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.As(err, &validation), stderrors.As(err, &upstream):
		return http.StatusBadRequest
	case stderrors.As(err, &notFound):
		return http.StatusNotFound
	case stderrors.As(err, &unauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the uniform error body {error, errors?}
func Body(err error) map[string]interface{} {
	body := map[string]interface{}{"error": err.Error()}
	var upstream *ErrUpstream
	if stderrors.As(err, &upstream) {
		if details := upstream.Details(); len(details) > 0 {
			body["errors"] = details
		}
	}
	var validation *ErrValidation
	if stderrors.As(err, &validation) && len(validation.Fields) > 0 {
		fields := make([]string, 0, len(validation.Fields))
		for field := range validation.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		details := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			details = append(details, map[string]string{"field": field, "message": validation.Fields[field]})
		}
		body["errors"] = details
	}
	return body
}
