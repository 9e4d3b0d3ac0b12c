package schema

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue is a single validation problem with its location.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func issuesToError(err error) *ValidationError {
	out := &ValidationError{Fields: make(map[string][]string)}
	for _, issue := range collectIssues(err) {
		if issue.Field == "" {
			out.Form = appendUnique(out.Form, issue.Message)
			continue
		}
		out.Fields[issue.Field] = appendUnique(out.Fields[issue.Field], issue.Message)
	}
	if len(out.Fields) == 0 && len(out.Form) == 0 {
		out.Form = []string{"invalid value"}
	}
	return out
}

func collectIssues(err error) []Issue {
	if err == nil {
		return nil
	}

	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, nested := range multi {
			out = append(out, collectIssues(nested)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []Issue{{
			Field:   fieldFromPointer(schemaErr.JSONPointer()),
			Message: messageFor(schemaErr),
		}}
	}

	return []Issue{{Message: strings.TrimSpace(err.Error())}}
}

func messageFor(err *openapi3.SchemaError) string {
	reason := strings.TrimSpace(err.Reason)
	if reason == "" {
		reason = strings.TrimSpace(err.Error())
	}
	return reason
}

// fieldFromPointer keeps the first pointer segment: settings are flat, so the
// top-level property is the field that owns the message.
func fieldFromPointer(pointer []string) string {
	for _, segment := range pointer {
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment = strings.TrimSpace(segment); segment != "" {
			return segment
		}
	}
	return ""
}

func appendUnique(existing []string, message string) []string {
	message = strings.TrimSpace(message)
	if message == "" {
		return existing
	}
	for _, current := range existing {
		if current == message {
			return existing
		}
	}
	return append(existing, message)
}
