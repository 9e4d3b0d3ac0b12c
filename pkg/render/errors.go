package render

import (
	"strings"

	"github.com/goliatone/go-formpreview/pkg/model"
)

// ErrorMapping splits a validation payload into field-level and form-level
// messages keyed by the page's field names.
type ErrorMapping struct {
	Fields model.Errors
	Form   []string
}

// MergeFormErrors concatenates and normalises form-level messages, keeping
// the first occurrence of each.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return NormalizeMessages(combined)
}

// MapFieldErrors normalises a payload keyed by field names or JSON pointer
// style paths ("/name", "#/properties/name", "body.name") onto the page
// fields. Paths that do not resolve to a field become form-level messages so
// nothing is lost.
func MapFieldErrors(page model.Page, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: model.Errors{}}
	if len(payload) == 0 {
		return mapping
	}

	for rawPath, messages := range payload {
		normalized := NormalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		field, ok := fieldForPath(page, rawPath)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[field] = NormalizeMessages(append(mapping.Fields[field], normalized...))
	}

	mapping.Form = NormalizeMessages(mapping.Form)
	return mapping
}

// NormalizeMessages trims messages, drops blanks and duplicates, and keeps
// the original order. It returns nil when nothing survives.
func NormalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func fieldForPath(page model.Page, raw string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	for _, segment := range dropWrapperSegments(parsePathSegments(raw)) {
		if page.HasField(segment) {
			return segment, true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "properties":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
