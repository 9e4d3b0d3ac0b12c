package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formpreview/pkg/model"
)

// Validator is the schema-validation capability the live controller consumes.
// On success it returns the accepted values; on failure it returns a
// *ValidationError describing every offending field.
type Validator interface {
	Validate(values model.Values) (model.Values, error)
}

// ValidationError is the only domain error: a mapping from field name to the
// ordered messages produced by a failed validation pass. Form collects
// messages that could not be attributed to a field.
type ValidationError struct {
	Fields map[string][]string
	Form   []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "schema: validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+len(e.Form))
	for _, key := range keys {
		parts = append(parts, key+": "+strings.Join(e.Fields[key], "; "))
	}
	parts = append(parts, e.Form...)
	return "schema: validation failed: " + strings.Join(parts, ", ")
}

// Errors exposes the field messages as a model.Errors set.
func (e *ValidationError) Errors() model.Errors {
	if e == nil {
		return model.Errors{}
	}
	return model.Errors(e.Fields).Clone()
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Settings validates Field Value Sets against a JSON schema object using
// kin-openapi's schema visitor.
type Settings struct {
	schema *openapi3.Schema
	source string
}

var _ Validator = (*Settings)(nil)

// NewSettings compiles a settings schema from a loaded document.
func NewSettings(doc Document) (*Settings, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("schema: settings document is empty")
	}

	var compiled openapi3.Schema
	if err := json.Unmarshal(raw, &compiled); err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
	}
	if err := compiled.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("schema: invalid settings schema %s: %w", doc.Location(), err)
	}
	if !compiled.Type.Is(openapi3.TypeObject) {
		return nil, fmt.Errorf("schema: settings schema %s must describe an object", doc.Location())
	}

	return &Settings{schema: &compiled, source: doc.Location()}, nil
}

// MustSettings panics when the schema cannot be compiled. Useful for tests and
// the embedded defaults.
func MustSettings(doc Document) *Settings {
	settings, err := NewSettings(doc)
	if err != nil {
		panic(err)
	}
	return settings
}

// Load fetches and compiles a settings schema in one step.
func Load(ctx context.Context, loader Loader, src Source) (*Settings, error) {
	if loader == nil {
		return nil, errors.New("schema: loader is required")
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", locationOf(src), err)
	}
	return NewSettings(doc)
}

// Properties lists the declared property names in sorted order.
func (s *Settings) Properties() []string {
	if s == nil || s.schema == nil {
		return nil
	}
	names := make([]string, 0, len(s.schema.Properties))
	for name := range s.schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source reports where the schema was loaded from.
func (s *Settings) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Validate checks the complete value set. Every violation is collected so a
// single pass reports all failing fields at once.
func (s *Settings) Validate(values model.Values) (model.Values, error) {
	if s == nil || s.schema == nil {
		return nil, errors.New("schema: settings validator is not configured")
	}

	payload := make(map[string]any, len(values))
	for key, value := range values {
		payload[key] = value
	}

	err := s.schema.VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return values.Clone(), nil
	}
	return nil, issuesToError(err)
}

func locationOf(src Source) string {
	if src == nil {
		return "<nil>"
	}
	return src.Location()
}
