package model

import (
	"fmt"
	"sort"
	"strings"
)

// Field describes a single settings input and the element the preview renders
// for it. Name doubles as the preview element identifier used for scroll sync.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Page is a named page variant: a fixed set of fields edited together.
type Page struct {
	Variant string  `json:"variant" yaml:"variant"`
	Title   string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields  []Field `json:"fields" yaml:"fields"`
}

// HasField reports whether the page declares the named field.
func (p Page) HasField(name string) bool {
	_, ok := p.Field(name)
	return ok
}

// Field returns the named field definition.
func (p Page) Field(name string) (Field, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames lists the page field names in declaration order.
func (p Page) FieldNames() []string {
	out := make([]string, 0, len(p.Fields))
	for _, field := range p.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Defaults builds the initial Field Value Set for the page.
func (p Page) Defaults() Values {
	out := make(Values, len(p.Fields))
	for _, field := range p.Fields {
		out[field.Name] = field.Default
	}
	return out
}

// Values is the Field Value Set: field name to current string value.
type Values map[string]string

// Clone returns an independent copy. A nil set clones to an empty set.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// With returns a copy of the set with field set to value.
func (v Values) With(field, value string) Values {
	out := v.Clone()
	out[field] = value
	return out
}

// Get returns the value for field or an empty string.
func (v Values) Get(field string) string {
	return v[field]
}

// Errors is the Validation Error Set: field name to ordered messages.
type Errors map[string][]string

// Clone returns a deep copy, dropping fields without messages.
func (e Errors) Clone() Errors {
	if len(e) == 0 {
		return Errors{}
	}
	out := make(Errors, len(e))
	for key, messages := range e {
		if len(messages) == 0 {
			continue
		}
		out[key] = append([]string(nil), messages...)
	}
	return out
}

// Has reports whether field carries at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Empty reports whether no field carries messages.
func (e Errors) Empty() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// Joined renders the messages for field separated by a single space, the way
// the form displays them inline.
func (e Errors) Joined(field string) string {
	return strings.Join(e[field], " ")
}

// String produces a stable, human readable summary.
func (e Errors) String() string {
	if e.Empty() {
		return ""
	}
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if len(e[key]) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(e[key], "; ")))
	}
	return strings.Join(parts, ", ")
}
