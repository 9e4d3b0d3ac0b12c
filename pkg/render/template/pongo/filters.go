package pongo

import (
	"reflect"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// DefaultErrorClass marks controls whose value failed validation.
const DefaultErrorClass = "input-error"

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("joinmessages") {
		_ = pongo2.RegisterFilter("joinmessages", filterJoinMessages)
	}
	if !pongo2.FilterExists("errorclass") {
		_ = pongo2.RegisterFilter("errorclass", filterErrorClass)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterJoinMessages joins a message list with single spaces.
func filterJoinMessages(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	if in.IsString() || !in.CanSlice() {
		return pongo2.AsValue(strings.TrimSpace(in.String())), nil
	}
	parts := make([]string, 0, in.Len())
	for i := 0; i < in.Len(); i++ {
		if text := strings.TrimSpace(in.Index(i).String()); text != "" {
			parts = append(parts, text)
		}
	}
	return pongo2.AsValue(strings.Join(parts, " ")), nil
}

// filterErrorClass yields param, or DefaultErrorClass, when in holds any
// messages.
func filterErrorClass(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() || in.Len() == 0 {
		return pongo2.AsValue(""), nil
	}
	class := DefaultErrorClass
	if param != nil && !param.IsNil() && param.String() != "" {
		class = param.String()
	}
	return pongo2.AsValue(class), nil
}

func isFunc(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}
