package widget

import (
	"fmt"
	"strings"
)

// ValidationError reports a widget field whose value could not be used.
type ValidationError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %q value: %v", e.Kind, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UnknownKindError reports an unsupported widget type tag.
type UnknownKindError struct {
	Type string
}

func (e *UnknownKindError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "wrong widget type: %q\nsupported widgets:", e.Type)
	for _, k := range Kinds {
		b.WriteString("\n - ")
		b.WriteString(string(k))
	}
	return b.String()
}
