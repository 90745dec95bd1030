package vals

import "fmt"

// WrongType is returned when a value is not of the expected kind.
type WrongType struct {
	WantKind string
	GotKind  string
}

func (err WrongType) Error() string {
	return fmt.Sprintf("wrong type: need %s, got %s", err.WantKind, err.GotKind)
}

// AsString returns the string inside a string value.
func AsString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", WrongType{"string", Kind(v)}
}

// AsList returns the list inside a list value.
func AsList(v any) (List, error) {
	if l, ok := v.(List); ok {
		return l, nil
	}
	return nil, WrongType{"list", Kind(v)}
}
