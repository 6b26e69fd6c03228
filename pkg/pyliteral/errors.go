package pyliteral

import (
	"fmt"
	"reflect"
)

// SyntaxError describes malformed literal input
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal syntax error at line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// UnsupportedValueError is returned by Marshal for values with no literal form
type UnsupportedValueError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	if e.Type == nil {
		return "pyliteral: unsupported value: " + e.Reason
	}
	return fmt.Sprintf("pyliteral: unsupported value of type %s: %s", e.Type, e.Reason)
}
