package pyliteral

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var tupleType = reflect.TypeOf(Tuple{})

// Marshal writes v as a literal followed by a newline. A top-level dict with
// more than one key is written one key per line, the layout pprint uses,
// so metadata diffs stay readable; nested values are written inline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	e := &encoder{buf: &buf}

	rv := indirect(reflect.ValueOf(v))
	if rv.IsValid() && rv.Kind() == reflect.Map && rv.Len() > 1 {
		if err := e.dict(rv, true); err != nil {
			return nil, err
		}
	} else if err := e.encode(rv); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalInline writes v on a single line without a trailing newline
func MarshalInline(v any) (string, error) {
	var buf bytes.Buffer
	e := &encoder{buf: &buf}
	if err := e.encode(reflect.ValueOf(v)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type encoder struct {
	buf *bytes.Buffer
}

// indirect unwraps interfaces and pointers down to a concrete value
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func (e *encoder) encode(v reflect.Value) error {
	v = indirect(v)
	if !v.IsValid() {
		e.buf.WriteString("None")
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			e.buf.WriteString("True")
		} else {
			e.buf.WriteString("False")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		s, err := formatFloat(v.Float(), v.Type().Bits())
		if err != nil {
			return &UnsupportedValueError{Type: v.Type(), Reason: err.Error()}
		}
		e.buf.WriteString(s)
	case reflect.String:
		s := v.String()
		if !utf8.ValidString(s) {
			return &UnsupportedValueError{Type: v.Type(), Reason: "string is not valid UTF-8"}
		}
		e.buf.WriteString(Quote(s))
	case reflect.Slice, reflect.Array:
		return e.sequence(v)
	case reflect.Map:
		return e.dict(v, false)
	default:
		return &UnsupportedValueError{Type: v.Type(), Reason: "no literal representation"}
	}
	return nil
}

func (e *encoder) sequence(v reflect.Value) error {
	if v.Type().Elem().Kind() == reflect.Uint8 {
		return &UnsupportedValueError{Type: v.Type(), Reason: "byte strings are not supported"}
	}

	open, closing := "[", "]"
	isTuple := v.Type() == tupleType
	if isTuple {
		open, closing = "(", ")"
	}

	e.buf.WriteString(open)
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.encode(v.Index(i)); err != nil {
			return err
		}
	}
	if isTuple && v.Len() == 1 {
		e.buf.WriteByte(',')
	}
	e.buf.WriteString(closing)
	return nil
}

func (e *encoder) dict(v reflect.Value, multiline bool) error {
	if v.Type().Key().Kind() != reflect.String {
		return &UnsupportedValueError{Type: v.Type(), Reason: "dict keys must be strings"}
	}

	keys := make([]string, 0, v.Len())
	values := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		values[k] = iter.Value()
	}
	sort.Strings(keys)

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			if multiline {
				e.buf.WriteString(",\n ")
			} else {
				e.buf.WriteString(", ")
			}
		}
		if !utf8.ValidString(k) {
			return &UnsupportedValueError{Type: v.Type(), Reason: "dict key is not valid UTF-8"}
		}
		e.buf.WriteString(Quote(k))
		e.buf.WriteString(": ")
		if err := e.encode(values[k]); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%v has no literal form", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}

// Quote returns s as a string literal following Python's repr rules:
// single quotes unless s contains a single quote and no double quote,
// printable characters kept as is, everything else escaped.
func Quote(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case !unicode.IsPrint(r):
			switch {
			case r <= 0xff:
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r <= 0xffff:
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}
