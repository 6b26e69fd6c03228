package pyliteral

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxDepth bounds container nesting so hostile input cannot exhaust the stack
const maxDepth = 512

// Tuple is a decoded Python tuple. Marshal writes it back with parentheses.
type Tuple []any

// Unmarshal parses a single literal expression.
func Unmarshal(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, &SyntaxError{Line: 1, Col: 1, Msg: "input is not valid UTF-8"}
	}

	p := &parser{src: string(data), line: 1, col: 1}
	p.src = strings.TrimPrefix(p.src, "\ufeff")

	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty input")
	}

	v, err := p.value(0)
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after value", p.peek())
	}
	return v, nil
}

type parser struct {
	src  string
	pos  int
	line int
	col  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// peek returns the next rune without consuming it, or 0 at end of input
func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) peekAt(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *parser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return r
}

func (p *parser) advance(n int) {
	for i := 0; i < n && !p.eof(); i++ {
		p.next()
	}
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) errorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Line: p.line, Col: p.col, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace consumes whitespace, comments and backslash line continuations
func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.next()
		case c == '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.next()
			}
		case c == '\\' && (p.peekAt(1) == '\n' || (p.peekAt(1) == '\r' && p.peekAt(2) == '\n')):
			p.next()
		default:
			return
		}
	}
}

func (p *parser) value(depth int) (any, error) {
	if depth > maxDepth {
		return nil, p.errorf("nesting deeper than %d levels", maxDepth)
	}

	switch c := p.peek(); {
	case c == '{':
		return p.dict(depth)
	case c == '[':
		return p.list(depth)
	case c == '(':
		return p.tuple(depth)
	case p.atString():
		return p.stringLiteral()
	case c == '+' || c == '-' || c == '.' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		return p.name()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *parser) dict(depth int) (any, error) {
	p.next()
	m := make(map[string]any)

	p.skipSpace()
	if p.peek() == '}' {
		p.next()
		return m, nil
	}

	for {
		line, col := p.line, p.col
		k, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if c := p.peek(); c == ',' || c == '}' {
			return nil, &SyntaxError{Line: line, Col: col, Msg: "sets are not supported"}
		}
		key, ok := k.(string)
		if !ok {
			return nil, &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf("dict keys must be strings, got %T", k)}
		}
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after dict key")
		}
		p.next()
		p.skipSpace()

		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		m[key] = v

		done, err := p.separator('}')
		if err != nil {
			return nil, err
		}
		if done {
			return m, nil
		}
	}
}

func (p *parser) list(depth int) (any, error) {
	p.next()
	items := make([]any, 0)

	p.skipSpace()
	if p.peek() == ']' {
		p.next()
		return items, nil
	}

	for {
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		done, err := p.separator(']')
		if err != nil {
			return nil, err
		}
		if done {
			return items, nil
		}
	}
}

// tuple handles "()", a parenthesized value "(x)" and real tuples "(x,)".
func (p *parser) tuple(depth int) (any, error) {
	p.next()

	p.skipSpace()
	if p.peek() == ')' {
		p.next()
		return Tuple{}, nil
	}

	first, err := p.value(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ')' {
		p.next()
		return first, nil
	}

	items := Tuple{first}
	done, err := p.separator(')')
	if err != nil {
		return nil, err
	}
	for !done {
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		done, err = p.separator(')')
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// separator consumes "," or the closing rune after an element, allowing a
// trailing comma. It reports whether the container was closed.
func (p *parser) separator(closing rune) (bool, error) {
	p.skipSpace()
	switch p.peek() {
	case closing:
		p.next()
		return true, nil
	case ',':
		p.next()
		p.skipSpace()
		if p.peek() == closing {
			p.next()
			return true, nil
		}
		return false, nil
	case 0:
		return false, p.errorf("unexpected end of input, expected ',' or %q", closing)
	default:
		return false, p.errorf("expected ',' or %q, got %q", closing, p.peek())
	}
}

func (p *parser) name() (any, error) {
	line, col := p.line, p.col
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.next()
	}
	ident := p.src[start:p.pos]

	switch ident {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}

	if q := p.peek(); q == '\'' || q == '"' {
		return nil, &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf("unsupported string prefix %q", ident)}
	}
	return nil, &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf("unsupported name %q", ident)}
}

func (p *parser) number() (any, error) {
	line, col := p.line, p.col

	sign := ""
	if c := p.peek(); c == '+' || c == '-' {
		sign = string(c)
		p.next()
		p.skipSpace()
	}

	start := p.pos
	hex := p.peekAt(0) == '0' && (p.peekAt(1) == 'x' || p.peekAt(1) == 'X')
	for !p.eof() {
		c := p.src[p.pos]
		isExpSign := (c == '+' || c == '-') && p.pos > start && !hex &&
			(p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')
		if !(isDigit(rune(c)) || isIdentPart(rune(c)) || c == '.' || isExpSign) {
			break
		}
		p.next()
	}
	lit := p.src[start:p.pos]

	fail := func(msg string) error {
		return &SyntaxError{Line: line, Col: col, Msg: msg}
	}

	if lit == "" || lit == "." {
		return nil, fail("expected a number")
	}
	lower := strings.ToLower(lit)
	if !isDigit(rune(lower[0])) && lower[0] != '.' {
		return nil, fail(fmt.Sprintf("unary %q applied to non-number", sign))
	}
	if strings.HasSuffix(lower, "j") {
		return nil, fail("complex numbers are not supported")
	}
	if !validUnderscores(lower) {
		return nil, fail(fmt.Sprintf("invalid number %q", lit))
	}

	prefixed := strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b")
	if !prefixed && strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(sign+strings.ReplaceAll(lit, "_", ""), 64)
		if err != nil {
			return nil, fail(fmt.Sprintf("invalid float %q", lit))
		}
		return f, nil
	}

	digits := strings.ReplaceAll(lower, "_", "")
	if !prefixed && len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != "" {
		return nil, fail(fmt.Sprintf("leading zeros in decimal integer %q", lit))
	}
	if !prefixed {
		// base 0 would read a leading zero as octal
		lit = strings.TrimLeft(digits, "0")
		if lit == "" {
			lit = "0"
		}
	}

	n, err := strconv.ParseInt(sign+lit, 0, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return nil, fail(fmt.Sprintf("integer %s%s out of range", sign, lit))
		}
		return nil, fail(fmt.Sprintf("invalid integer %q", lit))
	}
	return n, nil
}

// validUnderscores applies Python's rule: an underscore must sit between
// two digits (or directly after a base prefix).
func validUnderscores(lit string) bool {
	for i := 0; i < len(lit); i++ {
		if lit[i] != '_' {
			continue
		}
		if i == 0 || i == len(lit)-1 {
			return false
		}
		prev, next := lit[i-1], lit[i+1]
		afterPrefix := i == 2 && lit[0] == '0' && (prev == 'x' || prev == 'o' || prev == 'b')
		if !(isHexDigit(rune(prev)) || afterPrefix) || !isHexDigit(rune(next)) {
			return false
		}
	}
	return true
}

// atString reports whether a string literal, with optional u/r prefix, starts here
func (p *parser) atString() bool {
	c := p.peek()
	if c == '\'' || c == '"' {
		return true
	}
	if c == 'u' || c == 'U' || c == 'r' || c == 'R' {
		q := p.peekAt(1)
		return q == '\'' || q == '"'
	}
	return false
}

// stringLiteral reads one string literal and any adjacent ones, concatenated
func (p *parser) stringLiteral() (any, error) {
	var sb strings.Builder
	for {
		if err := p.str(&sb); err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.atString() {
			return sb.String(), nil
		}
	}
}

func (p *parser) str(sb *strings.Builder) error {
	line, col := p.line, p.col

	raw := false
	switch p.peek() {
	case 'u', 'U':
		p.next()
	case 'r', 'R':
		raw = true
		p.next()
	}

	quote := p.next()
	delim := string(quote)
	if p.hasPrefix(delim + delim) {
		p.advance(2)
		delim = strings.Repeat(delim, 3)
	}
	triple := len(delim) == 3

	for {
		if p.eof() {
			return &SyntaxError{Line: line, Col: col, Msg: "unterminated string literal"}
		}
		if p.hasPrefix(delim) {
			p.advance(len(delim))
			return nil
		}

		c := p.peek()
		switch {
		case c == '\n' && !triple:
			return &SyntaxError{Line: line, Col: col, Msg: "unterminated string literal"}
		case c == '\\' && raw:
			p.next()
			if p.eof() {
				return &SyntaxError{Line: line, Col: col, Msg: "unterminated string literal"}
			}
			sb.WriteRune('\\')
			sb.WriteRune(p.next())
		case c == '\\':
			p.next()
			if err := p.escape(sb); err != nil {
				return err
			}
		default:
			sb.WriteRune(p.next())
		}
	}
}

func (p *parser) escape(sb *strings.Builder) error {
	if p.eof() {
		return p.errorf("unterminated escape sequence")
	}

	c := p.next()
	switch c {
	case '\n':
	case '\r':
		if p.peek() == '\n' {
			p.next()
		}
	case '\\', '\'', '"':
		sb.WriteRune(c)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		value := int(c - '0')
		for i := 0; i < 2 && p.peek() >= '0' && p.peek() <= '7'; i++ {
			value = value*8 + int(p.next()-'0')
		}
		sb.WriteRune(rune(value))
	case 'x':
		return p.hexEscape(sb, 2)
	case 'u':
		return p.hexEscape(sb, 4)
	case 'U':
		return p.hexEscape(sb, 8)
	case 'N':
		return p.errorf("named unicode escapes are not supported")
	default:
		sb.WriteByte('\\')
		sb.WriteRune(c)
	}
	return nil
}

func (p *parser) hexEscape(sb *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("truncated \\x, \\u or \\U escape")
	}
	hex := p.src[p.pos : p.pos+digits]
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || strings.ContainsAny(hex, "+-_") {
		return p.errorf("invalid escape digits %q", hex)
	}
	if value > utf8.MaxRune {
		return p.errorf("escape %q is not a valid code point", hex)
	}
	p.advance(digits)
	sb.WriteRune(rune(value))
	return nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
