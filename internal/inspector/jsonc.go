package inspector

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Ignore-directive grammar, recognized as a whole word anywhere inside a
// comment. The longer forms must win over the bare form.
var directivePattern = regexp.MustCompile(`\bi18nspector-ignore(-begin|-end)?\b`)

// noIgnoreDepth means no object-scoped ignore is active.
const noIgnoreDepth = math.MaxInt

// jsoncParser is a single-pass structural parser for JSON with comments.
// It never materializes the document; every literal value is emitted into
// the shared map as it is visited, so comment directives can be attributed
// to the exact line and object nesting they appear at.
type jsoncParser struct {
	ctx  *fileContext
	data []byte
	pos  int
	line int // 1-based

	depth int
	path  []string

	// ignoreDepth is the object depth at which a same-line object ignore
	// applies; everything at or below it is ignored until the object closes.
	ignoreDepth int
	// ignoreLine is the line of a just-seen inline ignore comment, -1 otherwise.
	ignoreLine int
	// ignoreUntilEnd is toggled by the -begin/-end block directives.
	ignoreUntilEnd bool
	// objectStartLine is the line the most recently opened object started on.
	objectStartLine int

	lastValue     *Resource
	lastValueLine int
}

// jsonValue is one parsed token-level value: a literal (string, number,
// boolean, null or a whole array) or an object marker.
type jsonValue struct {
	literal bool
	text    string
	line    int
}

func parseJSONC(data []byte, ctx *fileContext) error {
	p := &jsoncParser{
		ctx:             ctx,
		data:            data,
		line:            1,
		ignoreDepth:     noIgnoreDepth,
		ignoreLine:      -1,
		objectStartLine: -1,
		lastValueLine:   -1,
	}
	p.skipTrivia()
	if p.eof() {
		return nil
	}
	_, err := p.parseValue()
	return err
}

func (p *jsoncParser) eof() bool { return p.pos >= len(p.data) }

func (p *jsoncParser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.line, fmt.Sprintf(format, args...))
}

func (p *jsoncParser) parseValue() (*jsonValue, error) {
	p.skipTrivia()
	if p.eof() {
		return nil, p.errf("unexpected end of input")
	}
	switch c := p.data[p.pos]; {
	case c == '{':
		return &jsonValue{}, p.parseObject()
	case c == '[':
		return p.captureArray()
	case c == '"':
		return p.parseString()
	default:
		return p.parsePrimitive()
	}
}

func (p *jsoncParser) parseObject() error {
	p.objectStartLine = p.line
	p.pos++ // consume '{'
	p.depth++

	for {
		p.skipTrivia()
		if p.eof() {
			return p.errf("unterminated object")
		}
		switch p.data[p.pos] {
		case '}':
			p.pos++
			p.depth--
			if p.depth < p.ignoreDepth {
				p.ignoreDepth = noIgnoreDepth
			}
			return nil
		case ',':
			p.pos++
			continue
		case '"':
			// key/value member
		default:
			return p.errf("expected object key, found %q", p.data[p.pos])
		}

		key, err := p.parseString()
		if err != nil {
			return err
		}
		p.skipTrivia()
		if p.eof() || p.data[p.pos] != ':' {
			return p.errf("expected ':' after object key %q", key.text)
		}
		p.pos++

		p.path = append(p.path, key.text)
		value, err := p.parseValue()
		if err != nil {
			return err
		}
		if value.literal {
			p.emit(value)
		}
		p.path = p.path[:len(p.path)-1]
	}
}

// emit records one literal value against the shared map, applying whichever
// ignore source is active: object scope, same-line inline comment, or an
// open begin/end block.
func (p *jsoncParser) emit(v *jsonValue) {
	ignored := p.depth >= p.ignoreDepth || v.line == p.ignoreLine || p.ignoreUntilEnd
	p.lastValue = p.ctx.define(p.path, v.line, v.text, ignored)
	p.lastValueLine = v.line
}

// skipTrivia advances over whitespace and comments, handing every comment to
// the directive state machine.
func (p *jsoncParser) skipTrivia() {
	for !p.eof() {
		switch c := p.data[p.pos]; {
		case c == '\n':
			p.line++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '/':
			start := p.pos
			for !p.eof() && p.data[p.pos] != '\n' {
				p.pos++
			}
			p.directive(string(p.data[start:p.pos]), p.line)
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '*':
			startLine := p.line
			start := p.pos
			p.pos += 2
			for !p.eof() && !(p.data[p.pos] == '*' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '/') {
				if p.data[p.pos] == '\n' {
					p.line++
				}
				p.pos++
			}
			if !p.eof() {
				p.pos += 2
			}
			p.directive(string(p.data[start:p.pos]), startLine)
		default:
			return
		}
	}
}

// directive applies one comment to the ignore state. A plain ignore on the
// line an object was just opened ignores that whole object; on the line of
// the last emitted value it marks that resource; otherwise it arms the
// same-line check for a value still to come on this line.
func (p *jsoncParser) directive(comment string, line int) {
	m := directivePattern.FindStringSubmatch(comment)
	if m == nil {
		return
	}
	switch m[1] {
	case "-begin":
		p.ignoreUntilEnd = true
	case "-end":
		p.ignoreUntilEnd = false
	default:
		switch {
		case line == p.objectStartLine:
			p.ignoreDepth = p.depth
		case p.lastValue != nil && p.lastValueLine == line:
			p.lastValue.Ignored = true
		default:
			p.ignoreLine = line
		}
	}
}

func (p *jsoncParser) parseString() (*jsonValue, error) {
	startLine := p.line
	p.pos++ // consume opening quote
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errf("unterminated string")
		}
		c := p.data[p.pos]
		switch c {
		case '"':
			p.pos++
			return &jsonValue{literal: true, text: b.String(), line: startLine}, nil
		case '\\':
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			b.WriteRune(r)
		case '\n':
			p.line++
			b.WriteByte(c)
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *jsoncParser) parseEscape() (rune, error) {
	p.pos++ // consume backslash
	if p.eof() {
		return 0, p.errf("unterminated escape sequence")
	}
	c := p.data[p.pos]
	p.pos++
	switch c {
	case '"', '\\', '/':
		return rune(c), nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		r, err := p.parseHexRune()
		if err != nil {
			return 0, err
		}
		if utf16.IsSurrogate(r) && p.pos+1 < len(p.data) && p.data[p.pos] == '\\' && p.data[p.pos+1] == 'u' {
			p.pos += 2
			r2, err := p.parseHexRune()
			if err != nil {
				return 0, err
			}
			if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
				return combined, nil
			}
		}
		return r, nil
	default:
		return 0, p.errf("invalid escape sequence \\%c", c)
	}
}

func (p *jsoncParser) parseHexRune() (rune, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errf("truncated unicode escape")
	}
	n, err := strconv.ParseUint(string(p.data[p.pos:p.pos+4]), 16, 32)
	if err != nil {
		return 0, p.errf("invalid unicode escape: %v", err)
	}
	p.pos += 4
	return rune(n), nil
}

// parsePrimitive scans a number, boolean or null token and keeps its raw text.
func (p *jsoncParser) parsePrimitive() (*jsonValue, error) {
	start := p.pos
	startLine := p.line
	for !p.eof() {
		c := p.data[p.pos]
		if c == ',' || c == '}' || c == ']' || c == '\n' || c == ' ' || c == '\t' || c == '\r' || c == '/' {
			break
		}
		p.pos++
	}
	text := string(p.data[start:p.pos])
	if text == "" {
		return nil, p.errf("unexpected character %q", p.data[start])
	}
	return &jsonValue{literal: true, text: text, line: startLine}, nil
}

// captureArray consumes a whole array, comments and all, as one raw value.
// Array contents are not key paths, so the array is a single translation
// value attributed to the line its bracket opens on.
func (p *jsoncParser) captureArray() (*jsonValue, error) {
	startLine := p.line
	start := p.pos
	nesting := 0
	for !p.eof() {
		switch c := p.data[p.pos]; c {
		case '[':
			nesting++
			p.pos++
		case ']':
			nesting--
			p.pos++
			if nesting == 0 {
				return &jsonValue{literal: true, text: string(p.data[start:p.pos]), line: startLine}, nil
			}
		case '"':
			if _, err := p.parseString(); err != nil {
				return nil, err
			}
		case '/':
			before := p.pos
			p.skipTrivia()
			if p.pos == before {
				p.pos++
			}
		case '\n':
			p.line++
			p.pos++
		default:
			p.pos++
		}
	}
	return nil, p.errf("unterminated array")
}
