package inspector

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Properties comments carry directives on their own lines only; the format
// has no inline single-value form. A bare ignore covers the following line,
// begin/end bracket a range.
var propertiesDirectivePattern = regexp.MustCompile(`^[!#]\s*i18nspector-ignore(-begin|-end)?\b`)

// lineRange is an inclusive [start, end] span of ignored lines. An open
// begin directive ends at +Inf until its end directive arrives.
type lineRange struct {
	start, end int
}

const openRangeEnd = math.MaxInt

// parseProperties parses key=value pairs with 1-based starting line numbers
// and applies comment-line ignore ranges. Logical lines may span physical
// lines via backslash continuation; the recorded line is where the key starts.
func parseProperties(data []byte, ctx *fileContext) error {
	lines := strings.Split(string(data), "\n")

	var ranges []lineRange
	type entry struct {
		key   string
		value string
		line  int
	}
	var entries []entry

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		trimmed := strings.TrimLeft(lines[i], " \t\f")
		trimmed = strings.TrimRight(trimmed, "\r")
		if trimmed == "" {
			continue
		}

		if trimmed[0] == '#' || trimmed[0] == '!' {
			if m := propertiesDirectivePattern.FindStringSubmatch(trimmed); m != nil {
				switch m[1] {
				case "-begin":
					ranges = append(ranges, lineRange{start: lineNo, end: openRangeEnd})
				case "-end":
					for j := len(ranges) - 1; j >= 0; j-- {
						if ranges[j].end == openRangeEnd {
							ranges[j].end = lineNo
							break
						}
					}
				default:
					ranges = append(ranges, lineRange{start: lineNo, end: lineNo + 1})
				}
			}
			continue
		}

		// Join continuation lines into one logical line.
		logical := trimmed
		for endsWithContinuation(logical) && i+1 < len(lines) {
			logical = logical[:len(logical)-1]
			i++
			logical += strings.TrimRight(strings.TrimLeft(lines[i], " \t\f"), "\r")
		}

		key, value := splitPropertyLine(logical)
		if key == "" {
			continue
		}
		entries = append(entries, entry{key: key, value: value, line: lineNo})
	}

	for _, e := range entries {
		ignored := false
		for _, r := range ranges {
			if e.line >= r.start && e.line <= r.end {
				ignored = true
				break
			}
		}
		ctx.define(strings.Split(e.key, "."), e.line, e.value, ignored)
	}
	return nil
}

// endsWithContinuation reports whether a natural line ends with an odd
// number of backslashes, i.e. the final backslash escapes the line break.
func endsWithContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitPropertyLine splits a logical line at the first unescaped '=', ':'
// or run of whitespace, unescaping both halves.
func splitPropertyLine(line string) (string, string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++ // skip escaped character
		case '=', ':':
			return unescapeProperty(strings.TrimRight(line[:i], " \t")),
				unescapeProperty(strings.TrimLeft(line[i+1:], " \t"))
		case ' ', '\t':
			rest := strings.TrimLeft(line[i:], " \t")
			// "key value" form, unless the whitespace precedes a separator.
			if len(rest) > 0 && (rest[0] == '=' || rest[0] == ':') {
				return unescapeProperty(line[:i]), unescapeProperty(strings.TrimLeft(rest[1:], " \t"))
			}
			return unescapeProperty(line[:i]), unescapeProperty(rest)
		}
	}
	return unescapeProperty(line), ""
}

// unescapeProperty resolves java-properties escapes: \t \n \r \f, \uXXXX,
// and backslash-anything as the literal character.
func unescapeProperty(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+4 < len(s) {
				if n, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(n))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
