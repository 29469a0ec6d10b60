package inspector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// resolution is the outcome of statically resolving an expression: every
// string it can evaluate to, plus every sub-expression that could not be
// resolved.
type resolution struct {
	literals    []string
	nonLiterals []*sitter.Node
}

// resolve handles the closed set of expression kinds the analysis supports.
// Anything else is one non-literal expression with no literal options.
func (a *sourceAnalysis) resolve(n *sitter.Node) resolution {
	switch n.Type() {
	case "string":
		return resolution{literals: []string{a.stringValue(n)}}
	case "ternary_expression":
		// The call site may pass either branch's value.
		cons := a.resolve(n.ChildByFieldName("consequence"))
		alt := a.resolve(n.ChildByFieldName("alternative"))
		return resolution{
			literals:    append(cons.literals, alt.literals...),
			nonLiterals: append(cons.nonLiterals, alt.nonLiterals...),
		}
	case "template_string":
		return a.resolveTemplate(n)
	default:
		return resolution{nonLiterals: []*sitter.Node{n}}
	}
}

// templatePart is either fixed text or the set of literal options one
// interpolation can produce, kept in source order.
type templatePart struct {
	text    string
	options []string
	sub     bool
}

// resolveTemplate expands a template literal into every statically
// enumerable rendering: the Cartesian product of each interpolation's
// literal options, interleaved with the fixed text segments. Non-literal
// sub-expressions propagate up even though the literal branches still expand.
func (a *sourceAnalysis) resolveTemplate(n *sitter.Node) resolution {
	var parts []templatePart
	var text strings.Builder
	var nonLiterals []*sitter.Node

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, templatePart{text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "string_fragment":
			text.WriteString(child.Content(a.source))
		case "escape_sequence":
			text.WriteString(unescapeJS(child.Content(a.source)))
		case "template_substitution":
			flush()
			inner := child.NamedChild(0)
			if inner == nil {
				continue
			}
			r := a.resolve(inner)
			nonLiterals = append(nonLiterals, r.nonLiterals...)
			parts = append(parts, templatePart{options: r.literals, sub: true})
		}
	}
	flush()

	combos := []string{""}
	for _, part := range parts {
		if !part.sub {
			for i := range combos {
				combos[i] += part.text
			}
			continue
		}
		next := make([]string, 0, len(combos)*len(part.options))
		for _, prefix := range combos {
			for _, opt := range part.options {
				next = append(next, prefix+opt)
			}
		}
		combos = next
	}

	return resolution{literals: combos, nonLiterals: nonLiterals}
}

// stringValue decodes a string literal node, resolving escape sequences.
func (a *sourceAnalysis) stringValue(n *sitter.Node) string {
	var b strings.Builder
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "string_fragment":
			b.WriteString(child.Content(a.source))
		case "escape_sequence":
			b.WriteString(unescapeJS(child.Content(a.source)))
		}
	}
	return b.String()
}

// unescapeJS decodes one JS escape sequence ("\n", "A", "\x41", ...).
func unescapeJS(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		return "\x00"
	case 'u', 'x':
		if r, ok := decodeHexEscape(seq); ok {
			return string(r)
		}
		return seq[1:]
	default:
		return seq[1:]
	}
}

func decodeHexEscape(seq string) (rune, bool) {
	digits := seq[2:]
	if strings.HasPrefix(digits, "{") && strings.HasSuffix(digits, "}") {
		digits = digits[1 : len(digits)-1]
	}
	var r rune
	for _, c := range digits {
		var v rune
		switch {
		case c >= '0' && c <= '9':
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		default:
			return 0, false
		}
		r = r*16 + v
	}
	return r, len(digits) > 0
}
