package inspector

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseYAMLResource flattens a YAML mapping tree into dotted keys. Parsing
// through yaml.Node keeps line numbers for definition locations and comment
// text for the ignore directives: a line comment on a leaf ignores that
// resource, a line comment on a mapping value ignores its whole subtree,
// and head comments carrying -begin/-end bracket a range of entries.
func parseYAMLResource(data []byte, ctx *fileContext) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	w := &yamlWalker{ctx: ctx}
	w.walkMapping(doc.Content[0], nil, false)
	return nil
}

type yamlWalker struct {
	ctx *fileContext
}

func (w *yamlWalker) walkMapping(node *yaml.Node, path []string, ignoreAll bool) {
	if node.Kind != yaml.MappingNode {
		return
	}
	blockIgnore := false
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		blockIgnore = applyBlockDirectives(keyNode.HeadComment, blockIgnore)
		entryIgnored := ignoreAll || blockIgnore ||
			hasPlainDirective(keyNode.LineComment) || hasPlainDirective(valNode.LineComment)

		switch valNode.Kind {
		case yaml.MappingNode:
			w.walkMapping(valNode, append(path, keyNode.Value), entryIgnored)
		case yaml.ScalarNode:
			w.ctx.define(append(path, keyNode.Value), valNode.Line, valNode.Value, entryIgnored)
		case yaml.SequenceNode:
			w.ctx.define(append(path, keyNode.Value), valNode.Line, marshalSequence(valNode), entryIgnored)
		}

		blockIgnore = applyBlockDirectives(keyNode.FootComment, blockIgnore)
	}
}

// applyBlockDirectives folds the -begin/-end tokens of a comment block, in
// order, into the running block-ignore state.
func applyBlockDirectives(comment string, active bool) bool {
	for _, m := range directivePattern.FindAllStringSubmatch(comment, -1) {
		switch m[1] {
		case "-begin":
			active = true
		case "-end":
			active = false
		}
	}
	return active
}

// hasPlainDirective reports a bare ignore directive (not -begin/-end).
func hasPlainDirective(comment string) bool {
	for _, m := range directivePattern.FindAllStringSubmatch(comment, -1) {
		if m[1] == "" {
			return true
		}
	}
	return false
}

// marshalSequence renders a sequence node back to its YAML flow text so the
// whole list is one translation value.
func marshalSequence(node *yaml.Node) string {
	out, err := yaml.Marshal(node)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\n")
}
