package inspector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// SourceScan is the result of analyzing one source-code root.
type SourceScan struct {
	Files      []string
	Referenced map[string]*Resource
}

// sourceSkipDirs are never descended into when scanning source trees.
var sourceSkipDirs = map[string]bool{
	dependencyCacheDir: true,
	".git":             true,
	"dist":             true,
	"vendor":           true,
}

func languageForFile(path string) *sitter.Language {
	switch filepath.Ext(path) {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default: // .js, .jsx (the javascript grammar includes JSX)
		return javascript.GetLanguage()
	}
}

// ProcessSourceCodeFiles parses every matching source file under root and
// resolves translation-lookup call sites against the shared map. Finding no
// matching files at all is a configuration failure.
func (run *Run) ProcessSourceCodeFiles(root string) (*SourceScan, error) {
	var files []string
	if err := collectSourceFiles(root, run.Config.SourceExtensions, &files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files matching %s under %s",
			strings.Join(run.Config.SourceExtensions, ","), root)
	}

	scan := &SourceScan{Files: files, Referenced: make(map[string]*Resource)}
	for _, file := range files {
		if err := run.analyzeSourceFile(file, scan); err != nil {
			return nil, err
		}
	}
	return scan, nil
}

func collectSourceFiles(dir string, exts []string, files *[]string) error {
	entries, err := readDirSorted(dir)
	if err != nil {
		return fmt.Errorf("reading source root %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if sourceSkipDirs[entry.Name()] {
				continue
			}
			if err := collectSourceFiles(path, exts, files); err != nil {
				return err
			}
			continue
		}
		if nameMatchesExtensions(entry.Name(), exts) {
			*files = append(*files, path)
		}
	}
	return nil
}

func (run *Run) analyzeSourceFile(path string, scan *SourceScan) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(languageForFile(path))
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	a := &sourceAnalysis{run: run, path: path, source: source, scan: scan}
	a.collectDirectives(tree.RootNode())
	a.walk(tree.RootNode())
	run.Log.Debug().Str("file", path).Msg("analyzed source file")
	return nil
}

// sourceAnalysis walks one file's syntax tree.
type sourceAnalysis struct {
	run    *Run
	path   string
	source []byte
	scan   *SourceScan

	// directives are the comment nodes carrying the ignore marker.
	directives []*sitter.Node
}

func (a *sourceAnalysis) collectDirectives(n *sitter.Node) {
	if n.Type() == "comment" && strings.Contains(n.Content(a.source), "i18nspector-ignore") {
		a.directives = append(a.directives, n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		a.collectDirectives(n.Child(i))
	}
}

type calleeKind int

const (
	calleeNone calleeKind = iota
	calleeTranslate
	calleeUseTranslation
)

func (a *sourceAnalysis) classifyCallee(callee *sitter.Node) calleeKind {
	if callee == nil {
		return calleeNone
	}
	switch callee.Type() {
	case "identifier":
		switch callee.Content(a.source) {
		case "t":
			return calleeTranslate
		case "useTranslation":
			return calleeUseTranslation
		}
	case "member_expression":
		// i18n.t(...), this.$i18n.t(...), hook-bound object.t(...)
		if prop := callee.ChildByFieldName("property"); prop != nil && prop.Content(a.source) == "t" {
			return calleeTranslate
		}
	}
	return calleeNone
}

func (a *sourceAnalysis) walk(n *sitter.Node) {
	if n.Type() == "call_expression" {
		kind := a.classifyCallee(n.ChildByFieldName("function"))
		if kind != calleeNone {
			if a.exempt(n) {
				// The whole subtree is exempt; nested calls are not analyzed.
				return
			}
			switch kind {
			case calleeTranslate:
				a.analyzeTranslateCall(n)
			case calleeUseTranslation:
				a.analyzeUseTranslationCall(n)
			}
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		a.walk(n.Child(i))
	}
}

/// exempt reports whether an ignore comment is attached to the call: inside
// it (covering its first argument), immediately before it, trailing it on
// the same line, or likewise attached to any ancestor.
func (a *sourceAnalysis) exempt(call *sitter.Node) bool {
	for _, c := range a.directives {
		if c.StartByte() >= call.StartByte() && c.EndByte() <= call.EndByte() {
			return true
		}
	}
	for n := call; n != nil; n = n.Parent() {
		for _, c := range a.directives {
			if !sameParent(c, n) {
				continue
			}
			if precedesThroughComments(c, n) {
				return true
			}
			if c.StartByte() >= n.EndByte() && c.StartPoint().Row == n.EndPoint().Row {
				return true
			}
		}
	}
	return false
}

func sameParent(a, b *sitter.Node) bool {
	pa, pb := a.Parent(), b.Parent()
	return pa != nil && pb != nil && pa.Equal(pb)
}

// precedesThroughComments reports whether c is the previous sibling of n,
// possibly separated only by other comments.
func precedesThroughComments(c, n *sitter.Node) bool {
	for prev := n.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		if prev.Equal(c) {
			return true
		}
	}
	return false
}

// namedArguments returns a call's argument nodes with comments filtered out;
// comments are extra nodes and would otherwise count as arguments.
func namedArguments(args *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if child := args.NamedChild(i); child.Type() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

func (a *sourceAnalysis) analyzeTranslateCall(call *sitter.Node) {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return
	}
	args := namedArguments(argsNode)
	if len(args) == 0 {
		return
	}
	arg := args[0]
	res := a.resolve(arg)

	for _, nl := range res.nonLiterals {
		a.problem(fmt.Sprintf("Non-literal of type %s at %s:%d",
			nl.Type(), a.path, nl.StartPoint().Row+1), true)
	}

	callLine := int(call.StartPoint().Row) + 1
	for _, key := range res.literals {
		r, ok := a.run.Resources[key]
		if ok && len(r.Definitions) > 0 {
			r.References = append(r.References, fmt.Sprintf("%s:%d", a.path, callLine))
			a.scan.Referenced[key] = r
			a.run.touchedSourceFiles[a.path] = struct{}{}
			continue
		}
		a.problem(fmt.Sprintf("Reference to unknown string '%s' at %s:%d", key, a.path, callLine), false)
		if !ok {
			// Placeholder with no definitions, so later lookups and the
			// classification engine see the unknown key too.
			a.run.Resources[key] = &Resource{
				Key:          key,
				Definitions:  make(map[string]string),
				Translations: make(map[string]string),
			}
		}
	}
}

// analyzeUseTranslationCall flags the unsupported hook arguments. Namespaces
// are not supported at all, including the default namespace passed
// explicitly, and neither is keyPrefix.
func (a *sourceAnalysis) analyzeUseTranslationCall(call *sitter.Node) {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return
	}
	args := namedArguments(argsNode)
	if len(args) == 0 {
		return
	}
	line := int(call.StartPoint().Row) + 1
	a.problem(fmt.Sprintf("Unsupported namespace at %s:%d", a.path, line), true)

	if len(args) < 2 {
		return
	}
	opts := args[1]
	if opts.Type() != "object" {
		return
	}
	for i := 0; i < int(opts.NamedChildCount()); i++ {
		pair := opts.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		if key == nil {
			continue
		}
		name := key.Content(a.source)
		if key.Type() == "string" {
			name = a.stringValue(key)
		}
		if name == "keyPrefix" {
			a.problem(fmt.Sprintf("Unsupported key prefix at %s:%d", a.path, int(pair.StartPoint().Row)+1), true)
		}
	}
}

func (a *sourceAnalysis) problem(description string, fatal bool) {
	a.run.addProblem(a.path, description, fatal)
}
