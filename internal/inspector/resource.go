// Package inspector cross-references externalized string resources against
// the source code that uses them. It discovers which languages a resource
// tree provides, parses every resource file into a shared key map, statically
// resolves the keys passed to translation lookups in JS/TS source, and
// classifies the result into orphaned, untranslated and unknown findings.
package inspector

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// dependencyCacheDir is never descended into, in resource or source trees.
const dependencyCacheDir = "node_modules"

// Resource is one localization key. The same entity accumulates definitions
// from every language file and references from every source file that
// mention the key.
type Resource struct {
	// Key is the dot-joined path of the resource, e.g. "a.b.c".
	Key string `json:"key"`
	// Definitions maps a language tag to the last-seen "file:line" that
	// defined the key for that language.
	Definitions map[string]string `json:"definitions,omitempty"`
	// Translations maps a language tag to the stringified value.
	Translations map[string]string `json:"translations,omitempty"`
	// References lists every source call site using the key, in discovery order.
	References []string `json:"references,omitempty"`
	// Ignored is sticky: once any language marks the key ignored it stays
	// ignored, even if another language defines it without a directive.
	Ignored bool `json:"ignored,omitempty"`
}

// Problem is a source-code finding. A problem that precludes static analysis
// means reference completeness cannot be trusted for the whole run.
type Problem struct {
	Description             string `json:"description"`
	PrecludesStaticAnalysis bool   `json:"precludesStaticAnalysis"`
}

// Plural-form suffixes collapse onto the shared base key, so all plural
// variants of a concept are one Resource.
var pluralSuffixPattern = regexp.MustCompile(`_(?:(?:ordinal_)?(?:one|other|few|many|two|zero)|interval|plural)$`)

// baseKeySegment strips a plural-form suffix from a key segment.
func baseKeySegment(segment string) string {
	return pluralSuffixPattern.ReplaceAllString(segment, "")
}

// Run owns the state shared by all subsystems for the duration of one
// inspection: the key→Resource map, the problems list, and the set of
// language tags seen in parsed resource files.
type Run struct {
	Config    Config
	Log       zerolog.Logger
	Resources map[string]*Resource
	Problems  []Problem

	languages          map[string]struct{}
	touchedSourceFiles map[string]struct{}
}

// NewRun validates the configuration and returns a fresh run.
func NewRun(cfg Config) (*Run, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Run{
		Config:             cfg,
		Log:                newLogger(cfg.Verbosity),
		Resources:          make(map[string]*Resource),
		Problems:           make([]Problem, 0),
		languages:          make(map[string]struct{}),
		touchedSourceFiles: make(map[string]struct{}),
	}, nil
}

// resource fetches or creates the entity for a dot-joined key.
func (run *Run) resource(key string) *Resource {
	if r, ok := run.Resources[key]; ok {
		return r
	}
	r := &Resource{
		Key:          key,
		Definitions:  make(map[string]string),
		Translations: make(map[string]string),
	}
	run.Resources[key] = r
	return r
}

// addProblem records a finding against the given source file.
func (run *Run) addProblem(file, description string, fatal bool) {
	run.Problems = append(run.Problems, Problem{
		Description:             description,
		PrecludesStaticAnalysis: fatal,
	})
	run.touchedSourceFiles[file] = struct{}{}
}

// sortedResourceKeys returns the shared map's keys in lexicographic order.
func (run *Run) sortedResourceKeys() []string {
	keys := make([]string, 0, len(run.Resources))
	for k := range run.Resources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fileContext carries the per-file state a resource parser needs: where it
// is parsing, under which language tag, and which run it feeds.
type fileContext struct {
	run      *Run
	path     string
	language string
	touched  map[string]*Resource
}

func newFileContext(run *Run, path, language string) *fileContext {
	run.languages[language] = struct{}{}
	return &fileContext{
		run:      run,
		path:     path,
		language: language,
		touched:  make(map[string]*Resource),
	}
}

// define records one parsed key/value pair. The last path segment is
// collapsed to its plural base key before lookup. Ignored accumulates with
// a sticky OR and is never cleared.
func (c *fileContext) define(path []string, line int, value string, ignored bool) *Resource {
	segments := make([]string, len(path))
	copy(segments, path)
	if len(segments) > 0 {
		segments[len(segments)-1] = baseKeySegment(segments[len(segments)-1])
	}
	key := strings.Join(segments, ".")

	r := c.run.resource(key)
	r.Definitions[c.language] = fmt.Sprintf("%s:%d", c.path, line)
	r.Translations[c.language] = value
	if ignored {
		r.Ignored = true
	}
	c.touched[key] = r
	return r
}
