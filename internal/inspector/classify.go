package inspector

import (
	"fmt"
	"sort"
	"strings"
)

// Untranslated pairs a resource with the language tags it is missing.
type Untranslated struct {
	Resource            *Resource `json:"resource"`
	MissingLanguageTags []string  `json:"missingLanguageTags"`
}

// Report is the final product of a run, consumed by the CLI layer.
type Report struct {
	// InspectedStrings counts resources with at least one definition.
	InspectedStrings int `json:"inspectedStrings"`
	// LanguageCount counts distinct language tags across parsed files.
	LanguageCount int `json:"languageCount"`
	// SourceFileCount counts source files with at least one reference or problem.
	SourceFileCount int            `json:"sourceFileCount"`
	Untranslated    []Untranslated `json:"untranslated,omitempty"`
	Orphaned        []*Resource    `json:"orphaned,omitempty"`
	// OrphanedSuppressed is set when fatal problems forced orphan detection
	// off for the whole run.
	OrphanedSuppressed bool      `json:"orphanedSuppressed,omitempty"`
	Problems           []Problem `json:"problems,omitempty"`
	HasFatalProblem    bool      `json:"hasFatalProblem"`
}

// HasFindings reports whether the run should be considered failed by the
// caller's exit policy: any orphaned resource or any problem.
func (r *Report) HasFindings() bool {
	return len(r.Orphaned) > 0 || len(r.Problems) > 0
}

// Classify makes one pass over the shared map and applies the reporting
// policy. A single fatal problem anywhere suppresses orphan reporting for
// the entire run: one unanalyzable call site can hide arbitrarily many real
// references, so partial orphan results are never shown.
func (run *Run) Classify() *Report {
	rep := &Report{
		LanguageCount:   len(run.languages),
		SourceFileCount: len(run.touchedSourceFiles),
		Problems:        run.Problems,
	}
	for _, p := range run.Problems {
		if p.PrecludesStaticAnalysis {
			rep.HasFatalProblem = true
			break
		}
	}
	rep.OrphanedSuppressed = run.Config.CheckOrphaned && rep.HasFatalProblem

	for _, key := range run.sortedResourceKeys() {
		r := run.Resources[key]
		if len(r.Definitions) == 0 {
			// Synthesized from an unknown-key reference; never counted as defined.
			continue
		}
		rep.InspectedStrings++

		if run.Config.CheckUntranslated && len(r.Translations) > 0 && len(r.Translations) < rep.LanguageCount {
			rep.Untranslated = append(rep.Untranslated, Untranslated{
				Resource:            r,
				MissingLanguageTags: run.missingLanguages(r),
			})
		}

		if run.Config.CheckOrphaned && !rep.HasFatalProblem &&
			!r.Ignored && len(r.References) == 0 && !run.inOptionalPath(r) {
			rep.Orphaned = append(rep.Orphaned, r)
		}
	}
	return rep
}

func (run *Run) missingLanguages(r *Resource) []string {
	var missing []string
	for tag := range run.languages {
		if _, ok := r.Translations[tag]; !ok {
			missing = append(missing, tag)
		}
	}
	sort.Strings(missing)
	return missing
}

// inOptionalPath reports whether any definition location of r lies under a
// resource root marked optional.
func (run *Run) inOptionalPath(r *Resource) bool {
	for _, root := range run.Config.ResourceRoots {
		if !root.Optional {
			continue
		}
		for _, location := range r.Definitions {
			if strings.HasPrefix(location, root.Path) {
				return true
			}
		}
	}
	return false
}

// Execute runs the full inspection: base-language discovery and resource
// parsing per resource root, source analysis per source root, then one
// classification pass. A missing base language or an empty source root
// aborts the run.
func (run *Run) Execute() (*Report, error) {
	for _, root := range run.Config.ResourceRoots {
		anchor, err := run.FindBaseLanguage(root.Path)
		if err != nil {
			return nil, err
		}
		if anchor == nil {
			return nil, fmt.Errorf("no %s resources found under %s", run.Config.BaseLanguage, root.Path)
		}
		files, err := run.ProcessResourceFiles(root.Path, anchor)
		if err != nil {
			return nil, err
		}
		run.Log.Info().Str("root", root.Path).Int("files", len(files)).Msg("processed resource root")
	}

	for _, root := range run.Config.SourceRoots {
		scan, err := run.ProcessSourceCodeFiles(root)
		if err != nil {
			return nil, err
		}
		run.Log.Info().Str("root", root).Int("files", len(scan.Files)).Int("referenced", len(scan.Referenced)).Msg("processed source root")
	}

	return run.Classify(), nil
}
