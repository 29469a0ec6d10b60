package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/i18nspector/i18nspector/internal/inspector"
)

var (
	fatalColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	headingColor = color.New(color.Bold)
)

// outputReport prints a finished report in text or JSON format and returns
// a non-nil error when the run should exit non-zero (any orphaned resource
// or any problem).
func outputReport(report *inspector.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		if report.HasFindings() {
			return fmt.Errorf("checks failed")
		}
		return nil
	}

	fmt.Printf("Inspected %d strings in %d languages across %d source files.\n",
		report.InspectedStrings, report.LanguageCount, report.SourceFileCount)

	if len(report.Problems) > 0 {
		headingColor.Printf("\nProblems (%d):\n", len(report.Problems))
		for _, p := range report.Problems {
			if p.PrecludesStaticAnalysis {
				fmt.Printf("  %s %s\n", fatalColor.Sprint("fatal"), p.Description)
			} else {
				fmt.Printf("  %s %s\n", warnColor.Sprint("warn "), p.Description)
			}
		}
	}

	if len(report.Untranslated) > 0 {
		headingColor.Printf("\nUntranslated strings (%d):\n", len(report.Untranslated))
		for _, u := range report.Untranslated {
			fmt.Printf("  %s  missing: %s\n", u.Resource.Key, strings.Join(u.MissingLanguageTags, ", "))
		}
	}

	switch {
	case report.OrphanedSuppressed && report.HasFatalProblem:
		warnColor.Println("\nOrphaned strings cannot be analyzed until fatal problems are resolved.")
	case len(report.Orphaned) > 0:
		headingColor.Printf("\nOrphaned strings (%d):\n", len(report.Orphaned))
		for _, r := range report.Orphaned {
			fmt.Printf("  %s\n", r.Key)
		}
	}

	if report.HasFindings() {
		return fmt.Errorf("checks failed")
	}
	okColor.Println("All checks passed.")
	return nil
}
