// i18nspector audits localization correctness: it cross-references
// externalized string resources against the source code that uses them.
//
// Usage:
//
//	i18nspector <subcommand> [flags]
//
// Run "i18nspector" with no arguments for a list of subcommands.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/i18nspector/i18nspector/internal/inspector"
)

var subcommands = map[string]func([]string) error{
	"check":        runCheck,
	"orphaned":     runOrphaned,
	"untranslated": runUntranslated,
	"problems":     runProblems,
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage()
		return
	}

	run, ok := subcommands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: i18nspector <subcommand> [flags]

Subcommands:
  check         Full audit: orphaned, untranslated and unknown strings
  orphaned      Keys defined in resources but never referenced by code
  untranslated  Keys missing translations in one or more languages
  problems      Source-code findings only (unknown keys, unsupported patterns)

Run "i18nspector <subcommand> -h" for subcommand-specific flags.`)
}

// commonFlags registers the flags shared by every subcommand and returns a
// builder that assembles the core configuration after parsing.
func commonFlags(fs *flag.FlagSet) func() (inspector.Config, string, error) {
	base := fs.String("base", "en", "Base language tag")
	resources := fs.String("resources", "", "Comma-separated resource roots; suffix a path with '?' to mark it optional (required)")
	sources := fs.String("sources", "", "Comma-separated source-code roots")
	resourceExt := fs.String("resource-ext", ".json,.jsonc,.properties,.yaml,.yml", "Resource file extensions")
	sourceExt := fs.String("source-ext", ".js,.jsx,.ts,.tsx", "Source file extensions")
	format := fs.String("format", "text", "Output format: text, json")
	verbose := fs.Int("v", 0, "Verbosity (0-2)")

	return func() (inspector.Config, string, error) {
		if *resources == "" {
			return inspector.Config{}, "", fmt.Errorf("-resources is required")
		}
		cfg := inspector.DefaultConfig()
		cfg.BaseLanguage = *base
		cfg.ResourceExtensions = splitList(*resourceExt)
		cfg.SourceExtensions = splitList(*sourceExt)
		cfg.Verbosity = *verbose
		for _, arg := range splitList(*resources) {
			cfg.ResourceRoots = append(cfg.ResourceRoots, inspector.ParseResourceRoot(arg))
		}
		cfg.SourceRoots = splitList(*sources)
		return cfg, *format, nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func execute(cfg inspector.Config) (*inspector.Report, error) {
	run, err := inspector.NewRun(cfg)
	if err != nil {
		return nil, err
	}
	return run.Execute()
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	build := commonFlags(fs)
	noOrphaned := fs.Bool("no-orphaned", false, "Skip orphaned-string detection")
	noUntranslated := fs.Bool("no-untranslated", false, "Skip untranslated-string detection")
	fs.Parse(args)

	cfg, format, err := build()
	if err != nil {
		return err
	}
	cfg.CheckOrphaned = !*noOrphaned
	cfg.CheckUntranslated = !*noUntranslated

	report, err := execute(cfg)
	if err != nil {
		return err
	}
	return outputReport(report, format)
}

func runOrphaned(args []string) error {
	fs := flag.NewFlagSet("orphaned", flag.ExitOnError)
	build := commonFlags(fs)
	fs.Parse(args)

	cfg, format, err := build()
	if err != nil {
		return err
	}
	cfg.CheckUntranslated = false

	report, err := execute(cfg)
	if err != nil {
		return err
	}
	return outputReport(report, format)
}

func runUntranslated(args []string) error {
	fs := flag.NewFlagSet("untranslated", flag.ExitOnError)
	build := commonFlags(fs)
	fs.Parse(args)

	cfg, format, err := build()
	if err != nil {
		return err
	}
	cfg.CheckOrphaned = false

	report, err := execute(cfg)
	if err != nil {
		return err
	}
	return outputReport(report, format)
}

func runProblems(args []string) error {
	fs := flag.NewFlagSet("problems", flag.ExitOnError)
	build := commonFlags(fs)
	fs.Parse(args)

	cfg, format, err := build()
	if err != nil {
		return err
	}
	cfg.CheckOrphaned = false
	cfg.CheckUntranslated = false

	report, err := execute(cfg)
	if err != nil {
		return err
	}
	return outputReport(report, format)
}
