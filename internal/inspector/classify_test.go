package inspector

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestUntranslatedReportsMissingTags(t *testing.T) {
	run := testRun(t, nil)
	parseJSONCString(t, run, "en", `{"full": "a", "partial": "b"}`)
	parseJSONCString(t, run, "es", `{"full": "a", "partial": "b"}`)
	parseJSONCString(t, run, "ko", `{"full": "a"}`)

	// Mark everything referenced so orphan findings stay out of the way.
	for _, r := range run.Resources {
		r.References = append(r.References, "app.js:1")
	}

	report := run.Classify()
	if len(report.Untranslated) != 1 {
		t.Fatalf("untranslated = %+v, want one entry", report.Untranslated)
	}
	u := report.Untranslated[0]
	if u.Resource.Key != "partial" {
		t.Errorf("untranslated key = %q, want %q", u.Resource.Key, "partial")
	}
	if len(u.MissingLanguageTags) != 1 || u.MissingLanguageTags[0] != "ko" {
		t.Errorf("missing tags = %v, want [ko]", u.MissingLanguageTags)
	}
}

func TestOrphanedExcludesIgnoredAndReferenced(t *testing.T) {
	run := testRun(t, nil)
	parseJSONCString(t, run, "en", `{
  "used": "a",
  "unused": "b",
  "muted": "c" // i18nspector-ignore
}`)
	run.Resources["used"].References = append(run.Resources["used"].References, "app.js:3")

	report := run.Classify()
	if len(report.Orphaned) != 1 || report.Orphaned[0].Key != "unused" {
		t.Fatalf("orphaned = %+v, want exactly [unused]", report.Orphaned)
	}
}

func TestFatalProblemSuppressesOrphanReporting(t *testing.T) {
	run := testRun(t, nil)
	parseJSONCString(t, run, "en", `{"never.used": "a", "also.unused": "b"}`)
	run.addProblem("app.js", "Non-literal of type identifier at app.js:1", true)

	report := run.Classify()
	if len(report.Orphaned) != 0 {
		t.Errorf("orphaned = %+v, must be empty while fatal problems exist", report.Orphaned)
	}
	if !report.OrphanedSuppressed {
		t.Error("report must state that orphan analysis was suppressed")
	}
	if !report.HasFatalProblem {
		t.Error("fatal flag must be set")
	}
}

func TestPlaceholderResourcesAreNotDefinedOrOrphaned(t *testing.T) {
	run := testRun(t, nil)
	run.Resources["ghost"] = &Resource{
		Key:          "ghost",
		Definitions:  map[string]string{},
		Translations: map[string]string{},
	}

	report := run.Classify()
	if report.InspectedStrings != 0 {
		t.Errorf("inspected = %d, placeholders must not count as defined", report.InspectedStrings)
	}
	if len(report.Orphaned) != 0 {
		t.Errorf("orphaned = %+v, placeholders must never be orphaned", report.Orphaned)
	}
}

func TestOptionalPathExemptFromOrphans(t *testing.T) {
	optRoot := writeTree(t, map[string]string{
		"en.json": `{"optional.key": "v"}`,
	})
	srcRoot := writeTree(t, map[string]string{
		"app.js": "export {};\n",
	})

	run := testRun(t, func(cfg *Config) {
		cfg.ResourceRoots = []ResourceRoot{ParseResourceRoot(optRoot + "?")}
		cfg.SourceRoots = []string{srcRoot}
	})

	report, err := run.Execute()
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Orphaned) != 0 {
		t.Errorf("orphaned = %+v, resources under an optional root are exempt", report.Orphaned)
	}
}

func TestExecuteMissingBaseLanguageFails(t *testing.T) {
	root := writeTree(t, map[string]string{"fr.json": `{"k": "v"}`})
	run := testRun(t, func(cfg *Config) {
		cfg.ResourceRoots = []ResourceRoot{{Path: root}}
	})

	if _, err := run.Execute(); err == nil {
		t.Fatal("expected a hard failure when the base language is missing")
	}
}

func TestEndToEndScenario(t *testing.T) {
	resRoot := writeTree(t, map[string]string{
		"en.json": `{"bar": "Bar", "foo": "Foo"}`,
		"ko.json": `{"bar": "바"}`,
	})
	srcRoot := writeTree(t, map[string]string{
		"app.js": "t('foo');\nt('unknown');\n",
	})

	run := testRun(t, func(cfg *Config) {
		cfg.ResourceRoots = []ResourceRoot{{Path: resRoot}}
		cfg.SourceRoots = []string{srcRoot}
	})

	report, err := run.Execute()
	if err != nil {
		t.Fatal(err)
	}

	if report.InspectedStrings != 2 {
		t.Errorf("inspected = %d, want 2", report.InspectedStrings)
	}
	if report.LanguageCount != 2 {
		t.Errorf("languages = %d, want 2", report.LanguageCount)
	}
	if report.SourceFileCount != 1 {
		t.Errorf("source files = %d, want 1", report.SourceFileCount)
	}

	if len(report.Untranslated) != 1 {
		t.Fatalf("untranslated = %+v, want one entry", report.Untranslated)
	}
	u := report.Untranslated[0]
	if u.Resource.Key != "foo" || len(u.MissingLanguageTags) != 1 || u.MissingLanguageTags[0] != "ko" {
		t.Errorf("untranslated = %s missing %v, want foo missing [ko]", u.Resource.Key, u.MissingLanguageTags)
	}

	if len(report.Orphaned) != 1 || report.Orphaned[0].Key != "bar" {
		t.Fatalf("orphaned = %+v, want exactly [bar]", report.Orphaned)
	}

	if len(report.Problems) != 1 {
		t.Fatalf("problems = %+v, want one", report.Problems)
	}
	p := report.Problems[0]
	if p.PrecludesStaticAnalysis {
		t.Error("unknown-string problem must be non-fatal")
	}
	if !strings.Contains(p.Description, "unknown string 'unknown'") {
		t.Errorf("description = %q", p.Description)
	}
	if !strings.Contains(p.Description, filepath.Join(srcRoot, "app.js")+":2") {
		t.Errorf("description = %q, want the call location app.js:2", p.Description)
	}

	if !report.HasFindings() {
		t.Error("a run with orphans and problems must report findings")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	resRoot := writeTree(t, map[string]string{
		"en.json": `{"a": "1", "b": "2", "c": "3"}`,
		"de.json": `{"a": "eins"}`,
		"fr.json": `{"b": "deux"}`,
	})
	srcRoot := writeTree(t, map[string]string{
		"one.js": "t('a');\nt('nope');\n",
		"two.js": "t('b');\n",
	})

	var previous []byte
	for i := 0; i < 3; i++ {
		run := testRun(t, func(cfg *Config) {
			cfg.ResourceRoots = []ResourceRoot{{Path: resRoot}}
			cfg.SourceRoots = []string{srcRoot}
		})
		report, err := run.Execute()
		if err != nil {
			t.Fatal(err)
		}
		encoded, err := json.Marshal(report)
		if err != nil {
			t.Fatal(err)
		}
		if previous != nil && string(encoded) != string(previous) {
			t.Fatalf("run %d output differs:\n%s\nvs\n%s", i, encoded, previous)
		}
		previous = encoded
	}
}
