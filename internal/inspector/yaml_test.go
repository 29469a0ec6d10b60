package inspector

import (
	"testing"
)

func parseYAMLString(t *testing.T, run *Run, lang, input string) {
	t.Helper()
	ctx := newFileContext(run, lang+".yaml", lang)
	if err := parseYAMLResource([]byte(input), ctx); err != nil {
		t.Fatalf("parseYAMLResource: %v", err)
	}
}

func TestYAMLFlattensNestedKeys(t *testing.T) {
	run := testRun(t, nil)
	parseYAMLString(t, run, "en", `app:
  title: My App
  actions:
    save: Save
count: 3
`)

	tests := []struct {
		key   string
		value string
		line  int
	}{
		{"app.title", "My App", 2},
		{"app.actions.save", "Save", 4},
		{"count", "3", 5},
	}
	for _, tc := range tests {
		r := run.Resources[tc.key]
		if r == nil {
			t.Fatalf("missing resource %q", tc.key)
		}
		if r.Translations["en"] != tc.value {
			t.Errorf("%s: value = %q, want %q", tc.key, r.Translations["en"], tc.value)
		}
		if want := "en.yaml:" + itoa(tc.line); r.Definitions["en"] != want {
			t.Errorf("%s: definition = %q, want %q", tc.key, r.Definitions["en"], want)
		}
	}
}

func TestYAMLLineCommentIgnoresLeaf(t *testing.T) {
	run := testRun(t, nil)
	parseYAMLString(t, run, "en", `kept: a
dropped: b # i18nspector-ignore
`)

	if run.Resources["kept"].Ignored {
		t.Error("unmarked leaf must not be ignored")
	}
	if !run.Resources["dropped"].Ignored {
		t.Error("leaf with a line-comment directive must be ignored")
	}
}

func TestYAMLLineCommentIgnoresSubtree(t *testing.T) {
	run := testRun(t, nil)
	parseYAMLString(t, run, "en", `section: # i18nspector-ignore
  x: 1
  deep:
    y: 2
after: 3
`)

	for _, key := range []string{"section.x", "section.deep.y"} {
		if !run.Resources[key].Ignored {
			t.Errorf("%s: the whole marked subtree must be ignored", key)
		}
	}
	if run.Resources["after"].Ignored {
		t.Error("subtree ignore must not leak to siblings")
	}
}

func TestYAMLBeginEndBlock(t *testing.T) {
	run := testRun(t, nil)
	parseYAMLString(t, run, "en", `before: 1
# i18nspector-ignore-begin
inside1: 2
inside2: 3
# i18nspector-ignore-end
afterward: 4
`)

	if run.Resources["before"].Ignored || run.Resources["afterward"].Ignored {
		t.Error("entries outside the block must not be ignored")
	}
	if !run.Resources["inside1"].Ignored || !run.Resources["inside2"].Ignored {
		t.Error("entries inside the begin/end block must be ignored")
	}
}

func TestYAMLPluralCollapse(t *testing.T) {
	run := testRun(t, nil)
	parseYAMLString(t, run, "en", `greeting_one: hello
greeting_other: hellos
`)

	if len(run.Resources) != 1 {
		t.Fatalf("expected one collapsed resource, got %d", len(run.Resources))
	}
	if _, ok := run.Resources["greeting"]; !ok {
		t.Error("plural variants must collapse onto the base key")
	}
}
