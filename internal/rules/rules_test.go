package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BegaDeveloper/datasieve/internal/classifier"
	"github.com/BegaDeveloper/datasieve/internal/keywords"
	"github.com/google/go-cmp/cmp"
)

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	config, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(keywords.FilterKeywords, config.FilterKeywords); diff != "" {
		t.Fatalf("filter keywords mismatch (-want +got):\n%s", diff)
	}
	if config.Strict.Threshold != classifier.DefaultThreshold || config.OutputDir != DefaultOutputDir || config.SampleLimit != 3 {
		t.Fatalf("unexpected defaults: %+v", config)
	}
}

func TestLoad_OverridesOnlyGivenSections(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	mustWriteFile(t, path, `
keyword_filter:
  keywords: [Python, Go]
classifier:
  fields: [response]
  strict:
    threshold: 10
    patterns:
      - name: class_def
        pattern: '\bclass\s+\w+'
        weight: 10
  loose:
    shell_scripts: false
    signal_keywords: []
dedup:
  output_dir: out
  sample_limit: 5
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Python", "Go"}, config.FilterKeywords); diff != "" {
		t.Fatalf("filter keywords mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"response"}, config.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if config.Strict.Threshold != 10 || len(config.Strict.Patterns) != 1 {
		t.Fatalf("strict overrides not applied: %+v", config.Strict)
	}
	if diff := cmp.Diff(classifier.DefaultStrictSpec().ExcludeKeywords, config.Strict.ExcludeKeywords); diff != "" {
		t.Fatalf("strict keywords should keep defaults (-want +got):\n%s", diff)
	}
	if config.Loose.ShellScripts || len(config.Loose.SignalKeywords) != 0 {
		t.Fatalf("loose overrides not applied: %+v", config.Loose)
	}
	if len(config.Loose.Signals) == 0 {
		t.Fatalf("loose signals should keep defaults")
	}
	if config.OutputDir != "out" || config.SampleLimit != 5 || config.Path != path {
		t.Fatalf("dedup overrides not applied: %+v", config)
	}

	compiled, compileError := classifier.Compile(config.Spec(classifier.VariantStrict))
	if compileError != nil {
		t.Fatalf("compile strict: %v", compileError)
	}
	if !classifier.New(compiled).IsJava("class Foo") {
		t.Fatalf("expected overridden weight to accept a bare class declaration")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "bad pattern",
			content:  "classifier:\n  strict:\n    patterns:\n      - {name: broken, pattern: '(', weight: 1}\n",
			expected: `"broken"`,
		},
		{
			name:     "negative weight",
			content:  "classifier:\n  strict:\n    patterns:\n      - {name: heavy, pattern: 'x', weight: -2}\n",
			expected: "negative weight",
		},
		{
			name:     "negative threshold",
			content:  "classifier:\n  strict:\n    threshold: -1\n",
			expected: "negative threshold",
		},
		{
			name:     "bad loose idiom",
			content:  "classifier:\n  loose:\n    exclude_idioms:\n      - {name: bad, pattern: '[a-'}\n",
			expected: "classifier.loose",
		},
		{
			name:     "negative sample limit",
			content:  "dedup:\n  sample_limit: -1\n",
			expected: "sample_limit",
		},
		{
			name:     "unknown key",
			content:  "classifer:\n  fields: [x]\n",
			expected: "classifer",
		},
		{
			name:     "not yaml",
			content:  "keyword_filter: [",
			expected: "invalid rules file",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "rules.yaml")
			mustWriteFile(t, path, testCase.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), testCase.expected) {
				t.Fatalf("expected error containing %q, got %v", testCase.expected, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing rules file")
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	mustWriteFile(t, path, "")
	config, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if config.Strict.Threshold != classifier.DefaultThreshold {
		t.Fatalf("expected default threshold, got %d", config.Strict.Threshold)
	}
}

func TestFind_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	mustMkdirAll(t, nested)
	if got := Find(nested); got != "" && !strings.HasPrefix(got, root) {
		t.Fatalf("unexpected rules file outside the temp tree: %s", got)
	}

	expected := filepath.Join(root, "a", FileName)
	mustWriteFile(t, expected, "dedup:\n  sample_limit: 1\n")
	if got := Find(nested); got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}
