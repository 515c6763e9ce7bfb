package runtimeconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_ParsesKeyValueFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")
	mustWriteFile(t, path, "# datasieve defaults\n\nDATASIEVE_LOG_LEVEL = debug\nDATASIEVE_RULES=\"/etc/datasieve.yaml\"\nnot a pair\n=orphan\n")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	expected := map[string]string{
		"DATASIEVE_LOG_LEVEL": "debug",
		"DATASIEVE_RULES":     "/etc/datasieve.yaml",
	}
	if diff := cmp.Diff(expected, config.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent")
	config, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if config.Path != path || len(config.Values) != 0 {
		t.Fatalf("unexpected config: %+v", config)
	}
}

func TestResolve_EnvironmentWins(t *testing.T) {
	t.Setenv(KeyLogLevel, "warn")
	t.Setenv(KeyRules, "")
	t.Setenv(KeyOutputDir, "")
	t.Setenv(KeyMetricsFile, "")
	t.Setenv(KeyDetectEncoding, "")

	config := FileConfig{Values: map[string]string{
		KeyLogLevel:       "debug",
		KeyRules:          "rules.yaml",
		KeyDetectEncoding: "off",
	}}
	settings := config.Resolve()

	expected := Settings{
		RulesPath:         "rules.yaml",
		LogLevel:          "warn",
		DetectEncoding:    false,
		DetectEncodingSet: true,
	}
	if diff := cmp.Diff(expected, settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_DetectEncodingUnset(t *testing.T) {
	t.Setenv(KeyDetectEncoding, "")

	settings := FileConfig{Values: map[string]string{}}.Resolve()
	if settings.DetectEncodingSet {
		t.Fatalf("expected detect encoding to stay unset")
	}

	t.Setenv(KeyDetectEncoding, "yes")
	settings = FileConfig{}.Resolve()
	if !settings.DetectEncodingSet || !settings.DetectEncoding {
		t.Fatalf("expected env to enable detection, got %+v", settings)
	}
}

func TestDefaultConfigPath_Override(t *testing.T) {
	t.Setenv(KeyConfigPath, "/tmp/datasieve.conf")

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if path != "/tmp/datasieve.conf" {
		t.Fatalf("expected override path, got %s", path)
	}
}
