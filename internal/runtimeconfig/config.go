package runtimeconfig

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	KeyConfigPath     = "DATASIEVE_CONFIG"
	KeyRules          = "DATASIEVE_RULES"
	KeyLogLevel       = "DATASIEVE_LOG_LEVEL"
	KeyOutputDir      = "DATASIEVE_OUTPUT_DIR"
	KeyDetectEncoding = "DATASIEVE_DETECT_ENCODING"
	KeyMetricsFile    = "DATASIEVE_METRICS_FILE"
)

type FileConfig struct {
	Path   string
	Values map[string]string
}

// Settings are the process defaults that flags may still override.
type Settings struct {
	RulesPath      string
	LogLevel       string
	OutputDir      string
	MetricsFile    string
	DetectEncoding bool
	// DetectEncodingSet is false when neither env nor file mention it, so
	// each command keeps its own default.
	DetectEncodingSet bool
}

func DefaultConfigPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv(KeyConfigPath)); override != "" {
		return override, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory failed: %w", err)
	}
	return filepath.Join(homeDir, ".datasieve", "config"), nil
}

// Load parses a key=value file. A missing file is an empty config.
func Load(path string) (FileConfig, error) {
	configPath := strings.TrimSpace(path)
	if configPath == "" {
		resolvedPath, err := DefaultConfigPath()
		if err != nil {
			return FileConfig{}, err
		}
		configPath = resolvedPath
	}
	values := map[string]string{}
	file, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{Path: configPath, Values: values}, nil
		}
		return FileConfig{}, fmt.Errorf("open config failed: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key != "" {
			values[key] = strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return FileConfig{}, fmt.Errorf("read config failed: %w", scanErr)
	}
	return FileConfig{Path: configPath, Values: values}, nil
}

// Resolve merges the environment over the file values.
func (config FileConfig) Resolve() Settings {
	settings := Settings{
		RulesPath:   ResolveString(KeyRules, config.Values),
		LogLevel:    ResolveString(KeyLogLevel, config.Values),
		OutputDir:   ResolveString(KeyOutputDir, config.Values),
		MetricsFile: ResolveString(KeyMetricsFile, config.Values),
	}
	if ResolveString(KeyDetectEncoding, config.Values) != "" {
		settings.DetectEncodingSet = true
		settings.DetectEncoding = ResolveBool(KeyDetectEncoding, config.Values)
	}
	return settings
}

func ResolveString(key string, defaults map[string]string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	if defaults == nil {
		return ""
	}
	return strings.TrimSpace(defaults[key])
}

func ResolveBool(key string, defaults map[string]string) bool {
	raw := ResolveString(key, defaults)
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
