// Package rules loads the optional YAML rules file that overrides the
// built-in keyword lists, classifier tables and dedup settings.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BegaDeveloper/datasieve/internal/classifier"
	"github.com/BegaDeveloper/datasieve/internal/dedup"
	"github.com/BegaDeveloper/datasieve/internal/keywords"
	"gopkg.in/yaml.v3"
)

const (
	FileName         = ".datasieve.yaml"
	DefaultOutputDir = "deduplicated"
)

type file struct {
	KeywordFilter struct {
		Keywords []string `yaml:"keywords"`
	} `yaml:"keyword_filter"`
	Classifier struct {
		Fields []string       `yaml:"fields"`
		Strict variantSection `yaml:"strict"`
		Loose  variantSection `yaml:"loose"`
	} `yaml:"classifier"`
	Dedup struct {
		OutputDir   string `yaml:"output_dir"`
		SampleLimit *int   `yaml:"sample_limit"`
	} `yaml:"dedup"`
}

// variantSection fields left out of the file keep their defaults. A list
// given as [] replaces the default with nothing.
type variantSection struct {
	ExcludeKeywords []string                 `yaml:"exclude_keywords"`
	ExcludeIdioms   []classifier.IdiomSpec   `yaml:"exclude_idioms"`
	ShellScripts    *bool                    `yaml:"shell_scripts"`
	Patterns        []classifier.PatternSpec `yaml:"patterns"`
	Threshold       *int                     `yaml:"threshold"`
	Signals         []classifier.IdiomSpec   `yaml:"signals"`
	SignalKeywords  []string                 `yaml:"signal_keywords"`
}

type Config struct {
	Path           string
	FilterKeywords []string
	Fields         []string
	Strict         classifier.RuleSpec
	Loose          classifier.RuleSpec
	OutputDir      string
	SampleLimit    int
}

func Default() Config {
	return Config{
		FilterKeywords: append([]string{}, keywords.FilterKeywords...),
		Fields:         append([]string{}, classifier.DefaultFields...),
		Strict:         classifier.DefaultStrictSpec(),
		Loose:          classifier.DefaultLooseSpec(),
		OutputDir:      DefaultOutputDir,
		SampleLimit:    dedup.DefaultSampleLimit,
	}
}

func (config Config) Spec(variant classifier.Variant) classifier.RuleSpec {
	if variant == classifier.VariantLoose {
		return config.Loose
	}
	return config.Strict
}

// Find walks from directory up to the filesystem root looking for a rules
// file. It returns "" when none exists.
func Find(directory string) string {
	current := directory
	for {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Every table is compiled once here so bad patterns fail before any input
// is read.
func Load(path string) (Config, error) {
	config := Default()
	if strings.TrimSpace(path) == "" {
		return config, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read rules file: %w", err)
	}

	parsed := file{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if decodeError := decoder.Decode(&parsed); decodeError != nil && !errors.Is(decodeError, io.EOF) {
		return Config{}, fmt.Errorf("invalid rules file %s: %w", path, decodeError)
	}

	config.Path = path
	if parsed.KeywordFilter.Keywords != nil {
		config.FilterKeywords = parsed.KeywordFilter.Keywords
	}
	if parsed.Classifier.Fields != nil {
		config.Fields = parsed.Classifier.Fields
	}
	config.Strict = parsed.Classifier.Strict.apply(config.Strict)
	config.Loose = parsed.Classifier.Loose.apply(config.Loose)
	if strings.TrimSpace(parsed.Dedup.OutputDir) != "" {
		config.OutputDir = strings.TrimSpace(parsed.Dedup.OutputDir)
	}
	if parsed.Dedup.SampleLimit != nil {
		config.SampleLimit = *parsed.Dedup.SampleLimit
	}

	if validateError := config.Validate(); validateError != nil {
		return Config{}, fmt.Errorf("invalid rules file %s: %w", path, validateError)
	}
	return config, nil
}

func (section variantSection) apply(spec classifier.RuleSpec) classifier.RuleSpec {
	if section.ExcludeKeywords != nil {
		spec.ExcludeKeywords = section.ExcludeKeywords
	}
	if section.ExcludeIdioms != nil {
		spec.ExcludeIdioms = section.ExcludeIdioms
	}
	if section.ShellScripts != nil {
		spec.ShellScripts = *section.ShellScripts
	}
	if section.Patterns != nil {
		spec.Patterns = section.Patterns
	}
	if section.Threshold != nil {
		spec.Threshold = *section.Threshold
	}
	if section.Signals != nil {
		spec.Signals = section.Signals
	}
	if section.SignalKeywords != nil {
		spec.SignalKeywords = section.SignalKeywords
	}
	return spec
}

func (config Config) Validate() error {
	if _, err := keywords.New(config.FilterKeywords, keywords.BoundaryAlnum); err != nil {
		return fmt.Errorf("keyword_filter: %w", err)
	}
	if _, err := classifier.Compile(config.Strict); err != nil {
		return fmt.Errorf("classifier.strict: %w", err)
	}
	if _, err := classifier.Compile(config.Loose); err != nil {
		return fmt.Errorf("classifier.loose: %w", err)
	}
	if config.SampleLimit < 0 {
		return fmt.Errorf("dedup.sample_limit must not be negative, got %d", config.SampleLimit)
	}
	return nil
}
