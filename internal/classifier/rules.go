package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BegaDeveloper/datasieve/internal/keywords"
)

type Variant string

const (
	// VariantStrict sums pattern weights and accepts at the threshold.
	VariantStrict Variant = "strict"
	// VariantLoose accepts on any single Java signal.
	VariantLoose Variant = "loose"
)

func ParseVariant(value string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(VariantStrict):
		return VariantStrict, nil
	case string(VariantLoose):
		return VariantLoose, nil
	default:
		return "", fmt.Errorf("invalid classifier variant %q (expected strict|loose)", value)
	}
}

type IdiomSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type PatternSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Weight  int    `yaml:"weight"`
}

// RuleSpec is the uncompiled form of Rules, as defaults or as loaded from a
// rules file.
type RuleSpec struct {
	Variant         Variant
	ExcludeKeywords []string
	ExcludeIdioms   []IdiomSpec
	ShellScripts    bool
	Patterns        []PatternSpec
	Threshold       int
	Signals         []IdiomSpec
	SignalKeywords  []string
}

type Idiom struct {
	Name  string
	Regex *regexp.Regexp
}

type Pattern struct {
	Name   string
	Regex  *regexp.Regexp
	Weight int
}

// Rules are compiled once and shared read-only by every classification.
// Pattern order carries no meaning: the score is a plain sum and every
// pattern is always evaluated.
type Rules struct {
	Variant        Variant
	Exclude        *keywords.Matcher
	Idioms         []Idiom
	ShellScripts   bool
	Patterns       []Pattern
	Threshold      int
	Signals        []Idiom
	SignalKeywords []Idiom
}

var defaultExcludeIdioms = []IdiomSpec{
	{Name: "python-def", Pattern: `def\s+[\pL\pN_]+\s*\(`},
	{Name: "python-print", Pattern: `print\s*\(`},
	{Name: "c-include", Pattern: `#include\s+<`},
	{Name: "csharp-using-system", Pattern: `using\s+System`},
	{Name: "sql-select", Pattern: `SELECT\s+.+\s+FROM`},
	{Name: "html-tag", Pattern: `<html>`},
	{Name: "style-tag", Pattern: `<style>`},
	{Name: "css-rule", Pattern: `\.css\s*\{`},
}

var defaultPatterns = []PatternSpec{
	{Name: "package", Pattern: `(?m)^\s*package\s+[\w.]+;`, Weight: 5},
	{Name: "import", Pattern: `(?m)^\s*import\s+(?:java|javax)\.[\w.]+\*?;`, Weight: 5},
	{Name: "class_def", Pattern: `\b(?:public|private|protected)?\s*(?:abstract\s+|final\s+)?(?:class|interface|enum)\s+\w+`, Weight: 5},
	{Name: "method_def", Pattern: `\b(?:public|private|protected|static)\s+[\w<>\[\]]+\s+\w+\s*\([^)]*\)\s*\{`, Weight: 5},
	{Name: "annotation", Pattern: `@\w+`, Weight: 3},
	{Name: "javadoc", Pattern: `/\*\*[\s\S]*?\*/`, Weight: 2},
	{Name: "generic_new", Pattern: `new\s+\w+<[^>]+>\s*\(`, Weight: 4},
	{Name: "new_obj", Pattern: `new\s+\w+\s*\(`, Weight: 2},
	{Name: "synchronized", Pattern: `\bsynchronized\s*\(`, Weight: 3},
	{Name: "throws", Pattern: `\bthrows\s+\w+`, Weight: 2},
	{Name: "brace_semi", Pattern: `\{[^}]*;[^}]*\}`, Weight: 1},
}

var defaultSignals = []IdiomSpec{
	{Name: "new_obj", Pattern: `\bnew\s+\w+\s*\(`},
	{Name: "throws", Pattern: `\bthrows\s+\w+`},
	{Name: "override", Pattern: `@Override\b`},
	{Name: "implements", Pattern: `implements\s+\w+`},
	{Name: "extends", Pattern: `extends\s+\w+`},
	{Name: "synchronized", Pattern: `synchronized\s*\(`},
}

var defaultSignalKeywords = []string{"java", "interface", "Java", "synchronized"}

const DefaultThreshold = 6

func DefaultStrictSpec() RuleSpec {
	return RuleSpec{
		Variant:         VariantStrict,
		ExcludeKeywords: append([]string(nil), keywords.StrictKeywords...),
		ExcludeIdioms:   append([]IdiomSpec(nil), defaultExcludeIdioms...),
		ShellScripts:    true,
		Patterns:        append([]PatternSpec(nil), defaultPatterns...),
		Threshold:       DefaultThreshold,
	}
}

func DefaultLooseSpec() RuleSpec {
	return RuleSpec{
		Variant:         VariantLoose,
		ExcludeKeywords: append([]string(nil), keywords.LooseKeywords...),
		ExcludeIdioms:   append([]IdiomSpec(nil), defaultExcludeIdioms...),
		ShellScripts:    true,
		Signals:         append([]IdiomSpec(nil), defaultSignals...),
		SignalKeywords:  append([]string(nil), defaultSignalKeywords...),
	}
}

func DefaultSpec(variant Variant) RuleSpec {
	if variant == VariantLoose {
		return DefaultLooseSpec()
	}
	return DefaultStrictSpec()
}

func Compile(spec RuleSpec) (*Rules, error) {
	variant, variantError := ParseVariant(string(spec.Variant))
	if variantError != nil {
		return nil, variantError
	}
	if spec.Threshold < 0 {
		return nil, fmt.Errorf("negative threshold %d", spec.Threshold)
	}

	exclude, keywordError := keywords.New(spec.ExcludeKeywords, keywords.BoundarySpace)
	if keywordError != nil {
		return nil, fmt.Errorf("exclude keywords: %w", keywordError)
	}

	idioms, idiomError := compileIdioms(spec.ExcludeIdioms)
	if idiomError != nil {
		return nil, fmt.Errorf("exclude idioms: %w", idiomError)
	}

	patterns := make([]Pattern, 0, len(spec.Patterns))
	for _, patternSpec := range spec.Patterns {
		if patternSpec.Weight < 0 {
			return nil, fmt.Errorf("pattern %q: negative weight %d", patternSpec.Name, patternSpec.Weight)
		}
		compiled, compileError := regexp.Compile(patternSpec.Pattern)
		if compileError != nil {
			return nil, fmt.Errorf("pattern %q: %w", patternSpec.Name, compileError)
		}
		patterns = append(patterns, Pattern{Name: patternSpec.Name, Regex: compiled, Weight: patternSpec.Weight})
	}

	signals, signalError := compileIdioms(spec.Signals)
	if signalError != nil {
		return nil, fmt.Errorf("signals: %w", signalError)
	}

	signalKeywords := make([]Idiom, 0, len(spec.SignalKeywords))
	for _, keyword := range spec.SignalKeywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			continue
		}
		signalKeywords = append(signalKeywords, Idiom{
			Name:  trimmed,
			Regex: regexp.MustCompile(`(?:^|[^\pL\pN_])` + regexp.QuoteMeta(trimmed) + `(?:[^\pL\pN_]|$)`),
		})
	}

	return &Rules{
		Variant:        variant,
		Exclude:        exclude,
		Idioms:         idioms,
		ShellScripts:   spec.ShellScripts,
		Patterns:       patterns,
		Threshold:      spec.Threshold,
		Signals:        signals,
		SignalKeywords: signalKeywords,
	}, nil
}

func compileIdioms(specs []IdiomSpec) ([]Idiom, error) {
	idioms := make([]Idiom, 0, len(specs))
	for _, idiomSpec := range specs {
		compiled, compileError := regexp.Compile(idiomSpec.Pattern)
		if compileError != nil {
			return nil, fmt.Errorf("idiom %q: %w", idiomSpec.Name, compileError)
		}
		idioms = append(idioms, Idiom{Name: idiomSpec.Name, Regex: compiled})
	}
	return idioms, nil
}
