// Package keywords matches whole-word, case-insensitive occurrences of a
// list of literal technology names.
package keywords

import (
	"fmt"
	"regexp"
	"strings"
)

// Boundary selects what counts as the edge of a word.
type Boundary int

const (
	// BoundaryAlnum rejects a match that touches an ASCII letter or digit on
	// either side.
	BoundaryAlnum Boundary = iota
	// BoundarySpace requires start of text or whitespace before the keyword
	// and no word character after it. Both classes are Unicode aware, so
	// "Go语言" is one word.
	BoundarySpace
)

const (
	unicodeSpace   = `[\s\v\p{Z}\x{85}]`
	unicodeNonWord = `[^\pL\pN_]`
)

type Matcher struct {
	regex    *regexp.Regexp
	keywords []string
}

func New(keywords []string, boundary Boundary) (*Matcher, error) {
	alternatives := make([]string, 0, len(keywords))
	kept := make([]string, 0, len(keywords))
	seen := map[string]bool{}
	for _, keyword := range keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" || seen[strings.ToLower(trimmed)] {
			continue
		}
		seen[strings.ToLower(trimmed)] = true
		kept = append(kept, trimmed)
		alternatives = append(alternatives, regexp.QuoteMeta(trimmed))
	}
	if len(alternatives) == 0 {
		return &Matcher{}, nil
	}

	var before, after string
	switch boundary {
	case BoundaryAlnum:
		before, after = `(?:^|[^A-Za-z0-9])`, `(?:[^A-Za-z0-9]|$)`
	case BoundarySpace:
		before, after = `(?:^|` + unicodeSpace + `)`, `(?:` + unicodeNonWord + `|$)`
	default:
		return nil, fmt.Errorf("unknown keyword boundary %d", boundary)
	}

	expression := `(?i)` + before + `(` + strings.Join(alternatives, "|") + `)` + after
	compiled, compileError := regexp.Compile(expression)
	if compileError != nil {
		return nil, fmt.Errorf("compile keyword pattern: %w", compileError)
	}
	return &Matcher{regex: compiled, keywords: kept}, nil
}

func MustNew(keywords []string, boundary Boundary) *Matcher {
	matcher, err := New(keywords, boundary)
	if err != nil {
		panic(err)
	}
	return matcher
}

func (matcher *Matcher) Match(text string) bool {
	if matcher == nil || matcher.regex == nil {
		return false
	}
	return matcher.regex.MatchString(text)
}

// Find returns the first keyword occurrence as written in text.
func (matcher *Matcher) Find(text string) (string, bool) {
	if matcher == nil || matcher.regex == nil {
		return "", false
	}
	submatches := matcher.regex.FindStringSubmatch(text)
	if submatches == nil {
		return "", false
	}
	return submatches[1], true
}

func (matcher *Matcher) Keywords() []string {
	if matcher == nil {
		return nil
	}
	return append([]string(nil), matcher.keywords...)
}
