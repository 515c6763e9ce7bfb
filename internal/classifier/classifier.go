// Package classifier decides heuristically whether free-form text is Java
// code. Other-language keywords and idioms reject a text outright; the
// remaining texts are either scored against weighted Java patterns (strict)
// or accepted on the first Java signal (loose).
package classifier

import (
	"regexp"
	"strings"

	"github.com/BegaDeveloper/datasieve/internal/dataset"
)

var multiLineComment = regexp.MustCompile(`/\*.*\*/`)

// Verdict explains a classification. Reason names the keyword, idiom or
// signal that decided it.
type Verdict struct {
	Java   bool
	Score  int
	Reason string
}

type Classifier struct {
	rules *Rules
}

func New(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

func (classifier *Classifier) IsJava(text string) bool {
	return classifier.Evaluate(text).Java
}

func (classifier *Classifier) Evaluate(text string) Verdict {
	rules := classifier.rules

	if keyword, found := rules.Exclude.Find(text); found {
		return Verdict{Reason: "keyword:" + strings.ToLower(keyword)}
	}
	for _, idiom := range rules.Idioms {
		if idiom.Regex.MatchString(text) {
			return Verdict{Reason: "idiom:" + idiom.Name}
		}
	}
	if rules.ShellScripts && isShellScript(text) {
		return Verdict{Reason: "idiom:shell-script"}
	}

	if rules.Variant == VariantLoose {
		return rules.anySignal(text)
	}
	return rules.score(text)
}

func (rules *Rules) score(text string) Verdict {
	total := 0
	for _, pattern := range rules.Patterns {
		if pattern.Regex.MatchString(text) {
			total += pattern.Weight
		}
	}
	if total >= rules.Threshold {
		return Verdict{Java: true, Score: total, Reason: "score"}
	}
	return Verdict{Score: total, Reason: "below-threshold"}
}

func (rules *Rules) anySignal(text string) Verdict {
	for _, signal := range rules.Signals {
		if signal.Regex.MatchString(text) {
			return Verdict{Java: true, Reason: "signal:" + signal.Name}
		}
	}
	if strings.Contains(text, "{") && strings.Contains(text, "}") && strings.Contains(text, ";") &&
		!multiLineComment.MatchString(text) {
		return Verdict{Java: true, Reason: "signal:block"}
	}
	for _, keyword := range rules.SignalKeywords {
		if keyword.Regex.MatchString(text) {
			return Verdict{Java: true, Reason: "signal:keyword"}
		}
	}
	return Verdict{Reason: "no-signal"}
}

// RecordFilter keeps a record when any of its designated fields classifies
// as Java. Missing and non-string fields classify as empty text.
type RecordFilter struct {
	classifier *Classifier
	fields     []string
}

var DefaultFields = []string{"instruction", "output"}

func NewRecordFilter(classifier *Classifier, fields []string) *RecordFilter {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	return &RecordFilter{classifier: classifier, fields: append([]string(nil), fields...)}
}

// Keep reports the verdict of the first designated field when the record is
// rejected.
func (filter *RecordFilter) Keep(record dataset.Record) (bool, string) {
	reason := ""
	for index, field := range filter.fields {
		verdict := filter.classifier.Evaluate(record.Text(field))
		if verdict.Java {
			return true, ""
		}
		if index == 0 {
			reason = verdict.Reason
		}
	}
	return false, reason
}
