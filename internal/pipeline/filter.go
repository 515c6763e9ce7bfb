package pipeline

import (
	"strings"

	"github.com/BegaDeveloper/datasieve/internal/dataset"
	"github.com/BegaDeveloper/datasieve/internal/keywords"
)

// Filter decides whether a record is kept. Dropped records carry a short
// reason used for accounting only.
type Filter interface {
	Keep(record dataset.Record) (bool, string, error)
}

type FilterFunc func(record dataset.Record) (bool, string, error)

func (filter FilterFunc) Keep(record dataset.Record) (bool, string, error) {
	return filter(record)
}

// Predicate adapts an infallible keep function, such as a classifier record
// filter, to Filter.
func Predicate(keep func(dataset.Record) (bool, string)) Filter {
	return FilterFunc(func(record dataset.Record) (bool, string, error) {
		kept, reason := keep(record)
		return kept, reason, nil
	})
}

// KeywordFilter drops any record whose serialized text mentions one of the
// matcher's keywords.
type KeywordFilter struct {
	matcher *keywords.Matcher
}

func NewKeywordFilter(matcher *keywords.Matcher) *KeywordFilter {
	return &KeywordFilter{matcher: matcher}
}

func (filter *KeywordFilter) Keep(record dataset.Record) (bool, string, error) {
	keyword, found := filter.matcher.Find(record.Serialize())
	if found {
		return false, "keyword:" + strings.ToLower(keyword), nil
	}
	return true, "", nil
}
