package pipeline

import (
	"testing"

	"github.com/BegaDeveloper/datasieve/internal/dataset"
)

func TestKeywordFilter_NonASCIINeighbours(t *testing.T) {
	t.Parallel()

	filter := keywordFilter(t)

	testCases := []struct {
		name           string
		raw            string
		expectedKept   bool
		expectedReason string
	}{
		{name: "cjk on both sides", raw: `{"text":"用Python写"}`, expectedReason: "keyword:python"},
		{name: "accented letter before", raw: `{"text":"éR"}`, expectedReason: "keyword:r"},
		{name: "accented word before space", raw: `{"text":"naïve Go"}`, expectedReason: "keyword:go"},
		{name: "ascii suffix still joins", raw: `{"text":"Pythonic idioms"}`, expectedKept: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			record, parseError := dataset.ParseRecord([]byte(testCase.raw))
			if parseError != nil {
				t.Fatalf("parse record: %v", parseError)
			}
			kept, reason, keepError := filter.Keep(record)
			if keepError != nil {
				t.Fatalf("keep: %v", keepError)
			}
			if kept != testCase.expectedKept || reason != testCase.expectedReason {
				t.Fatalf("expected kept=%v reason=%q, got kept=%v reason=%q", testCase.expectedKept, testCase.expectedReason, kept, reason)
			}
		})
	}
}
