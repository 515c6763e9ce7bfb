package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BegaDeveloper/datasieve/internal/pipeline"
)

func mustTextfile(t *testing.T, m *Metrics) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasieve.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	return string(content)
}

func TestMetrics_Textfile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		command   string
		stats     pipeline.Stats
		dupes     int
		fragments []string
	}{
		{
			name:    "filter run",
			command: "filter",
			stats: pipeline.Stats{
				Read:        5,
				Kept:        2,
				Dropped:     3,
				Skipped:     1,
				DropReasons: map[string]int{"keyword:python": 2, "keyword:go": 1},
				Duration:    1500 * time.Millisecond,
			},
			fragments: []string{
				`datasieve_records_read_total{command="filter"} 5`,
				`datasieve_records_kept_total{command="filter"} 2`,
				`datasieve_records_dropped_total{command="filter",reason="keyword:python"} 2`,
				`datasieve_records_dropped_total{command="filter",reason="keyword:go"} 1`,
				`datasieve_skipped_lines_total{command="filter"} 1`,
				`datasieve_run_duration_seconds{command="filter"} 1.5`,
			},
		},
		{
			name:    "dedup run",
			command: "dedup",
			stats:   pipeline.Stats{Read: 3, Kept: 2, Dropped: 1, DropReasons: map[string]int{"duplicate": 1}},
			dupes:   1,
			fragments: []string{
				`datasieve_records_dropped_total{command="dedup",reason="duplicate"} 1`,
				`datasieve_duplicates_total{command="dedup"} 1`,
				"# TYPE datasieve_run_duration_seconds gauge",
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			m := New(testCase.command)
			m.Observe(testCase.stats)
			m.ObserveDuplicates(testCase.dupes)

			text := mustTextfile(t, m)
			for _, fragment := range testCase.fragments {
				if !strings.Contains(text, fragment) {
					t.Fatalf("expected %q in textfile, got:\n%s", fragment, text)
				}
			}
		})
	}
}
