// Package dedup removes exact-duplicate records. Records are compared by the
// SHA-256 of their canonical sorted-key serialization and the first
// occurrence of every digest is kept.
package dedup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BegaDeveloper/datasieve/internal/dataset"
)

const DefaultSampleLimit = 3

// Duplicate is a record that was dropped because its digest had already
// been seen. Index is the 1-based position of the record in the input.
type Duplicate struct {
	Digest string          `json:"digest"`
	Index  int             `json:"index"`
	Record json.RawMessage `json:"record"`
}

type Deduplicator struct {
	seen        DigestSet
	sampleLimit int
	observed    int
	count       int
	samples     []Duplicate
}

func New(seen DigestSet, sampleLimit int) *Deduplicator {
	if seen == nil {
		seen = NewMemorySet()
	}
	if sampleLimit < 0 {
		sampleLimit = 0
	}
	return &Deduplicator{seen: seen, sampleLimit: sampleLimit, samples: []Duplicate{}}
}

// Keep adds the record's digest to the seen set first and keeps the record
// only when the digest was new.
func (deduplicator *Deduplicator) Keep(record dataset.Record) (bool, string, error) {
	deduplicator.observed++
	digest, digestError := Digest(record)
	if digestError != nil {
		return false, "", fmt.Errorf("digest record %d: %w", deduplicator.observed, digestError)
	}
	added, addError := deduplicator.seen.Add(digest)
	if addError != nil {
		return false, "", addError
	}
	if added {
		return true, "", nil
	}

	deduplicator.count++
	if len(deduplicator.samples) < deduplicator.sampleLimit {
		deduplicator.samples = append(deduplicator.samples, Duplicate{
			Digest: digest,
			Index:  deduplicator.observed,
			Record: record.Raw,
		})
	}
	return false, "duplicate", nil
}

func (deduplicator *Deduplicator) Count() int {
	return deduplicator.count
}

func (deduplicator *Deduplicator) Samples() []Duplicate {
	return append([]Duplicate{}, deduplicator.samples...)
}

func (deduplicator *Deduplicator) Close() error {
	return deduplicator.seen.Close()
}

type Report struct {
	InputFile        string      `json:"input_file"`
	DetectedEncoding string      `json:"detected_encoding"`
	DuplicatesCount  int         `json:"duplicates_count"`
	SampleDuplicates []Duplicate `json:"sample_duplicates"`
}

func (deduplicator *Deduplicator) Report(inputFile string, encoding string) Report {
	return Report{
		InputFile:        inputFile,
		DetectedEncoding: encoding,
		DuplicatesCount:  deduplicator.count,
		SampleDuplicates: deduplicator.Samples(),
	}
}

func WriteReport(path string, report Report) error {
	buffer := bytes.Buffer{}
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf("encode report: %w", encodeError)
	}
	if writeError := os.WriteFile(path, buffer.Bytes(), 0o644); writeError != nil {
		return fmt.Errorf("write report: %w", writeError)
	}
	return nil
}
