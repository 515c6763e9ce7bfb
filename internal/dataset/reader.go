package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedShape = errors.New("unsupported dataset shape")
	ErrMalformedArray   = errors.New("malformed JSON array dataset")
)

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 64 << 20

type Shape string

const (
	ShapeArray Shape = "json"
	ShapeLines Shape = "jsonl"
)

func ShapeFromPath(path string) (Shape, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ShapeArray, nil
	case ".jsonl":
		return ShapeLines, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .json or .jsonl)", ErrUnsupportedShape, path)
	}
}

// ReadArray decodes a whole JSON array of objects. Any malformed element
// fails the entire read.
func ReadArray(reader io.Reader) ([]Record, error) {
	decoder := json.NewDecoder(reader)
	elements := []json.RawMessage{}
	if decodeError := decoder.Decode(&elements); decodeError != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArray, decodeError)
	}
	if _, tokenError := decoder.Token(); tokenError != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after array", ErrMalformedArray)
	}

	records := make([]Record, 0, len(elements))
	for index, element := range elements {
		record, parseError := ParseRecord(element)
		if parseError != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedArray, index, parseError)
		}
		records = append(records, record)
	}
	return records, nil
}

// LineRecord is one non-blank JSONL line. Error is set when the line did
// not parse; Record is then empty.
type LineRecord struct {
	LineNumber int
	Line       string
	Record     Record
	Error      error
}

type LineReader struct {
	scanner *bufio.Scanner
	err     error
}

func NewLineReader(reader io.Reader) *LineReader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineReader{scanner: scanner}
}

// Records yields every non-blank line in input order. Parse failures are
// yielded, not returned, so callers can skip them and continue. Err reports
// read failures once the sequence ends.
func (lineReader *LineReader) Records() iter.Seq[LineRecord] {
	return func(yield func(LineRecord) bool) {
		lineNumber := 0
		for lineReader.scanner.Scan() {
			lineNumber++
			line := strings.TrimSpace(lineReader.scanner.Text())
			if line == "" {
				continue
			}
			record, parseError := ParseRecord([]byte(line))
			if !yield(LineRecord{LineNumber: lineNumber, Line: line, Record: record, Error: parseError}) {
				return
			}
		}
		if scanError := lineReader.scanner.Err(); scanError != nil {
			lineReader.err = fmt.Errorf("scan dataset: %w", scanError)
		}
	}
}

func (lineReader *LineReader) Err() error {
	return lineReader.err
}
