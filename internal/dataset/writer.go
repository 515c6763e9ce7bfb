package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Writer emits accepted records. Close flushes buffered output and
// terminates the dataset but does not close the underlying io.Writer.
type Writer interface {
	Write(record Record) error
	Close() error
}

func NewWriter(output io.Writer, shape Shape) (Writer, error) {
	switch shape {
	case ShapeArray:
		return &ArrayWriter{out: bufio.NewWriter(output)}, nil
	case ShapeLines:
		return &LineWriter{out: bufio.NewWriter(output)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedShape, shape)
	}
}

// ArrayWriter writes a JSON array indented with two spaces.
type ArrayWriter struct {
	out   *bufio.Writer
	count int
}

func (writer *ArrayWriter) Write(record Record) error {
	separator := ",\n  "
	if writer.count == 0 {
		separator = "[\n  "
	}
	indented := bytes.Buffer{}
	if indentError := json.Indent(&indented, record.Raw, "  ", "  "); indentError != nil {
		return fmt.Errorf("indent record: %w", indentError)
	}
	if _, writeError := writer.out.WriteString(separator); writeError != nil {
		return fmt.Errorf("write record: %w", writeError)
	}
	if _, writeError := writer.out.Write(indented.Bytes()); writeError != nil {
		return fmt.Errorf("write record: %w", writeError)
	}
	writer.count++
	return nil
}

func (writer *ArrayWriter) Close() error {
	closing := "\n]\n"
	if writer.count == 0 {
		closing = "[]\n"
	}
	if _, writeError := writer.out.WriteString(closing); writeError != nil {
		return fmt.Errorf("write array end: %w", writeError)
	}
	if flushError := writer.out.Flush(); flushError != nil {
		return fmt.Errorf("flush output: %w", flushError)
	}
	return nil
}

// LineWriter writes one compact JSON object per line.
type LineWriter struct {
	out *bufio.Writer
}

func (writer *LineWriter) Write(record Record) error {
	if _, writeError := writer.out.Write(record.Raw); writeError != nil {
		return fmt.Errorf("write record: %w", writeError)
	}
	if writeError := writer.out.WriteByte('\n'); writeError != nil {
		return fmt.Errorf("write record: %w", writeError)
	}
	return nil
}

func (writer *LineWriter) Close() error {
	if flushError := writer.out.Flush(); flushError != nil {
		return fmt.Errorf("flush output: %w", flushError)
	}
	return nil
}
