package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	ErrInvalidUTF8 = errors.New("record is not valid UTF-8")
	errNotObject   = errors.New("record is not a JSON object")
)

// Record is one dataset entry. Raw holds the compacted source bytes so
// writers can emit the record with its original key order and values.
// Records are never modified after parsing.
type Record struct {
	Raw    json.RawMessage
	Fields map[string]any
}

func ParseRecord(raw []byte) (Record, error) {
	if !utf8.Valid(raw) {
		return Record{}, ErrInvalidUTF8
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]any
	if decodeError := decoder.Decode(&fields); decodeError != nil {
		return Record{}, fmt.Errorf("decode record: %w", decodeError)
	}
	if fields == nil {
		return Record{}, errNotObject
	}
	if _, tokenError := decoder.Token(); tokenError != io.EOF {
		return Record{}, fmt.Errorf("decode record: unexpected data after object")
	}

	compacted := bytes.Buffer{}
	if compactError := json.Compact(&compacted, raw); compactError != nil {
		return Record{}, fmt.Errorf("compact record: %w", compactError)
	}
	return Record{Raw: compacted.Bytes(), Fields: fields}, nil
}

// Text returns the named field when it holds a string and "" otherwise.
func (record Record) Text(field string) string {
	value, ok := record.Fields[field].(string)
	if !ok {
		return ""
	}
	return value
}

// Canonical encodes the record with lexicographically sorted keys, no
// insignificant whitespace and no HTML escaping. Two records are duplicates
// iff their canonical forms are byte-identical.
func (record Record) Canonical() ([]byte, error) {
	buffer := bytes.Buffer{}
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(record.Fields); encodeError != nil {
		return nil, fmt.Errorf("encode canonical record: %w", encodeError)
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// Serialize is the text form searched by the keyword filter. It covers every
// field value of the record.
func (record Record) Serialize() string {
	canonical, canonicalError := record.Canonical()
	if canonicalError != nil {
		return string(record.Raw)
	}
	return string(canonical)
}
