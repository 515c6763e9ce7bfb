// Package charset sniffs the text encoding of dataset files and builds
// decoding readers for them.
package charset

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	Default          = "utf-8"
	DefaultSniffSize = 1 << 20
)

// Detector guesses the charset name of a byte sample. An empty result means
// no guess.
type Detector interface {
	Detect(sample []byte) string
}

type ChardetDetector struct {
	detector *chardet.Detector
}

func NewChardetDetector() *ChardetDetector {
	return &ChardetDetector{detector: chardet.NewTextDetector()}
}

func (detector *ChardetDetector) Detect(sample []byte) string {
	if len(sample) == 0 {
		return ""
	}
	result, detectError := detector.detector.DetectBest(sample)
	if detectError != nil || result == nil {
		return ""
	}
	return result.Charset
}

// FixedDetector always reports the same name.
type FixedDetector string

func (detector FixedDetector) Detect([]byte) string {
	return string(detector)
}

// Resolve keeps only UTF family guesses. Anything else, including no guess,
// becomes utf-8.
func Resolve(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || !strings.Contains(strings.ToLower(trimmed), "utf") {
		return Default
	}
	return trimmed
}

// Sniff reads at most limit bytes of path and returns the resolved charset.
// Unreadable files resolve to utf-8 so the caller's open reports the real
// error.
func Sniff(path string, detector Detector, limit int) string {
	if detector == nil {
		return Default
	}
	if limit <= 0 {
		limit = DefaultSniffSize
	}
	file, openError := os.Open(path)
	if openError != nil {
		return Default
	}
	defer file.Close()

	sample := make([]byte, limit)
	read, readError := io.ReadFull(file, sample)
	if readError != nil && !errors.Is(readError, io.ErrUnexpectedEOF) && !errors.Is(readError, io.EOF) {
		return Default
	}
	return Resolve(detector.Detect(sample[:read]))
}

func lookup(name string) encoding.Encoding {
	if name == "" {
		return unicode.UTF8
	}
	found, lookupError := ianaindex.IANA.Encoding(name)
	if lookupError != nil || found == nil {
		return unicode.UTF8
	}
	return found
}

// NewReader decodes r from the named charset into UTF-8. A byte order mark,
// when present, overrides the name. UTF-8 input passes through unchanged
// apart from a leading BOM, so invalid bytes reach the caller instead of
// being replaced with U+FFFD.
func NewReader(r io.Reader, name string) io.Reader {
	found := lookup(name)
	if found == unicode.UTF8 {
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	return transform.NewReader(r, unicode.BOMOverride(found.NewDecoder()))
}
