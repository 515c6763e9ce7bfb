// Package pipeline runs one filter over one dataset file and writes the
// kept records, in input order, to an output file of the same shape.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BegaDeveloper/datasieve/internal/charset"
	"github.com/BegaDeveloper/datasieve/internal/dataset"
	"github.com/rs/zerolog"
)

const previewLength = 120

var ErrNoFilter = errors.New("pipeline filter is required")

type Options struct {
	InputPath  string
	OutputPath string
	Filter     Filter
	// Detector enables encoding sniffing. Nil reads the input as UTF-8.
	Detector   charset.Detector
	SniffLimit int
	Logger     *zerolog.Logger
}

type Stats struct {
	Shape       dataset.Shape
	Encoding    string
	Read        int
	Kept        int
	Dropped     int
	Skipped     int
	DropReasons map[string]int
	Duration    time.Duration
}

func (stats *Stats) drop(reason string) {
	stats.Dropped++
	if reason == "" {
		reason = "unspecified"
	}
	stats.DropReasons[reason]++
}

// Log writes the run summary. Drop reasons are logged at debug, sorted by
// name.
func (stats Stats) Log(logger *zerolog.Logger) {
	if logger == nil {
		return
	}
	logger.Info().
		Str("shape", string(stats.Shape)).
		Str("encoding", stats.Encoding).
		Int("read", stats.Read).
		Int("kept", stats.Kept).
		Int("dropped", stats.Dropped).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration).
		Msg("run complete")

	reasons := make([]string, 0, len(stats.DropReasons))
	for reason := range stats.DropReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		logger.Debug().Str("reason", reason).Int("count", stats.DropReasons[reason]).Msg("dropped records")
	}
}

// Run filters options.InputPath into options.OutputPath. The output is
// written to a temporary file in the output directory and renamed into
// place only when the whole run succeeds.
func Run(ctx context.Context, options Options) (Stats, error) {
	started := time.Now()
	stats := Stats{Encoding: charset.Default, DropReasons: map[string]int{}}
	if options.Filter == nil {
		return stats, ErrNoFilter
	}
	logger := options.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	shape, shapeError := dataset.ShapeFromPath(options.InputPath)
	if shapeError != nil {
		return stats, shapeError
	}
	stats.Shape = shape
	if options.Detector != nil {
		stats.Encoding = charset.Sniff(options.InputPath, options.Detector, options.SniffLimit)
	}

	input, openError := os.Open(options.InputPath)
	if openError != nil {
		return stats, fmt.Errorf("open input: %w", openError)
	}
	defer input.Close()
	reader := charset.NewReader(input, stats.Encoding)

	logger.Debug().
		Str("input", options.InputPath).
		Str("output", options.OutputPath).
		Str("shape", string(shape)).
		Str("encoding", stats.Encoding).
		Msg("run started")

	var runError error
	switch shape {
	case dataset.ShapeArray:
		runError = runArray(ctx, reader, options, &stats)
	default:
		runError = runLines(ctx, reader, options, logger, &stats)
	}
	stats.Duration = time.Since(started)
	return stats, runError
}

func runArray(ctx context.Context, reader io.Reader, options Options, stats *Stats) error {
	records, readError := dataset.ReadArray(reader)
	if readError != nil {
		return readError
	}

	kept := make([]dataset.Record, 0, len(records))
	for _, record := range records {
		if ctxError := ctx.Err(); ctxError != nil {
			return ctxError
		}
		stats.Read++
		keep, reason, keepError := options.Filter.Keep(record)
		if keepError != nil {
			return keepError
		}
		if !keep {
			stats.drop(reason)
			continue
		}
		kept = append(kept, record)
	}

	return writeAtomically(options.OutputPath, dataset.ShapeArray, func(writer dataset.Writer) error {
		for _, record := range kept {
			if writeError := writer.Write(record); writeError != nil {
				return writeError
			}
			stats.Kept++
		}
		return nil
	})
}

func runLines(ctx context.Context, reader io.Reader, options Options, logger *zerolog.Logger, stats *Stats) error {
	lineReader := dataset.NewLineReader(reader)
	return writeAtomically(options.OutputPath, dataset.ShapeLines, func(writer dataset.Writer) error {
		for lineRecord := range lineReader.Records() {
			if ctxError := ctx.Err(); ctxError != nil {
				return ctxError
			}
			if lineRecord.Error != nil {
				stats.Skipped++
				logger.Warn().
					Int("line", lineRecord.LineNumber).
					Str("preview", preview(lineRecord.Line)).
					Err(lineRecord.Error).
					Msg("skipping malformed line")
				continue
			}
			stats.Read++
			keep, reason, keepError := options.Filter.Keep(lineRecord.Record)
			if keepError != nil {
				return fmt.Errorf("line %d: %w", lineRecord.LineNumber, keepError)
			}
			if !keep {
				stats.drop(reason)
				continue
			}
			if writeError := writer.Write(lineRecord.Record); writeError != nil {
				return writeError
			}
			stats.Kept++
		}
		return lineReader.Err()
	})
}

func writeAtomically(outputPath string, shape dataset.Shape, fill func(dataset.Writer) error) error {
	directory := filepath.Dir(outputPath)
	if mkdirError := os.MkdirAll(directory, 0o755); mkdirError != nil {
		return fmt.Errorf("create output directory: %w", mkdirError)
	}
	tempFile, createError := os.CreateTemp(directory, ".datasieve-*.tmp")
	if createError != nil {
		return fmt.Errorf("create output: %w", createError)
	}
	tempPath := tempFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	writer, writerError := dataset.NewWriter(tempFile, shape)
	if writerError != nil {
		return writerError
	}
	if fillError := fill(writer); fillError != nil {
		return fillError
	}
	if closeError := writer.Close(); closeError != nil {
		return closeError
	}
	if closeError := tempFile.Close(); closeError != nil {
		return fmt.Errorf("close output: %w", closeError)
	}
	if chmodError := os.Chmod(tempPath, 0o644); chmodError != nil {
		return fmt.Errorf("set output permissions: %w", chmodError)
	}
	if renameError := os.Rename(tempPath, outputPath); renameError != nil {
		return fmt.Errorf("move output into place: %w", renameError)
	}
	committed = true
	return nil
}

func preview(line string) string {
	runes := []rune(line)
	if len(runes) <= previewLength {
		return line
	}
	return string(runes[:previewLength]) + "..."
}
