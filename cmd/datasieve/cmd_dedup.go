package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BegaDeveloper/datasieve/internal/dedup"
	"github.com/BegaDeveloper/datasieve/internal/pipeline"
	"github.com/spf13/cobra"
)

const reportFileName = "report.json"

func newDedupCmd(state *app) *cobra.Command {
	flags := &ioFlags{}
	var outputDir string
	var diskIndex bool

	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Remove exact-duplicate records and write report.json",
		Long: "dedup keeps the first occurrence of every record, comparing records by\n" +
			"the SHA-256 of their sorted-key JSON. It writes clean_<input name> and\n" +
			"report.json into the output directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			directory := outputDir
			if !cmd.Flags().Changed("output-dir") {
				directory = state.rules.OutputDir
				if state.settings.OutputDir != "" {
					directory = state.settings.OutputDir
				}
			}
			if err := os.MkdirAll(directory, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			outputPath := flags.output
			if outputPath == "" {
				outputPath = filepath.Join(directory, "clean_"+filepath.Base(flags.input))
			}

			var seen dedup.DigestSet = dedup.NewMemorySet()
			if diskIndex {
				boltSet, err := dedup.NewBoltSet(directory)
				if err != nil {
					return err
				}
				state.log.Debug().Str("path", boltSet.Path()).Msg("using on-disk digest index")
				seen = boltSet
			}
			deduplicator := dedup.New(seen, state.rules.SampleLimit)
			defer deduplicator.Close()

			stats, err := pipeline.Run(cmd.Context(), pipeline.Options{
				InputPath:  flags.input,
				OutputPath: outputPath,
				Filter:     deduplicator,
				Detector:   state.detector(cmd, flags),
				Logger:     &state.log,
			})
			if err != nil {
				return fmt.Errorf("dedup %s: %w", flags.input, err)
			}

			reportPath := filepath.Join(directory, reportFileName)
			if err := dedup.WriteReport(reportPath, deduplicator.Report(flags.input, stats.Encoding)); err != nil {
				return err
			}
			state.log.Info().
				Str("output", outputPath).
				Str("report", reportPath).
				Int("duplicates", deduplicator.Count()).
				Msg("dedup complete")
			return state.finish("dedup", stats, deduplicator.Count())
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the clean dataset and report.json (default deduplicated)")
	cmd.Flags().BoolVar(&diskIndex, "disk-index", false, "keep seen digests in a temporary bbolt file instead of memory")
	return cmd
}
