package main

import (
	"fmt"

	"github.com/BegaDeveloper/datasieve/internal/charset"
	"github.com/BegaDeveloper/datasieve/internal/keywords"
	"github.com/BegaDeveloper/datasieve/internal/pipeline"
	"github.com/spf13/cobra"
)

type ioFlags struct {
	input          string
	output         string
	detectEncoding bool
}

func (flags *ioFlags) register(cmd *cobra.Command, detectDefault bool) {
	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "input dataset (.json or .jsonl)")
	f.StringVarP(&flags.output, "output", "o", "", "output dataset, same shape as input")
	f.BoolVar(&flags.detectEncoding, "detect-encoding", detectDefault, "sniff the input text encoding before reading")
	_ = cmd.MarkFlagRequired("input")
}

func (state *app) detector(cmd *cobra.Command, flags *ioFlags) charset.Detector {
	if !state.detectEncoding(cmd, flags.detectEncoding) {
		return nil
	}
	return charset.NewChardetDetector()
}

func newFilterCmd(state *app) *cobra.Command {
	flags := &ioFlags{}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Drop records whose text mentions another language or technology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			matcher, err := keywords.New(state.rules.FilterKeywords, keywords.BoundaryAlnum)
			if err != nil {
				return fmt.Errorf("compile filter keywords: %w", err)
			}
			stats, err := pipeline.Run(cmd.Context(), pipeline.Options{
				InputPath:  flags.input,
				OutputPath: flags.output,
				Filter:     pipeline.NewKeywordFilter(matcher),
				Detector:   state.detector(cmd, flags),
				Logger:     &state.log,
			})
			if err != nil {
				return fmt.Errorf("filter %s: %w", flags.input, err)
			}
			return state.finish("filter", stats, 0)
		},
	}
	flags.register(cmd, false)
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
