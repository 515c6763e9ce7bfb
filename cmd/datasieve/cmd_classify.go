package main

import (
	"fmt"

	"github.com/BegaDeveloper/datasieve/internal/classifier"
	"github.com/BegaDeveloper/datasieve/internal/pipeline"
	"github.com/spf13/cobra"
)

func newClassifyCmd(state *app) *cobra.Command {
	flags := &ioFlags{}
	var variantName string
	var fields []string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Keep records whose designated fields look like Java code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variant, err := classifier.ParseVariant(variantName)
			if err != nil {
				return err
			}
			compiled, err := classifier.Compile(state.rules.Spec(variant))
			if err != nil {
				return fmt.Errorf("compile %s rules: %w", variant, err)
			}
			if len(fields) == 0 {
				fields = state.rules.Fields
			}
			recordFilter := classifier.NewRecordFilter(classifier.New(compiled), fields)

			state.log.Debug().Str("variant", string(variant)).Strs("fields", fields).Msg("classifier ready")
			stats, err := pipeline.Run(cmd.Context(), pipeline.Options{
				InputPath:  flags.input,
				OutputPath: flags.output,
				Filter:     pipeline.Predicate(recordFilter.Keep),
				Detector:   state.detector(cmd, flags),
				Logger:     &state.log,
			})
			if err != nil {
				return fmt.Errorf("classify %s: %w", flags.input, err)
			}
			return state.finish("classify", stats, 0)
		},
	}
	flags.register(cmd, false)
	_ = cmd.MarkFlagRequired("output")
	cmd.Flags().StringVar(&variantName, "variant", string(classifier.VariantStrict), "classifier variant: strict (scored) or loose (any signal)")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "record field to classify, repeatable (default instruction,output)")
	return cmd
}
