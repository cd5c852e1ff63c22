package main

import (
	"github.com/spf13/cobra"

	"github.com/aiprojectops/score-files/internal/cli"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run template, classify and evaluate in order",
		Long: `Run the whole pipeline:

  1. When the answer table does not exist yet, create it and stop so the
     labels can be filled in.
  2. When the answer table still has blank labels, stop and say so.
  3. Classify every labeled image.
  4. Evaluate the predictions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadPipeline(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interrupts.HandleInterrupts(cmd.Context())
			defer interrupts.Stop()

			return finishStage(cmd.OutOrStdout(), p.run(ctx))
		},
	}
}
