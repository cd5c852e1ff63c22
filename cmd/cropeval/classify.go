package main

import (
	"github.com/spf13/cobra"

	"github.com/aiprojectops/score-files/internal/cli"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Ask the vision model about every labeled image",
		Long: `Send each labeled image in the image directory to the vision model, one at
a time, and write the predictions table.

Images without a label are skipped. Images the model cannot answer for are
recorded as ERROR and the batch continues. The predictions table is written
once, after the last image.

Examples:
  cropeval classify
  cropeval classify --provider anthropic
  cropeval classify --images photos --predictions out/predictions.csv`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("quiet", false, "do not print a line per image")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	p, err := loadPipeline(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	p.showProgress = !quiet

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context())
	defer interrupts.Stop()

	_, err = p.classify(ctx)
	return finishStage(cmd.OutOrStdout(), err)
}
