package main

import (
	"github.com/spf13/cobra"
)

func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Score the predictions table",
		Long: `Read the predictions table and print overall accuracy, accuracy and mean
confidence per crop, and every misclassified image.

Rows recorded as ERROR are left out of every figure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadPipeline(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return finishStage(cmd.OutOrStdout(), p.evaluate())
		},
	}
}
