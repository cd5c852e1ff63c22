package main

import (
	"github.com/spf13/cobra"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Create the answer table from the image directory",
		Long: `Scan the image directory and write an answer table with one row per image
and an empty label column for you to fill in.

An existing answer table is replaced unless --merge is given, in which case
its labels are kept and only new images are appended.

Examples:
  cropeval template
  cropeval template --images photos --answers data/answer.csv
  cropeval template --merge`,
		RunE: runTemplate,
	}

	cmd.Flags().Bool("merge", false, "keep existing labels and only add new images")

	return cmd
}

func runTemplate(cmd *cobra.Command, _ []string) error {
	merge, _ := cmd.Flags().GetBool("merge")

	p, err := loadPipeline(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	_, err = p.template(merge)
	return finishStage(cmd.OutOrStdout(), err)
}
