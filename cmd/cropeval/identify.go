package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aiprojectops/score-files/internal/cli"
	"github.com/aiprojectops/score-files/internal/config"
	"github.com/aiprojectops/score-files/internal/model"
)

func identifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify <image>",
		Short: "Describe the crop in a single photograph",
		Long: `Ask the vision model for a full profile of the crop in one image: its name,
English name, category, season, well known growing regions, nutrition,
storage and taste.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			path := config.ExpandPath(args[0])
			if !config.FileExists(path) {
				return fmt.Errorf("image %s does not exist", path)
			}

			classifier, err := createLLMClassifier(cmd.Context(), settings, slog.Default())
			if err != nil {
				return err
			}

			profile, err := classifier.Identify(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("failed to identify %s: %w", path, err)
			}
			return printProfile(cmd.OutOrStdout(), profile)
		},
	}
}

func printProfile(w io.Writer, profile model.CropProfile) error {
	name := profile.Name
	if profile.NameEN != "" {
		name = fmt.Sprintf("%s (%s)", profile.Name, profile.NameEN)
	}

	fields := []struct {
		label string
		value string
	}{
		{"Confidence", fmt.Sprintf("%.0f%%", profile.Confidence*100)},
		{"Category", profile.Category},
		{"Season", profile.Season},
		{"Regions", strings.Join(profile.FamousRegions, ", ")},
		{"Nutrition", profile.Nutrition},
		{"Storage", profile.Storage},
		{"Taste", profile.Taste},
	}

	var lines []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", cli.BoldStyle.Render(fmt.Sprintf("%-10s", f.label+":")), f.value))
	}

	_, err := fmt.Fprintln(w, cli.RenderBox(cli.CropIcon+" "+name, strings.Join(lines, "\n")))
	return err
}
