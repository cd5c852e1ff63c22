// Package main contains the cropeval CLI commands.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aiprojectops/score-files/internal/common"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "cropeval",
		Short: "🌱 Crop image identification and accuracy evaluation",
		Long: `cropeval asks a multimodal model which crop each photograph shows and
scores the answers against a hand-labeled answer table.

Typical workflow:
  cropeval template   # list every image in an answer table
  (fill in the label column by hand)
  cropeval classify   # ask the model about every labeled image
  cropeval evaluate   # print overall and per-crop accuracy

or simply run each step in turn with:
  cropeval run`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/cropeval/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("images", "", "image directory (default: img)")
	rootCmd.PersistentFlags().String("answers", "", "answer table path (default: data/answer.csv)")
	rootCmd.PersistentFlags().String("predictions", "", "predictions table path (default: data/predictions.csv)")
	rootCmd.PersistentFlags().String("provider", "", "vision model provider (openai, anthropic, gemini)")
	rootCmd.PersistentFlags().String("model", "", "vision model name (provider default when empty)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("paths.images", rootCmd.PersistentFlags().Lookup("images"))
	_ = viper.BindPFlag("paths.answers", rootCmd.PersistentFlags().Lookup("answers"))
	_ = viper.BindPFlag("paths.predictions", rootCmd.PersistentFlags().Lookup("predictions"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))

	// Add commands
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(identifyCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// classify and run install cli.InterruptHandler around the batch; the
	// other commands keep the default signal behavior.
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/cropeval", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("CROPEVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cropeval %s\n", version)
		},
	}
}
