package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"verdict/internal/config"
)

var (
	cfgPath  string
	dataPath string
	verbose  bool

	cfg    *config.AppConfig
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Decision assistant over your own tabular data",
	Long: `Verdict answers "which one should I pick?" questions over a small dataset.
It retrieves candidate options by vector similarity, asks an LLM for pros
and cons of each, and asks it again for a final recommendation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		if cfgPath == "" {
			cfg, _, err = config.LoadDefault()
		} else {
			cfg, err = config.Load(cfgPath)
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (default: ./config.yaml, then ~/.config/verdict/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "path to the dataset file (.csv, .json, .txt, .md)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
