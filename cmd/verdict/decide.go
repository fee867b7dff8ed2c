package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"verdict/internal/domain"
)

var decideCmd = &cobra.Command{
	Use:   "decide [query]",
	Short: "Run one decision query against the dataset and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, cfg, dataPath, logger)
		if err != nil {
			return err
		}
		defer a.close()

		query := strings.Join(args, " ")
		st, err := a.pipeline.Run(ctx, query)
		if st != nil {
			if _, saveErr := a.store.SaveRun(st, a.dataPath); saveErr != nil {
				logger.Warn("saving session failed", "error", saveErr)
			}
		}
		if err != nil {
			return err
		}
		printState(st.Options, st.Analyses, st.Recommendation.Text)
		return nil
	},
}

func printState(options []domain.Option, analyses []domain.Analysis, recommendation string) {
	heading := color.New(color.FgCyan, color.Bold)
	failed := color.New(color.FgRed)

	heading.Printf("Options (%d)\n", len(options))
	for i, o := range options {
		fmt.Printf("%d. [%.3f] %s\n", i+1, o.Score, o.Document.Content)
	}
	fmt.Println()

	heading.Println("Pros & Cons")
	for i, a := range analyses {
		fmt.Printf("--- option %d ---\n", i+1)
		if a.Failed {
			failed.Println(a.Text)
		} else {
			fmt.Println(a.Text)
		}
	}
	fmt.Println()

	heading.Println("Recommendation")
	color.New(color.FgGreen).Println(recommendation)
}

func init() {
	rootCmd.AddCommand(decideCmd)
}
