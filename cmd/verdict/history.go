package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"verdict/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past decision sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}
		for _, s := range sessions {
			statusColor := color.New(color.FgGreen)
			if s.Status == history.StatusFailed {
				statusColor = color.New(color.FgRed)
			}
			fmt.Printf("%s  %s  %s  %s\n",
				s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"),
				statusColor.Sprint(s.Status), s.Query)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one session in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		s, err := store.Get(args[0])
		if err != nil {
			return err
		}
		heading := color.New(color.FgCyan, color.Bold)
		heading.Println("Query")
		fmt.Println(s.Query)
		fmt.Printf("dataset: %s  status: %s  duration: %s\n\n", s.DatasetPath, s.Status, s.Duration)
		if s.Error != "" {
			color.New(color.FgRed).Println(s.Error)
			fmt.Println()
		}
		printState(s.Options, s.Analyses, s.Recommendation)
		return nil
	},
}

func openHistory() (*history.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of sessions to list")
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
