package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"verdict/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal UI over the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), cfg, dataPath, logger)
		if err != nil {
			return err
		}
		defer a.close()

		m := tui.New(a.pipeline, a.store, a.dataPath, a.summary)
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
