package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"verdict/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI over the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, cfg, dataPath, logger)
		if err != nil {
			return err
		}
		defer a.close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		srv := server.New(server.Config{
			Pipeline:    a.pipeline,
			Store:       a.store,
			DatasetPath: a.dataPath,
			Summary:     a.summary,
			DocCount:    a.docCount,
			Logger:      logger,
		})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
	rootCmd.AddCommand(serveCmd)
}
