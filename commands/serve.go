package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorgon-dev/gorgon/server"
)

var (
	servePort   int
	serveDrafts bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally, rebuilding on change",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		srv, err := server.New(cwd,
			server.WithPort(servePort),
			server.WithDrafts(serveDrafts),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveDrafts, "drafts", false, "include draft pages")
	rootCmd.AddCommand(serveCmd)
}
