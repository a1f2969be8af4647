// Package commands wires the gorgon CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gorgon-dev/gorgon/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gorgon",
	Short: "A static site generator",
	Long:  "Gorgon builds static sites from Markdown, HTML and Jinja sources.",
	PersistentPreRun: func(*cobra.Command, []string) {
		log.Setup(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
