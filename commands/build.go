package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gorgon-dev/gorgon/build"
	"github.com/gorgon-dev/gorgon/log"
)

var (
	buildDrafts  bool
	buildRootURL string
	buildOutput  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the output directory",
	RunE: func(*cobra.Command, []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		result, err := build.Site(cwd, build.Options{
			IncludeDrafts: buildDrafts,
			RootURL:       buildRootURL,
			OutputDir:     buildOutput,
			CleanOutput:   true,
		})
		if err != nil {
			return err
		}
		log.Feedback("Built %d pages into %s", result.Pages.Len(), result.OutputDir)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "include draft pages")
	buildCmd.Flags().StringVar(&buildRootURL, "root-url", "", "absolute base URL for links and feeds")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "output directory (default from config)")
	rootCmd.AddCommand(buildCmd)
}
