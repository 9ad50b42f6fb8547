package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/changelog"
	"github.com/relvet/relvet/pkg/git"
	"github.com/relvet/relvet/pkg/presenter"
	"github.com/relvet/relvet/pkg/release"
	"github.com/spf13/cobra"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Preview the unreleased changelog entry",
	Long: `Render the changelog entry that the pending commits would produce,
without modifying any file. The entry is printed to stdout.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		out := presenter.NewStderr()
		out.SetQuiet(presenter.IsQuiet())

		versionFile, _ := cmd.Flags().GetString("version-file")

		if !git.IsRepository(ctx) {
			out.Error(errors.New("not a git repository"), "Please run this command from a git repository")
			os.Exit(1)
		}

		bumper := release.NewBumper(release.WithVersionFile(versionFile))
		result, err := bumper.Plan(ctx)
		if err != nil {
			out.Error(err, "Failed to analyze pending commits")
			os.Exit(1)
		}

		if !result.Changed() {
			out.Info("No release-worthy commits since the last tag")
			return
		}

		entry := changelog.NewEntry(result.Next, result.Commits, time.Now())
		rendered, err := entry.Render()
		if err != nil {
			out.Error(err, "Failed to render changelog entry")
			os.Exit(1)
		}

		fmt.Print(rendered)
	},
}

func init() {
	changelogCmd.Flags().String("version-file", "VERSION", "Path to the VERSION file")
	rootCmd.AddCommand(changelogCmd)
}
