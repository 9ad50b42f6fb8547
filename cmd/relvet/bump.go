package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/git"
	"github.com/relvet/relvet/pkg/presenter"
	"github.com/relvet/relvet/pkg/release"
	"github.com/relvet/relvet/pkg/versioning"
	"github.com/spf13/cobra"
)

type BumpConfig struct {
	Type          string
	Manual        string
	DryRun        bool
	Strict        bool
	VersionFile   string
	ChangelogFile string
}

func NewBumpConfig() *BumpConfig {
	return &BumpConfig{
		Type:          "auto",
		Manual:        "",
		DryRun:        false,
		Strict:        false,
		VersionFile:   "VERSION",
		ChangelogFile: "CHANGELOG.md",
	}
}

var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Infer and apply the next semantic version",
	Long: `Analyze the commits since the last release tag, infer the next semantic
version from their conventional commit types, and update the VERSION file
and CHANGELOG.md.

Only the resulting version is printed to stdout, so CI can capture it:

  next=$(relvet bump --dry-run)

Breaking changes bump major, feat bumps minor, fix/perf/refactor bump
patch; everything else leaves the version unchanged.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getBumpConfigFromFlags(cmd)

		// Human chatter goes to stderr; stdout carries the version only.
		out := presenter.NewStderr()
		out.SetQuiet(presenter.IsQuiet())

		result, err := runBump(cmd, config, out)
		if err != nil {
			out.Error(err, "Failed to bump version")
			os.Exit(1)
		}

		fmt.Println(result.Next)
	},
}

func init() {
	defaults := NewBumpConfig()
	bumpCmd.Flags().StringP("type", "t", defaults.Type, "Bump type (auto, major, minor, patch)")
	bumpCmd.Flags().StringP("manual", "m", defaults.Manual, "Set the version explicitly (e.g. 2.1.0)")
	bumpCmd.Flags().Bool("dry-run", defaults.DryRun, "Compute the next version without writing files")
	bumpCmd.Flags().Bool("strict", defaults.Strict, "Abort when a pending commit message cannot be parsed")
	bumpCmd.Flags().String("version-file", defaults.VersionFile, "Path to the VERSION file")
	bumpCmd.Flags().String("changelog-file", defaults.ChangelogFile, "Path to the CHANGELOG.md file")
	rootCmd.AddCommand(bumpCmd)
}

func getBumpConfigFromFlags(cmd *cobra.Command) *BumpConfig {
	config := NewBumpConfig()

	if bumpType, err := cmd.Flags().GetString("type"); err == nil {
		config.Type = bumpType
	}
	if manual, err := cmd.Flags().GetString("manual"); err == nil {
		config.Manual = manual
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		config.Strict = strict
	}
	if versionFile, err := cmd.Flags().GetString("version-file"); err == nil {
		config.VersionFile = versionFile
	}
	if changelogFile, err := cmd.Flags().GetString("changelog-file"); err == nil {
		config.ChangelogFile = changelogFile
	}

	return config
}

func runBump(cmd *cobra.Command, config *BumpConfig, out presenter.Presenter) (release.Result, error) {
	ctx := cmd.Context()

	if config.Manual != "" {
		return runManualBump(config, out)
	}

	if !git.IsRepository(ctx) {
		return release.Result{}, errors.New("not a git repository")
	}

	opts, err := bumperOptions(config)
	if err != nil {
		return release.Result{}, err
	}
	bumper := release.NewBumper(opts...)

	result, err := bumper.Plan(ctx)
	if err != nil {
		return release.Result{}, err
	}

	out.Info(fmt.Sprintf("Current version: %s", result.Previous))
	out.Info(fmt.Sprintf("Analyzed %d commit(s), detected bump type: %s", len(result.Commits), result.Bump))
	for _, skipped := range result.Skipped {
		out.Warning(fmt.Sprintf("Skipped non-conventional commit: %s", skipped))
	}

	if !result.Changed() {
		out.Info(fmt.Sprintf("No version change needed (staying at %s)", result.Previous))
		return result, nil
	}

	if config.DryRun {
		out.Info(fmt.Sprintf("Dry run: %s -> %s, no changes made", result.Previous, result.Next))
		return result, nil
	}

	if err := bumper.Apply(ctx, result); err != nil {
		return release.Result{}, err
	}

	out.Success(fmt.Sprintf("Version bumped: %s -> %s", result.Previous, result.Next))
	return result, nil
}

// runManualBump writes an operator-supplied version, bypassing inference.
func runManualBump(config *BumpConfig, out presenter.Presenter) (release.Result, error) {
	next, err := versioning.Parse(config.Manual)
	if err != nil {
		return release.Result{}, errors.WithMessage(err, "invalid manual version")
	}

	previous, err := release.ReadVersionFile(config.VersionFile)
	if err != nil {
		return release.Result{}, err
	}

	result := release.Result{Previous: previous, Next: next}

	if config.DryRun {
		out.Info(fmt.Sprintf("Dry run: %s -> %s, no changes made", previous, next))
		return result, nil
	}

	if err := release.WriteVersionFile(config.VersionFile, next); err != nil {
		return release.Result{}, err
	}

	out.Success(fmt.Sprintf("Version set manually: %s -> %s", previous, next))
	return result, nil
}

// bumperOptions translates CLI flags into release.Bumper options.
func bumperOptions(config *BumpConfig) ([]release.Option, error) {
	opts := []release.Option{
		release.WithVersionFile(config.VersionFile),
		release.WithChangelogFile(config.ChangelogFile),
	}

	if config.Strict {
		opts = append(opts, release.WithStrict())
	}

	if config.Type != "" && config.Type != "auto" {
		bump, err := versioning.ParseBump(config.Type)
		if err != nil {
			return nil, err
		}
		opts = append(opts, release.WithForcedBump(bump))
	}

	return opts, nil
}
