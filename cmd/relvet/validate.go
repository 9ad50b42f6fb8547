package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/conventional"
	"github.com/relvet/relvet/pkg/git"
	"github.com/relvet/relvet/pkg/presenter"
	"github.com/spf13/cobra"
)

type ValidateConfig struct {
	Message string
	Base    string
}

func NewValidateConfig() *ValidateConfig {
	base := os.Getenv("GITHUB_BASE_REF")
	if base == "" {
		base = "main"
	}
	return &ValidateConfig{
		Message: "",
		Base:    base,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate commit messages against the Conventional Commits standard",
	Long: `Validate that commits follow the Conventional Commits standard.

By default every commit between the merge base with origin/<base> and HEAD
is checked, which covers the commits of a pull request. With --message a
single message (such as a PR title) is validated instead.

Merge commits and the automated release commit are always accepted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getValidateConfigFromFlags(cmd)

		var ok bool
		if config.Message != "" {
			ok = validateSingleMessage(config.Message)
		} else {
			ok = validateRange(cmd.Context(), config.Base)
		}

		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().StringP("message", "m", defaults.Message, "Validate a single message (e.g. a PR title) instead of the git log")
	validateCmd.Flags().StringP("base", "b", defaults.Base, "Base branch for the commit range (defaults to GITHUB_BASE_REF or main)")
	rootCmd.AddCommand(validateCmd)
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()

	if message, err := cmd.Flags().GetString("message"); err == nil {
		config.Message = message
	}
	if base, err := cmd.Flags().GetString("base"); err == nil && base != "" {
		config.Base = base
	}

	return config
}

func validateSingleMessage(message string) bool {
	presenter.Info(fmt.Sprintf("Validating message: %q", message))

	if err := conventional.ValidateMessage(message); err != nil {
		presenter.Error(err, "Invalid message format")
		printConventionalHelp()
		return false
	}

	presenter.Success("Message is valid")
	return true
}

func validateRange(ctx context.Context, base string) bool {
	if !git.IsRepository(ctx) {
		presenter.Error(errors.New("not a git repository"), "Please run this command from a git repository")
		return false
	}

	mergeBase, err := git.MergeBase(ctx, base)
	if err != nil {
		presenter.Error(err, "Could not determine commit range")
		return false
	}

	entries, err := git.Records(ctx, mergeBase+"..HEAD")
	if err != nil {
		presenter.Error(err, "Could not read commits")
		return false
	}

	if len(entries) == 0 {
		presenter.Info("No commits to validate")
		return true
	}

	presenter.Info(fmt.Sprintf("Validating %d commit(s)...", len(entries)))

	invalid := 0
	for _, entry := range entries {
		if err := conventional.ValidateMessage(entry.Subject); err != nil {
			presenter.Warning(fmt.Sprintf("✗ %s: %s", entry.SHA, truncate(entry.Subject, 60)))
			invalid++
			continue
		}
		presenter.Info(fmt.Sprintf("✓ %s: %s", entry.SHA, truncate(entry.Subject, 60)))
	}

	if invalid > 0 {
		presenter.Error(errors.Errorf("%d invalid commit message(s)", invalid), "Validation failed")
		printConventionalHelp()
		return false
	}

	presenter.Success("All commits follow the Conventional Commits standard")
	return true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func printConventionalHelp() {
	presenter.Section("Conventional Commits format")
	presenter.Info(`  feat: add new feature
  fix: resolve bug
  docs: update documentation
  chore: maintenance tasks
  refactor: code restructuring
  test: add or update tests
  style: formatting changes
  perf: performance improvements

With optional scope:
  feat(dashboard): add dark mode
  fix(api): resolve timeout issue

Breaking changes:
  feat!: breaking API change
  fix(core)!: breaking fix

For more info: https://www.conventionalcommits.org/`)
}
