package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/presenter"
	"github.com/relvet/relvet/pkg/skills"
	"github.com/spf13/cobra"
)

type SkillAddConfig struct {
	Global bool
	Dir    string
}

func NewSkillAddConfig() *SkillAddConfig {
	return &SkillAddConfig{
		Global: false,
		Dir:    "",
	}
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage git-workflow skills",
	Long:  `List, show, lint, add, and remove git-workflow skill documents.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available skills",
	Long:  `List all available skills with their names, sources, and descriptions.`,
	Run: func(_ *cobra.Command, _ []string) {
		listSkillsCmd()
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Render a skill document",
	Long:  `Render the body of a skill document to the terminal.`,
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		showSkillCmd(args[0])
	},
}

var skillLintCmd = &cobra.Command{
	Use:   "lint <dir>",
	Short: "Validate a skill directory",
	Long: `Validate a skill directory for authors: frontmatter must decode strictly,
the name must be kebab-case and match the directory, and the body must not
be empty. All findings are reported at once.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		lintSkillCmd(args[0])
	},
}

var skillAddCmd = &cobra.Command{
	Use:   "add <repo>",
	Short: "Add skills from a GitHub repository",
	Long: `Add skills from a GitHub repository. The repository should contain
directories with SKILL.md files. You can specify:

  - A repo: orgname/skills (adds all skills)
  - A repo with specific skill: orgname/skills --dir skills/specific-skill
  - A repo with version: orgname/skills@v0.1.0 (adds from specific tag/branch/sha)

Examples:
  relvet skill add orgname/skills
  relvet skill add orgname/skills --dir skills/specific-skill
  relvet skill add orgname/skills@main
  relvet skill add orgname/skills -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSkillAddConfigFromFlags(cmd)
		addSkillCmd(args[0], config)
	},
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove <skill-name>",
	Short: "Remove an installed skill",
	Long: `Remove an installed skill by name.

Examples:
  relvet skill remove specific-skill
  relvet skill remove specific-skill -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		global, _ := cmd.Flags().GetBool("global")
		removeSkillCmd(args[0], global)
	},
}

func init() {
	addDefaults := NewSkillAddConfig()
	skillAddCmd.Flags().BoolP("global", "g", addDefaults.Global, "Install to global ~/.relvet/skills directory instead of local ./.relvet/skills")
	skillAddCmd.Flags().StringP("dir", "d", addDefaults.Dir, "Path to a specific skill directory within the repository")

	skillRemoveCmd.Flags().BoolP("global", "g", false, "Remove from global ~/.relvet/skills directory instead of local ./.relvet/skills")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	skillCmd.AddCommand(skillLintCmd)
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillRemoveCmd)
	rootCmd.AddCommand(skillCmd)
}

func getSkillAddConfigFromFlags(cmd *cobra.Command) *SkillAddConfig {
	config := NewSkillAddConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	return config
}

func getSkillsDir(global bool) (string, error) {
	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get user home directory")
		}
		return filepath.Join(homeDir, ".relvet", "skills"), nil
	}
	return ".relvet/skills", nil
}

func listSkillsCmd() {
	discovery, err := skills.NewDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	allSkills, err := discovery.DiscoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	names, err := discovery.ListSkillNames()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSOURCE\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t------\t-----------")

	for _, name := range names {
		skill := allSkills[name]

		source := skill.Directory
		if skill.Builtin {
			source = "(builtin)"
		}

		description := skill.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, source, description)
	}
	tw.Flush()
}

func showSkillCmd(name string) {
	discovery, err := skills.NewDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	skill, err := discovery.GetSkill(name)
	if err != nil {
		presenter.Error(err, "Skill not found")
		os.Exit(1)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to the raw markdown when the terminal renderer
		// cannot be constructed.
		fmt.Println(skill.Content)
		return
	}

	rendered, err := renderer.Render(skill.Content)
	if err != nil {
		fmt.Println(skill.Content)
		return
	}

	fmt.Print(rendered)
}

func lintSkillCmd(dir string) {
	if err := skills.Lint(dir); err != nil {
		presenter.Error(err, fmt.Sprintf("Skill %s failed validation", dir))
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Skill %s is valid", dir))
}

func addSkillCmd(repo string, config *SkillAddConfig) {
	if !isGhCliInstalled() {
		presenter.Error(errors.New("gh CLI is not installed"), "Please install the GitHub CLI (gh) to use this command")
		os.Exit(1)
	}

	repoName, ref := parseRepoAndRef(repo)

	tmpDir, err := os.MkdirTemp("", "relvet-skill-*")
	if err != nil {
		presenter.Error(err, "Failed to create temporary directory")
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	cloneArgs := []string{"repo", "clone", repoName, tmpDir}
	if ref != "" {
		cloneArgs = append(cloneArgs, "--", "--branch", ref, "--single-branch")
	}

	cmd := exec.Command("gh", cloneArgs...)
	if output, err := cmd.CombinedOutput(); err != nil {
		presenter.Error(errors.Wrapf(err, "output: %s", string(output)), "Failed to clone repository")
		os.Exit(1)
	}

	skillsDir, err := getSkillsDir(config.Global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	if err := os.MkdirAll(skillsDir, 0o755); err != nil {
		presenter.Error(err, "Failed to create skills directory")
		os.Exit(1)
	}

	var skillDirs []string
	if config.Dir != "" {
		targetPath := filepath.Join(tmpDir, config.Dir)
		if _, err := os.Stat(filepath.Join(targetPath, "SKILL.md")); os.IsNotExist(err) {
			presenter.Error(errors.Errorf("no SKILL.md found at %s", config.Dir), "Invalid skill path")
			os.Exit(1)
		}
		skillDirs = []string{targetPath}
	} else {
		skillDirs, err = findSkillDirs(tmpDir)
		if err != nil {
			presenter.Error(err, "Failed to find skills in repository")
			os.Exit(1)
		}
	}

	if len(skillDirs) == 0 {
		presenter.Warning("No skills found in the repository")
		return
	}

	installed := 0
	for _, dir := range skillDirs {
		skillName := filepath.Base(dir)
		destDir := filepath.Join(skillsDir, skillName)

		if _, err := os.Stat(destDir); err == nil {
			presenter.Warning(fmt.Sprintf("Skill '%s' already exists, skipping", skillName))
			continue
		}

		if err := copyDir(dir, destDir); err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to install skill '%s'", skillName))
			continue
		}

		installed++
		presenter.Success(fmt.Sprintf("Installed skill '%s' to %s", skillName, destDir))
	}

	if installed > 0 {
		presenter.Info(fmt.Sprintf("Successfully installed %d skill(s)", installed))
	}
}

func removeSkillCmd(name string, global bool) {
	skillsDir, err := getSkillsDir(global)
	if err != nil {
		presenter.Error(err, "Failed to determine skills directory")
		os.Exit(1)
	}

	skillDir := filepath.Join(skillsDir, name)

	if _, err := os.Stat(filepath.Join(skillDir, "SKILL.md")); os.IsNotExist(err) {
		location := "local"
		if global {
			location = "global"
		}
		presenter.Error(errors.Errorf("skill '%s' not found in %s skills directory", name, location), "Skill not found")
		os.Exit(1)
	}

	if err := os.RemoveAll(skillDir); err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to remove skill '%s'", name))
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Removed skill '%s' from %s", name, skillDir))
}

func isGhCliInstalled() bool {
	_, err := exec.LookPath("gh")
	return err == nil
}

func parseRepoAndRef(repo string) (string, string) {
	if idx := strings.LastIndex(repo, "@"); idx != -1 {
		return repo[:idx], repo[idx+1:]
	}
	return repo, ""
}

func findSkillDirs(root string) ([]string, error) {
	var skillDirs []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && (info.Name() == ".git" || info.Name() == "node_modules") {
			return filepath.SkipDir
		}

		if !info.IsDir() && info.Name() == "SKILL.md" {
			skillDirs = append(skillDirs, filepath.Dir(path))
		}

		return nil
	})

	return skillDirs, err
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode())
		}

		return copyFile(path, destPath)
	})
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
