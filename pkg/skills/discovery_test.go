package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, dirName, content string) string {
	t.Helper()
	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
	return dir
}

func TestNewDiscovery(t *testing.T) {
	t.Run("with custom dirs", func(t *testing.T) {
		customDirs := []string{"/tmp/skills1", "/tmp/skills2"}
		discovery, err := NewDiscovery(WithSkillDirs(customDirs...))
		require.NoError(t, err)
		assert.Equal(t, customDirs, discovery.skillDirs)
		assert.False(t, discovery.includeBuiltins)
	})

	t.Run("default dirs include builtins", func(t *testing.T) {
		discovery, err := NewDiscovery()
		require.NoError(t, err)
		assert.Len(t, discovery.skillDirs, 3)
		assert.True(t, discovery.includeBuiltins)
	})
}

func TestDiscoverSkills(t *testing.T) {
	tmpDir := t.TempDir()

	releaseDir := writeSkill(t, tmpDir, "release-notes", `---
name: release-notes
description: Draft release notes from the pending changelog entry
tags:
  - github
---

# Release Notes

## Instructions
Summarize the pending entry.
`)
	writeSkill(t, tmpDir, "rebase-flow", `---
name: rebase-flow
description: Rebase a feature branch safely
---

# Rebase Flow

Some content here.
`)

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Len(t, skills, 2)

	releaseSkill, exists := skills["release-notes"]
	require.True(t, exists)
	assert.Equal(t, "release-notes", releaseSkill.Name)
	assert.Equal(t, "Draft release notes from the pending changelog entry", releaseSkill.Description)
	assert.Equal(t, []string{"github"}, releaseSkill.Tags)
	assert.Equal(t, releaseDir, releaseSkill.Directory)
	assert.False(t, releaseSkill.Builtin)
	assert.Contains(t, releaseSkill.Content, "# Release Notes")
	assert.NotContains(t, releaseSkill.Content, "name: release-notes")
}

func TestDiscoveryPrecedence(t *testing.T) {
	tmpDir1 := t.TempDir()
	tmpDir2 := t.TempDir()

	writeSkill(t, tmpDir1, "shared-skill", `---
name: shared-skill
description: From first directory
---

First directory content.
`)
	writeSkill(t, tmpDir2, "shared-skill", `---
name: shared-skill
description: From second directory
---

Second directory content.
`)

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir1, tmpDir2))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Len(t, skills, 1)

	skill := skills["shared-skill"]
	assert.Equal(t, "From first directory", skill.Description)
}

func TestBuiltinSkills(t *testing.T) {
	builtins, err := BuiltinSkills()
	require.NoError(t, err)

	for _, name := range []string{"pr-creation", "conventional-commit", "mermaid-diagrams"} {
		skill, exists := builtins[name]
		require.True(t, exists, "missing builtin %s", name)
		assert.True(t, skill.Builtin)
		assert.NotEmpty(t, skill.Description)
		assert.NotEmpty(t, skill.Content)
		assert.Empty(t, skill.Directory)
	}
}

func TestLocalSkillShadowsBuiltin(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "pr-creation", `---
name: pr-creation
description: Team-specific pull request process
---

Use the internal template.
`)

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir), WithBuiltins())
	require.NoError(t, err)

	skill, err := discovery.GetSkill("pr-creation")
	require.NoError(t, err)
	assert.Equal(t, "Team-specific pull request process", skill.Description)
	assert.False(t, skill.Builtin)
}

func TestSkillValidation(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing name", func(t *testing.T) {
		writeSkill(t, tmpDir, "no-name", `---
description: Missing name field
---

Content here.
`)
		discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
		require.NoError(t, err)

		skills, err := discovery.DiscoverSkills()
		require.NoError(t, err)
		assert.NotContains(t, skills, "no-name")
	})

	t.Run("missing description", func(t *testing.T) {
		writeSkill(t, tmpDir, "no-desc", `---
name: no-desc
---

Content here.
`)
		discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
		require.NoError(t, err)

		skills, err := discovery.DiscoverSkills()
		require.NoError(t, err)
		assert.NotContains(t, skills, "no-desc")
	})

	t.Run("no frontmatter", func(t *testing.T) {
		writeSkill(t, tmpDir, "no-frontmatter", `# Just content
No frontmatter here.
`)
		discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
		require.NoError(t, err)

		skills, err := discovery.DiscoverSkills()
		require.NoError(t, err)
		assert.NotContains(t, skills, "no-frontmatter")
	})
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "with frontmatter",
			input: `---
name: test
description: desc
---

# Content

Body text.`,
			expected: `# Content

Body text.`,
		},
		{
			name:     "no frontmatter",
			input:    "# Just content\nNo frontmatter.",
			expected: "# Just content\nNo frontmatter.",
		},
		{
			name: "incomplete frontmatter",
			input: `---
name: test
# No closing ---`,
			expected: `---
name: test
# No closing ---`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractBody(tt.input))
		})
	}
}

func TestGetSkill(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "test-skill", `---
name: test-skill
description: A test skill
---

Test content.
`)

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	t.Run("existing skill", func(t *testing.T) {
		skill, err := discovery.GetSkill("test-skill")
		require.NoError(t, err)
		assert.Equal(t, "test-skill", skill.Name)
	})

	t.Run("non-existent skill", func(t *testing.T) {
		skill, err := discovery.GetSkill("unknown")
		assert.Error(t, err)
		assert.Nil(t, skill)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestListSkillNamesSorted(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"gamma", "alpha", "beta"} {
		writeSkill(t, tmpDir, name, `---
name: `+name+`
description: Skill `+name+`
---

Content for `+name+`.
`)
	}

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	names, err := discovery.ListSkillNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestFilterByAllowlist(t *testing.T) {
	skills := map[string]*Skill{
		"skill-a": {Name: "skill-a", Description: "A"},
		"skill-b": {Name: "skill-b", Description: "B"},
		"skill-c": {Name: "skill-c", Description: "C"},
	}

	t.Run("empty allowlist returns all", func(t *testing.T) {
		result := FilterByAllowlist(skills, nil)
		assert.Len(t, result, 3)
	})

	t.Run("allowlist filters skills", func(t *testing.T) {
		result := FilterByAllowlist(skills, []string{"skill-a", "skill-c"})
		assert.Len(t, result, 2)
		assert.Contains(t, result, "skill-a")
		assert.NotContains(t, result, "skill-b")
	})

	t.Run("allowlist with unknown skill", func(t *testing.T) {
		result := FilterByAllowlist(skills, []string{"skill-a", "unknown"})
		assert.Len(t, result, 1)
	})
}

func TestNonExistentDirectory(t *testing.T) {
	discovery, err := NewDiscovery(WithSkillDirs("/non/existent/path"))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Empty(t, skills)
}
