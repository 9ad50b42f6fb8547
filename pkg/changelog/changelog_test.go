package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/relvet/relvet/pkg/conventional"
	"github.com/relvet/relvet/pkg/versioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCommits(t *testing.T, messages ...string) []conventional.Commit {
	t.Helper()

	var commits []conventional.Commit
	for _, m := range messages {
		c, err := conventional.ParseMessage(m)
		require.NoError(t, err)
		commits = append(commits, c)
	}
	return commits
}

func testDate() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestNewEntryGrouping(t *testing.T) {
	commits := parseCommits(t,
		"feat(ui): add dark mode",
		"fix: resolve timeout",
		"perf: faster parse",
		"refactor(core): split package",
		"docs: update readme",
		"feat!: drop legacy config",
	)

	entry := NewEntry(versioning.Version{Major: 2, Minor: 0, Patch: 0}, commits, testDate())

	assert.Equal(t, "2025-06-15", entry.Date)
	assert.Equal(t, []string{"drop legacy config"}, entry.Breaking)
	assert.Equal(t, []string{"ui: add dark mode"}, entry.Added)
	assert.Equal(t, []string{"resolve timeout"}, entry.Fixed)
	assert.Equal(t, []string{"faster parse", "core: split package"}, entry.Changed)
	assert.Equal(t, []string{"update readme"}, entry.Other)
}

func TestRender(t *testing.T) {
	entry := Entry{
		Version: versioning.Version{Major: 1, Minor: 3, Patch: 0},
		Date:    "2025-06-15",
		Added:   []string{"add dark mode"},
		Fixed:   []string{"resolve timeout"},
	}

	out, err := entry.Render()
	require.NoError(t, err)

	assert.Contains(t, out, "## [1.3.0] - 2025-06-15")
	assert.Contains(t, out, "### Added\n- add dark mode")
	assert.Contains(t, out, "### Fixed\n- resolve timeout")
	assert.NotContains(t, out, "### Breaking")
	assert.NotContains(t, out, "### Changed")
}

const changelogFixture = `# Changelog

All notable changes to this project.

---

## [1.2.3] - 2025-01-01

### Fixed
- old fix
`

func TestUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(changelogFixture), 0o644))

	entry := NewEntry(
		versioning.Version{Major: 1, Minor: 3, Patch: 0},
		parseCommits(t, "feat: add dark mode"),
		testDate(),
	)

	updated, err := Update(path, entry)
	require.NoError(t, err)
	assert.True(t, updated)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "## [1.3.0] - 2025-06-15")
	assert.Contains(t, text, "## [1.2.3] - 2025-01-01")
	assert.Less(t,
		strings.Index(text, "## [1.3.0]"),
		strings.Index(text, "## [1.2.3]"),
		"new entry should be inserted above the previous release")
}

func TestUpdateIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte(changelogFixture), 0o644))

	entry := NewEntry(
		versioning.Version{Major: 1, Minor: 2, Patch: 3},
		parseCommits(t, "fix: already released"),
		testDate(),
	)

	updated, err := Update(path, entry)
	require.NoError(t, err)
	assert.False(t, updated, "existing version entry should be left alone")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, changelogFixture, string(content))
}

func TestUpdateMissingFile(t *testing.T) {
	entry := Entry{Version: versioning.Version{Major: 1}}

	updated, err := Update(filepath.Join(t.TempDir(), "CHANGELOG.md"), entry)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestUpdateNoSeparator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(path, []byte("# Changelog\n\nno separator here\n"), 0o644))

	_, err := Update(path, Entry{Version: versioning.Version{Major: 1}, Date: "2025-06-15"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no insertion point")
}
