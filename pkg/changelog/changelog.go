// Package changelog renders release entries from classified commits and
// inserts them into a keep-a-changelog style CHANGELOG.md.
package changelog

import (
	"bytes"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/conventional"
	"github.com/relvet/relvet/pkg/versioning"
)

// An entry is inserted after the first separator line, which must appear
// within this many lines of the top of the file.
const headerSearchLimit = 20

// Entry is one rendered changelog section for a release.
type Entry struct {
	Version  versioning.Version
	Date     string
	Breaking []string
	Added    []string
	Fixed    []string
	Changed  []string
	Other    []string
}

var entryTemplate = template.Must(template.New("entry").Parse(`## [{{.Version}}] - {{.Date}}
{{- if .Breaking}}

### Breaking
{{- range .Breaking}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Added}}

### Added
{{- range .Added}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Fixed}}

### Fixed
{{- range .Fixed}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Changed}}

### Changed
{{- range .Changed}}
- {{.}}
{{- end}}
{{- end}}
{{- if .Other}}

### Other
{{- range .Other}}
- {{.}}
{{- end}}
{{- end}}
`))

// NewEntry groups commits into changelog sections for the given version.
// Breaking commits appear only in the Breaking section; the remaining
// commits group by type (feat, fix, perf/refactor, everything else).
func NewEntry(version versioning.Version, commits []conventional.Commit, date time.Time) Entry {
	entry := Entry{
		Version: version,
		Date:    date.Format("2006-01-02"),
	}

	for _, c := range commits {
		line := c.Subject
		if c.Scope != "" {
			line = c.Scope + ": " + c.Subject
		}

		switch {
		case c.Breaking:
			entry.Breaking = append(entry.Breaking, line)
		case c.Type == conventional.TypeFeat:
			entry.Added = append(entry.Added, line)
		case c.Type == conventional.TypeFix:
			entry.Fixed = append(entry.Fixed, line)
		case c.Type == conventional.TypePerf, c.Type == conventional.TypeRefactor:
			entry.Changed = append(entry.Changed, line)
		default:
			entry.Other = append(entry.Other, line)
		}
	}

	return entry
}

// Render produces the markdown section for the entry.
func (e Entry) Render() (string, error) {
	var buf bytes.Buffer
	if err := entryTemplate.Execute(&buf, e); err != nil {
		return "", errors.Wrap(err, "failed to render changelog entry")
	}
	return buf.String(), nil
}

// Update inserts the entry into the changelog file after the first "---"
// separator near the top. A missing file is a no-op; an entry for a version
// already present is a no-op. Both mirror the release workflow: the
// changelog is optional and re-runs must be idempotent.
func Update(path string, entry Entry) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to read changelog")
	}

	marker := "## [" + entry.Version.String() + "]"
	if strings.Contains(string(content), marker) {
		return false, nil
	}

	rendered, err := entry.Render()
	if err != nil {
		return false, err
	}

	lines := strings.Split(string(content), "\n")
	insertAt := -1
	for i, line := range lines {
		if i >= headerSearchLimit {
			break
		}
		if strings.TrimSpace(line) == "---" {
			insertAt = i + 2
			break
		}
	}

	if insertAt == -1 || insertAt > len(lines) {
		return false, errors.Errorf("no insertion point found in %s", path)
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:insertAt]...)
	updated = append(updated, rendered)
	updated = append(updated, lines[insertAt:]...)

	if err := os.WriteFile(path, []byte(strings.Join(updated, "\n")), 0o644); err != nil {
		return false, errors.Wrap(err, "failed to write changelog")
	}

	return true, nil
}
