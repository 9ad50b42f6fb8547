package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Discovery finds skills in configured directories. Directory order is
// precedence order; builtins always come last.
type Discovery struct {
	skillDirs       []string
	includeBuiltins bool
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithBuiltins includes the embedded builtin skills at lowest precedence
func WithBuiltins() Option {
	return func(d *Discovery) error {
		d.includeBuiltins = true
		return nil
	}
}

// WithDefaultDirs initializes the default search path: the repository
// skills directory, the repo-local relvet directory, and the user-global
// relvet directory, plus builtins.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./skills",          // Repository content (highest precedence)
			"./.relvet/skills",  // Repo-local overrides
			filepath.Join(homeDir, ".relvet", "skills"), // User-global
		}
		d.includeBuiltins = true
		return nil
	}
}

// NewDiscovery creates a skill discovery instance. With no options the
// default directories and builtins are used.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// DiscoverSkills finds all available skills. Earlier directories shadow
// later ones by skill name; builtins fill in last.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, dir := range d.skillDirs {
		d.discoverSkillsFromDir(dir, skills)
	}

	if d.includeBuiltins {
		builtins, err := BuiltinSkills()
		if err != nil {
			return nil, err
		}
		for name, skill := range builtins {
			if _, exists := skills[name]; !exists {
				skills[name] = skill
			}
		}
	}

	return skills, nil
}

func (d *Discovery) discoverSkillsFromDir(dir string, skills map[string]*Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// Stat rather than entry.IsDir so symlinked skill dirs work.
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		content, err := os.ReadFile(filepath.Join(entryPath, skillFileName))
		if err != nil {
			continue
		}

		skill, err := parseSkill(content)
		if err != nil {
			continue
		}

		if _, exists := skills[skill.Name]; !exists {
			skill.Directory = entryPath
			skills[skill.Name] = skill
		}
	}
}

// GetSkill returns a specific skill by name.
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns the sorted names of all available skills.
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// parseSkill parses SKILL.md content: goldmark-meta for the frontmatter,
// required name and description, body without the frontmatter block.
func parseSkill(content []byte) (*Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	var tags []string
	if rawTags, ok := metaData["tags"].([]any); ok {
		for _, raw := range rawTags {
			if tag, ok := raw.(string); ok {
				tags = append(tags, tag)
			}
		}
	}

	return &Skill{
		Name:        name,
		Description: description,
		Tags:        tags,
		Content:     extractBody(string(content)),
	}, nil
}

// extractBody removes the YAML frontmatter block and returns the body.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// FilterByAllowlist filters skills by an allowlist of names.
// An empty allowlist returns all skills.
func FilterByAllowlist(skills map[string]*Skill, allowed []string) map[string]*Skill {
	if len(allowed) == 0 {
		return skills
	}

	filtered := make(map[string]*Skill)
	for _, name := range allowed {
		if skill, exists := skills[name]; exists {
			filtered[name] = skill
		}
	}
	return filtered
}
