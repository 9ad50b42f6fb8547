package skills

import (
	"embed"
	"io/fs"

	"github.com/pkg/errors"
)

// Builtin skill documents shipped inside the binary. They mirror the
// skills directory layout with one markdown file per skill.
//
//go:embed builtin/*.md
var builtinFS embed.FS

// BuiltinSkills parses the embedded skill documents.
func BuiltinSkills() (map[string]*Skill, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read builtin skills")
	}

	skills := make(map[string]*Skill, len(entries))
	for _, entry := range entries {
		content, err := fs.ReadFile(builtinFS, "builtin/"+entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read builtin skill %s", entry.Name())
		}

		skill, err := parseSkill(content)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid builtin skill %s", entry.Name())
		}

		skill.Builtin = true
		skills[skill.Name] = skill
	}

	return skills, nil
}
