// Package skills manages the git-workflow skill library: Markdown documents
// with YAML frontmatter that describe how to perform a workflow task
// (opening pull requests, writing conventional commits, formatting
// diagrams). Skills live in directories containing a SKILL.md file and are
// discovered from the repository, the local and global relvet directories,
// and a builtin embedded set.
package skills

// Skill is a discovered skill document with its metadata.
type Skill struct {
	Name        string   // Unique name from frontmatter
	Description string   // One-line summary from frontmatter
	Tags        []string // Optional frontmatter tags
	Directory   string   // Skill directory path; empty for builtins
	Content     string   // SKILL.md body without the frontmatter
	Builtin     bool     // True for skills shipped inside the binary
}

// Metadata is the YAML frontmatter of a SKILL.md file. Name and
// Description are required; everything else is optional.
type Metadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}
