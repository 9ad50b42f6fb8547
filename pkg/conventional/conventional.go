// Package conventional parses Conventional Commits headers and classifies
// sets of commits into release bump kinds. The commit type set is closed:
// a header that matches the grammar but names an unknown type is an error,
// never a silent no-op.
package conventional

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedHeader indicates a header that does not match
	// "type(scope)?!?: subject".
	ErrMalformedHeader = errors.New("malformed commit header")
	// ErrInvalidType indicates a header whose type token is outside the
	// enumerated commit type set.
	ErrInvalidType = errors.New("invalid commit type")
)

// CommitType is the closed set of Conventional Commits types.
type CommitType int

const (
	// TypeFeat introduces new functionality.
	TypeFeat CommitType = iota
	// TypeFix resolves a bug.
	TypeFix
	// TypeDocs changes documentation only.
	TypeDocs
	// TypeStyle changes formatting without behavior changes.
	TypeStyle
	// TypeRefactor restructures code without changing behavior.
	TypeRefactor
	// TypePerf improves performance.
	TypePerf
	// TypeTest adds or updates tests.
	TypeTest
	// TypeChore covers maintenance tasks.
	TypeChore
	// TypeBuild changes the build system or dependencies.
	TypeBuild
	// TypeCI changes CI configuration.
	TypeCI
	// TypeRevert reverts a previous commit.
	TypeRevert
)

var typeNames = map[CommitType]string{
	TypeFeat:     "feat",
	TypeFix:      "fix",
	TypeDocs:     "docs",
	TypeStyle:    "style",
	TypeRefactor: "refactor",
	TypePerf:     "perf",
	TypeTest:     "test",
	TypeChore:    "chore",
	TypeBuild:    "build",
	TypeCI:       "ci",
	TypeRevert:   "revert",
}

var typesByName = func() map[string]CommitType {
	m := make(map[string]CommitType, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

func (t CommitType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseCommitType resolves a type token against the closed set.
// Matching is case-insensitive, following the original validator.
func ParseCommitType(s string) (CommitType, error) {
	t, ok := typesByName[strings.ToLower(s)]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidType, "%q", s)
	}
	return t, nil
}

// Commit is one parsed conventional commit record. Scope and Subject are
// inert for version inference; Breaking dominates everything.
type Commit struct {
	Type     CommitType
	Scope    string
	Subject  string
	Breaking bool
	Raw      string
}

// Header grammar: type token, optional (scope), optional "!", then ": subject".
// The type token is matched loosely so an unknown type can be reported as
// ErrInvalidType rather than folded into ErrMalformedHeader.
var headerRe = regexp.MustCompile(`^([A-Za-z]+)(\(([A-Za-z0-9\-_]+)\))?(!)?:\s+(.+)$`)

const breakingFooter = "BREAKING CHANGE:"

// ParseHeader parses a single commit header line.
func ParseHeader(header string) (Commit, error) {
	m := headerRe.FindStringSubmatch(header)
	if m == nil {
		return Commit{}, errors.Wrapf(ErrMalformedHeader, "%q", header)
	}

	commitType, err := ParseCommitType(m[1])
	if err != nil {
		return Commit{}, errors.Wrapf(ErrInvalidType, "%q", header)
	}

	return Commit{
		Type:     commitType,
		Scope:    m[3],
		Subject:  strings.TrimSpace(m[5]),
		Breaking: m[4] == "!",
		Raw:      header,
	}, nil
}

// ParseMessage parses a full commit message. The first line is the header;
// any later line starting with "BREAKING CHANGE:" marks the commit breaking
// regardless of the header form.
func ParseMessage(message string) (Commit, error) {
	lines := strings.Split(message, "\n")

	commit, err := ParseHeader(strings.TrimRight(lines[0], "\r"))
	if err != nil {
		return Commit{}, err
	}

	for _, line := range lines[1:] {
		if strings.HasPrefix(strings.TrimSpace(line), breakingFooter) {
			commit.Breaking = true
			break
		}
	}

	commit.Raw = message
	return commit, nil
}
