// Package release orchestrates version bumping: it reads the VERSION file,
// classifies the commits since the last release, and writes the next
// version plus a changelog entry back to disk.
package release

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/changelog"
	"github.com/relvet/relvet/pkg/conventional"
	"github.com/relvet/relvet/pkg/git"
	"github.com/relvet/relvet/pkg/logger"
	"github.com/relvet/relvet/pkg/versioning"
)

// CommitSource supplies the raw commit messages considered for a release.
type CommitSource interface {
	PendingMessages(ctx context.Context) ([]string, error)
}

// GitSource reads pending messages from the local repository, covering
// everything after the most recent tag.
type GitSource struct{}

// PendingMessages implements CommitSource.
func (GitSource) PendingMessages(ctx context.Context) ([]string, error) {
	return git.SubjectsSinceLastTag(ctx)
}

// ReadVersionFile reads and strictly parses a VERSION file.
func ReadVersionFile(path string) (versioning.Version, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return versioning.Version{}, errors.Wrapf(err, "failed to read version file %s", path)
	}

	v, err := versioning.Parse(strings.TrimSpace(string(content)))
	if err != nil {
		return versioning.Version{}, errors.WithMessagef(err, "version file %s", path)
	}
	return v, nil
}

// WriteVersionFile writes the canonical rendering plus a trailing newline.
func WriteVersionFile(path string, v versioning.Version) error {
	return errors.Wrapf(os.WriteFile(path, []byte(v.String()+"\n"), 0o644),
		"failed to write version file %s", path)
}

// Bumper computes and applies version bumps.
type Bumper struct {
	versionFile   string
	changelogFile string
	source        CommitSource
	strict        bool
	forced        versioning.Bump
	hasForced     bool
	now           func() time.Time
}

// Option is a function that configures a Bumper
type Option func(*Bumper)

// WithVersionFile sets the VERSION file path.
func WithVersionFile(path string) Option {
	return func(b *Bumper) { b.versionFile = path }
}

// WithChangelogFile sets the CHANGELOG.md path.
func WithChangelogFile(path string) Option {
	return func(b *Bumper) { b.changelogFile = path }
}

// WithSource sets the commit source.
func WithSource(source CommitSource) Option {
	return func(b *Bumper) { b.source = source }
}

// WithStrict aborts the bump when any pending message fails to parse,
// instead of skipping it.
func WithStrict() Option {
	return func(b *Bumper) { b.strict = true }
}

// WithForcedBump bypasses classification and applies the given bump kind.
func WithForcedBump(bump versioning.Bump) Option {
	return func(b *Bumper) {
		b.forced = bump
		b.hasForced = true
	}
}

// NewBumper creates a Bumper with defaults: ./VERSION, ./CHANGELOG.md and
// the git-backed commit source.
func NewBumper(opts ...Option) *Bumper {
	b := &Bumper{
		versionFile:   "VERSION",
		changelogFile: "CHANGELOG.md",
		source:        GitSource{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result describes a computed (and possibly applied) bump.
type Result struct {
	Previous versioning.Version
	Next     versioning.Version
	Bump     versioning.Bump
	Commits  []conventional.Commit
	Skipped  []string
}

// Changed reports whether the version moved.
func (r Result) Changed() bool {
	return r.Bump != versioning.BumpNone
}

// Plan computes the next version without touching any file.
func (b *Bumper) Plan(ctx context.Context) (Result, error) {
	current, err := ReadVersionFile(b.versionFile)
	if err != nil {
		return Result{}, err
	}

	messages, err := b.source.PendingMessages(ctx)
	if err != nil {
		return Result{}, err
	}

	commits, skipped, err := b.parseMessages(ctx, messages)
	if err != nil {
		return Result{}, err
	}

	result := Result{Previous: current, Commits: commits, Skipped: skipped}
	if b.hasForced {
		result.Bump = b.forced
		result.Next = current.Next(b.forced)
	} else {
		result.Next, result.Bump = conventional.InferNext(current, commits)
	}

	logger.G(ctx).WithFields(map[string]any{
		"previous": result.Previous.String(),
		"next":     result.Next.String(),
		"bump":     result.Bump.String(),
		"commits":  len(commits),
		"skipped":  len(skipped),
	}).Debug("planned version bump")

	return result, nil
}

// Apply writes the VERSION file and inserts a changelog entry for a
// planned result. A no-change result leaves both files untouched.
func (b *Bumper) Apply(ctx context.Context, result Result) error {
	if !result.Changed() {
		return nil
	}

	if err := WriteVersionFile(b.versionFile, result.Next); err != nil {
		return err
	}

	entry := changelog.NewEntry(result.Next, result.Commits, b.now())
	updated, err := changelog.Update(b.changelogFile, entry)
	if err != nil {
		return err
	}
	if !updated {
		logger.G(ctx).WithField("path", b.changelogFile).Debug("changelog not updated")
	}

	return nil
}

// Run plans and applies in one step.
func (b *Bumper) Run(ctx context.Context) (Result, error) {
	result, err := b.Plan(ctx)
	if err != nil {
		return Result{}, err
	}
	return result, b.Apply(ctx, result)
}

// parseMessages converts raw messages into commit records. Exempt messages
// (merges, the automated release commit) are always skipped silently; other
// parse failures are skipped unless strict mode is on.
func (b *Bumper) parseMessages(ctx context.Context, messages []string) ([]conventional.Commit, []string, error) {
	var commits []conventional.Commit
	var skipped []string

	for _, message := range messages {
		if conventional.IsExempt(message) {
			continue
		}

		commit, err := conventional.ParseMessage(message)
		if err != nil {
			if b.strict {
				return nil, nil, err
			}
			logger.G(ctx).WithField("message", message).Debug("skipping unparseable commit")
			skipped = append(skipped, message)
			continue
		}
		commits = append(commits, commit)
	}

	return commits, skipped, nil
}
