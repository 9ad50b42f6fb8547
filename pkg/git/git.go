// Package git wraps the git CLI for the read-only plumbing relvet needs:
// repository detection, last release tag, and commit subject collection.
// All state lives in the repository itself; this package never mutates it.
package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/relvet/relvet/pkg/logger"
)

const logSeparator = "|||"

// LogEntry is one line of git log output used for validation reporting.
type LogEntry struct {
	SHA     string
	Subject string
}

// IsRepository reports whether the working directory is inside a git work tree.
func IsRepository(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	return cmd.Run() == nil
}

// LastTag returns the most recent reachable tag, or "" when the repository
// has no tags yet. An untagged repository is not an error: inference then
// runs over the full history.
func LastTag(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			logger.G(ctx).Debug("no tags found, using full history")
			return "", nil
		}
		return "", errors.Wrap(err, "failed to run git describe")
	}
	return strings.TrimSpace(string(out)), nil
}

// Subjects returns commit subject lines for the given revision range.
// An empty range means the full history.
func Subjects(ctx context.Context, revRange string) ([]string, error) {
	args := []string{"log", "--pretty=format:%s"}
	if revRange != "" {
		args = []string{"log", revRange, "--pretty=format:%s"}
	}

	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read git log for range %q", revRange)
	}

	return splitLines(string(out)), nil
}

// SubjectsSinceLastTag returns the subjects of all commits after the most
// recent tag, or the whole history when no tag exists.
func SubjectsSinceLastTag(ctx context.Context) ([]string, error) {
	tag, err := LastTag(ctx)
	if err != nil {
		return nil, err
	}

	revRange := ""
	if tag != "" {
		revRange = tag + "..HEAD"
	}

	subjects, err := Subjects(ctx, revRange)
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("commits", len(subjects)).Debug("collected commit subjects")
	return subjects, nil
}

// MergeBase returns the merge base between HEAD and origin/<branch>,
// used to bound PR validation ranges.
func MergeBase(ctx context.Context, branch string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "merge-base", "HEAD", "origin/"+branch).Output()
	if err != nil {
		return "", errors.Wrapf(err, "failed to find merge base with origin/%s", branch)
	}
	return strings.TrimSpace(string(out)), nil
}

// Records returns SHA and subject pairs for the given revision range.
func Records(ctx context.Context, revRange string) ([]LogEntry, error) {
	args := []string{"log", "--pretty=format:%H" + logSeparator + "%s"}
	if revRange != "" {
		args = []string{"log", revRange, "--pretty=format:%H" + logSeparator + "%s"}
	}

	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read git log for range %q", revRange)
	}

	var entries []LogEntry
	for _, line := range splitLines(string(out)) {
		if entry, ok := parseLogLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// parseLogLine splits a "%H|||%s" log line into a LogEntry with a short SHA.
func parseLogLine(line string) (LogEntry, bool) {
	sha, subject, found := strings.Cut(line, logSeparator)
	if !found || sha == "" {
		return LogEntry{}, false
	}
	if len(sha) > 8 {
		sha = sha[:8]
	}
	return LogEntry{SHA: sha, Subject: subject}, true
}

func splitLines(out string) []string {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(trimmed, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
