package conventional

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Messages that pass validation without being conventional records.
// Merge commits are routine in PR histories and the automated release
// commit is produced by the bump workflow itself.
const (
	mergePrefix     = "Merge "
	automatedPrefix = "chore: bump version"
)

// IsExempt reports whether a message is accepted by validation without
// contributing a commit record to inference.
func IsExempt(message string) bool {
	return strings.HasPrefix(message, mergePrefix) ||
		strings.HasPrefix(message, automatedPrefix)
}

// ValidateMessage checks a single commit message or PR title. Exempt
// messages pass; everything else must parse as a conventional commit.
func ValidateMessage(message string) error {
	if IsExempt(message) {
		return nil
	}

	_, err := ParseMessage(message)
	return err
}

// ValidateMessages validates a batch of messages, aggregating every failure
// so a PR author sees all offending commits at once. Returns nil when all
// messages pass.
func ValidateMessages(messages []string) error {
	var result *multierror.Error

	for _, message := range messages {
		if err := ValidateMessage(message); err != nil {
			result = multierror.Append(result, errors.WithMessage(err, "commit rejected"))
		}
	}

	return result.ErrorOrNil()
}
