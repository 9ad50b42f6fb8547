package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const maxDescriptionLength = 200

var kebabCaseRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Lint validates a skill directory for authors. It is stricter than
// discovery: the frontmatter must decode cleanly with no unknown keys,
// the name must be kebab-case and match the directory, the description
// must stay short, and the body must not be empty. All findings are
// aggregated so one run reports everything.
func Lint(dir string) error {
	content, err := os.ReadFile(filepath.Join(dir, skillFileName))
	if err != nil {
		return errors.Wrapf(err, "no %s in %s", skillFileName, dir)
	}

	var result *multierror.Error

	metadata, body, err := decodeFrontmatter(content)
	if err != nil {
		return errors.Wrapf(err, "invalid frontmatter in %s", dir)
	}

	if metadata.Name == "" {
		result = multierror.Append(result, errors.New("name is required in frontmatter"))
	} else {
		if !kebabCaseRe.MatchString(metadata.Name) {
			result = multierror.Append(result, errors.Errorf("name %q must be kebab-case", metadata.Name))
		}
		if base := filepath.Base(dir); base != metadata.Name {
			result = multierror.Append(result, errors.Errorf("name %q does not match directory %q", metadata.Name, base))
		}
	}

	if metadata.Description == "" {
		result = multierror.Append(result, errors.New("description is required in frontmatter"))
	} else if len(metadata.Description) > maxDescriptionLength {
		result = multierror.Append(result, errors.Errorf("description is %d chars, max %d", len(metadata.Description), maxDescriptionLength))
	}

	for _, tag := range metadata.Tags {
		if !kebabCaseRe.MatchString(tag) {
			result = multierror.Append(result, errors.Errorf("tag %q must be kebab-case", tag))
		}
	}

	if strings.TrimSpace(body) == "" {
		result = multierror.Append(result, errors.New("skill body is empty"))
	}

	return result.ErrorOrNil()
}

// decodeFrontmatter strictly decodes the YAML frontmatter block, rejecting
// unknown keys so typos in skill metadata surface instead of vanishing.
func decodeFrontmatter(content []byte) (Metadata, string, error) {
	text := string(content)
	if !strings.HasPrefix(text, "---") {
		return Metadata{}, "", errors.New("missing frontmatter")
	}

	lines := strings.Split(text, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return Metadata{}, "", errors.New("unterminated frontmatter")
	}

	block := strings.Join(lines[1:end], "\n")

	var metadata Metadata
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(block)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&metadata); err != nil {
		return Metadata{}, "", errors.Wrap(err, "failed to decode frontmatter")
	}

	return metadata, strings.Join(lines[end+1:], "\n"), nil
}
