package conventional

import (
	"github.com/relvet/relvet/pkg/versioning"
)

// Classify aggregates a set of commits into a release bump kind.
// Precedence, highest wins: any breaking commit forces a major bump; else
// any feat forces minor; else any of fix/perf/refactor forces patch.
// docs, style, chore, build, ci, test and revert never bump on their own.
// The aggregate is order-insensitive and an empty set classifies as none.
func Classify(commits []Commit) versioning.Bump {
	bump := versioning.BumpNone

	for _, c := range commits {
		if c.Breaking {
			return versioning.BumpMajor
		}

		switch c.Type {
		case TypeFeat:
			if bump < versioning.BumpMinor {
				bump = versioning.BumpMinor
			}
		case TypeFix, TypePerf, TypeRefactor:
			if bump < versioning.BumpPatch {
				bump = versioning.BumpPatch
			}
		}
	}

	return bump
}

// InferNext computes the next version for a set of commits since the last
// release. The result is never below current, with equality exactly when
// the classification is none.
func InferNext(current versioning.Version, commits []Commit) (versioning.Version, versioning.Bump) {
	bump := Classify(commits)
	return current.Next(bump), bump
}
