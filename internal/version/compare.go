package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// CheckCompatibility checks that a file declaring required can be read by
// the current build.
//
// required is either a version or a constraint:
//   - "1.2.0" is compatible with every 1.x.x build
//   - ">= 1.1, < 2" and "~1.2" are checked as semver constraints
//   - empty, or "main" on either side, skips the check
func CheckCompatibility(current, required string) error {
	current = strings.TrimPrefix(strings.TrimSpace(current), "v")
	required = strings.TrimSpace(required)

	if required == "" || current == "main" || required == "main" {
		return nil
	}

	currentSemver, err := semver.NewVersion(current)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid build version '%s'", current)
	}

	if requiredSemver, err := semver.NewVersion(required); err == nil {
		if requiredSemver.Major() != currentSemver.Major() {
			return errors.Newf(errors.ErrCodeInvalidConfiguration,
				"major version mismatch: build is %d.x.x but the file requires %d.x.x",
				currentSemver.Major(), requiredSemver.Major())
		}

		return nil
	}

	constraint, err := semver.NewConstraint(required)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid version requirement '%s'", required)
	}

	if !constraint.Check(currentSemver) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "build %s does not satisfy '%s'", currentSemver, required)
	}

	return nil
}
