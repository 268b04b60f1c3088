package version

import (
	"fmt"
	"strings"
)

type semver struct {
	parts      [3]int
	prerelease string
}

func parse(s string) (semver, error) {
	var v semver

	core, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	v.prerelease = pre

	if _, err := fmt.Sscanf(core, "%d.%d.%d", &v.parts[0], &v.parts[1], &v.parts[2]); err != nil {
		return v, fmt.Errorf("malformed version %q: %w", s, err)
	}

	return v, nil
}

// Compare returns 1 when a is newer than b, -1 when it is older and 0 otherwise.
// A pre-release sorts before the release it precedes; two pre-releases of the
// same version compare lexically.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av.parts {
		switch {
		case av.parts[i] > bv.parts[i]:
			return 1, nil
		case av.parts[i] < bv.parts[i]:
			return -1, nil
		}
	}

	switch {
	case av.prerelease == bv.prerelease:
		return 0, nil
	case av.prerelease == "":
		return 1, nil
	case bv.prerelease == "":
		return -1, nil
	}

	return strings.Compare(av.prerelease, bv.prerelease), nil
}
