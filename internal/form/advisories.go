package form

import (
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/github/go-spdx/v2/spdxexp"
)

// Advisories returns non-blocking warnings keyed by field: a license that
// is not a known SPDX expression, and dependency slots whose version is
// not a valid range (e.g. "^18.0.0", ">=1.2.3"). Submit ignores them.
func Advisories(s State) map[string]string {
	out := map[string]string{}
	if s.Draft.License != "" {
		if ok, _ := spdxexp.ValidateLicenses([]string{s.Draft.License}); !ok {
			out["license"] = "unknown SPDX license"
		}
	}
	for idx, slot := range s.Slots {
		if slot.Name == "" && slot.Version == "" {
			continue
		}
		if _, err := semver.NewConstraint(slot.Version); err != nil {
			out["dependencies."+strconv.Itoa(idx)] = "invalid version range"
		}
	}
	return out
}
