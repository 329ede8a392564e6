package status

import (
	"encoding/json"
	"strings"

	"golang.org/x/mod/semver"
)

// State classifies a package relative to the registry's latest release.
type State int

const (
	UpToDate State = iota
	Outdated
	Unknown
	Project
	Excluded
)

// UnknownVersion is the sentinel shown when latest-version resolution failed.
const UnknownVersion = "?"

// NoVersion is the sentinel shown for rows that are never resolved
// (project-pinned and excluded packages).
const NoVersion = "-"

func (s State) String() string {
	switch s {
	case UpToDate:
		return "up-to-date"
	case Outdated:
		return "OUTDATED"
	case Unknown:
		return "UNKNOWN"
	case Project:
		return "PROJECT"
	case Excluded:
		return "EXCLUDED"
	}
	return "UNKNOWN"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Record is one package's check result.
type Record struct {
	Name      string `json:"name"`
	Installed string `json:"installed"`
	Latest    string `json:"latest"`
	State     State  `json:"status"`
}

// Classify compares an installed version against a resolved latest version.
// An empty or sentinel latest means resolution failed.
func Classify(installed, latest string) State {
	if latest == "" || latest == UnknownVersion {
		return Unknown
	}
	if installed == latest {
		return UpToDate
	}
	return Outdated
}

// IsMajorBump reports whether latest raises the major version above
// installed. Unparseable versions on either side are never a bump.
func IsMajorBump(installed, latest string) bool {
	cur, lat := canonical(installed), canonical(latest)
	if cur == "" || lat == "" {
		return false
	}
	return semver.Compare(semver.Major(lat), semver.Major(cur)) > 0
}

// IsMinorBump reports whether latest raises the minor version within the
// same major version.
func IsMinorBump(installed, latest string) bool {
	cur, lat := canonical(installed), canonical(latest)
	if cur == "" || lat == "" {
		return false
	}
	if semver.Major(lat) != semver.Major(cur) {
		return false
	}
	return semver.Compare(semver.MajorMinor(lat), semver.MajorMinor(cur)) > 0
}

// canonical normalizes an npm-style version ("5.0.8") into the v-prefixed
// form golang.org/x/mod/semver expects, or "" when it does not parse.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
