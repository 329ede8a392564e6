package pkgid

import "strings"

// Parse splits a raw name[@version] token into package name and version.
//
// Scoped names themselves start with "@" (e.g. @vue/cli@5.0.8), so a version
// is only present when the token contains at least two "@" characters and is
// split off the last one. Unscoped tokens split on the first "@"; anything
// after a second "@" is intentionally truncated rather than treated as an
// error. Parse never fails: unparseable input degrades to (token, "").
func Parse(token string) (name, version string) {
	if token == "" {
		return "", ""
	}
	if !strings.Contains(token, "@") {
		return token, ""
	}

	if strings.HasPrefix(token, "@") {
		if strings.Count(token, "@") < 2 {
			// Scoped name without a version, e.g. @vue/cli
			return token, ""
		}
		idx := strings.LastIndex(token, "@")
		return token[:idx], token[idx+1:]
	}

	parts := strings.SplitN(token, "@", 3)
	return parts[0], parts[1]
}
