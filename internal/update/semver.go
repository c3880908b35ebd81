package update

import "strings"

// parsedVersion is the comparable form of a version string. Stable builds
// (no pre-release suffix) order after any pre-release of the same
// major.minor.patch; among pre-releases the numeric suffix decides.
type parsedVersion struct {
	major, minor, patch int
	stable              bool
	pre                 int
}

// parseVersion turns a tag like "v1.4.0-beta2" into its comparable form.
// Non-numeric components contribute their leading digit run, or 0; missing
// components are zero-padded.
func parseVersion(s string) parsedVersion {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")

	main := s
	suffix := ""
	if i := strings.IndexByte(s, '-'); i >= 0 {
		main, suffix = s[:i], s[i+1:]
	}

	var parts [3]int
	for i, comp := range strings.SplitN(main, ".", 3) {
		parts[i] = leadingDigits(comp)
	}

	return parsedVersion{
		major:  parts[0],
		minor:  parts[1],
		patch:  parts[2],
		stable: suffix == "",
		pre:    allDigits(suffix),
	}
}

// leadingDigits extracts the leading digit run of a component ("4a" -> 4).
func leadingDigits(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}

// allDigits collects every digit in a pre-release suffix ("beta2" -> 2).
func allDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// greaterThan reports a strict ordering between two parsed versions.
func (a parsedVersion) greaterThan(b parsedVersion) bool {
	if a.major != b.major {
		return a.major > b.major
	}
	if a.minor != b.minor {
		return a.minor > b.minor
	}
	if a.patch != b.patch {
		return a.patch > b.patch
	}
	if a.stable != b.stable {
		return a.stable
	}
	return a.pre > b.pre
}

// IsNewer reports whether the remote tag denotes a strictly newer version
// than the locally running one.
func IsNewer(remoteTag, localVersion string) bool {
	return parseVersion(remoteTag).greaterThan(parseVersion(localVersion))
}
