package pydock

import (
	"strconv"
	"strings"

	"github.com/woozymasta/semver"
)

// ParsedVersion is a release tag split into numeric components.
type ParsedVersion struct {
	Tag    string // raw tag, marker included ("v3.9.1")
	Marker string // leading non-numeric marker ("v"), may be empty
	Major  int
	Minor  int
	Patch  int
}

// Series identifies a (major, minor) release line.
type Series struct {
	Major int
	Minor int
}

// String returns "major.minor".
func (s Series) String() string {
	return strconv.Itoa(s.Major) + "." + strconv.Itoa(s.Minor)
}

// Series returns the (major, minor) pair of v.
func (v ParsedVersion) Series() Series {
	return Series{Major: v.Major, Minor: v.Minor}
}

// String returns "major.minor.patch".
func (v ParsedVersion) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// Version returns the tag with its marker stripped ("v3.9.1" -> "3.9.1").
func (v ParsedVersion) Version() string {
	return strings.TrimPrefix(v.Tag, v.Marker)
}

// semver returns v as a release Semver for ordering.
func (v ParsedVersion) semver() semver.Semver {
	return makeSemver(v.Major, v.Minor, v.Patch, v.Tag)
}

// ParseTag splits "<marker><major>.<minor>.<patch>" into a ParsedVersion.
// The marker is an optional run of ASCII letters ("v"). Tags that do not
// split into exactly three components, whose marker holds anything but
// letters, or whose components are not non-negative integers without
// leading zeros, report false.
func ParseTag(tag string) (ParsedVersion, bool) {
	parts := strings.Split(tag, ".")
	if len(parts) != 3 {
		return ParsedVersion{}, false
	}

	marker, major := splitMarker(parts[0])
	if !isLetters(marker) {
		return ParsedVersion{}, false
	}

	nums := [3]int{}
	for i, s := range []string{major, parts[1], parts[2]} {
		// "06" and "6" would otherwise share a series under two spellings
		if !isDigits(s) || (len(s) > 1 && s[0] == '0') {
			return ParsedVersion{}, false
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return ParsedVersion{}, false
		}
		nums[i] = n
	}

	return ParsedVersion{
		Tag:    tag,
		Marker: marker,
		Major:  nums[0],
		Minor:  nums[1],
		Patch:  nums[2],
	}, true
}

// makeSemver builds a release Semver without parsing.
func makeSemver(maj, min, pat int, original string) semver.Semver {
	return semver.Semver{
		Major:    maj,
		Minor:    min,
		Patch:    pat,
		Original: original,
		Flags:    semver.FlagHasMajor | semver.FlagHasMinor | semver.FlagHasPatch,
		Valid:    true,
	}
}
