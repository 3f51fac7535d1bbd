package pydock

import "sort"

// VersionTable holds the highest-patch version seen per (major, minor).
type VersionTable map[Series]ParsedVersion

// Len returns the number of release lines in the table.
func (t VersionTable) Len() int {
	return len(t)
}

// Get returns the selected version for (major, minor).
func (t VersionTable) Get(major, minor int) (ParsedVersion, bool) {
	v, ok := t[Series{Major: major, Minor: minor}]
	return v, ok
}

// Versions returns the table entries in ascending version order.
func (t VersionTable) Versions() []ParsedVersion {
	out := make([]ParsedVersion, 0, len(t))
	for _, v := range t {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].semver().Compare(out[j].semver()) < 0
	})

	return out
}

// observe records v, keeping the first-seen entry unless v has a strictly greater patch.
func (t VersionTable) observe(v ParsedVersion) {
	k := v.Series()
	if cur, ok := t[k]; ok && cur.Patch >= v.Patch {
		return
	}

	t[k] = v
}

// Select reduces raw tags to the latest patch per (major, minor).
// Pipeline:
//  1. parse "<marker>X.Y.Z" (anything else is skipped)
//  2. keep major == TargetMajor, minor >= MinMinor, patch != 0
//  3. per (major, minor) keep the strictly highest patch, first seen on ties
func Select(tags []string, opt Options) VersionTable {
	opt = opt.normalized()

	table := make(VersionTable)
	for _, tag := range tags {
		v, ok := ParseTag(tag)
		if !ok {
			continue
		}

		// X.Y.0 is never rendered, even when it is the only tag of its series
		if v.Major != opt.TargetMajor || v.Minor < opt.MinMinor || v.Patch == 0 {
			continue
		}

		table.observe(v)
	}

	return table
}
