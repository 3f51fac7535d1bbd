/*
Package pydock generates Docker build contexts for CPython release tags.

Typical flow:

 1. Fetch tag names from the upstream repository (TagSource: a persistent
    bare clone, or a remote listing).
 2. Select the latest patch per (major, minor) with Select.
 3. Render Dockerfile.template for each selected version into
    docker/<tag>/Dockerfile and copy the entrypoint next to it.

Selection notes:
  - Only tags of the form <marker>X.Y.Z are considered; the marker
    (usually "v") is an optional run of ASCII letters before X, and
    no component has a leading zero.
  - X.Y.0 tags are never selected.
  - Within a (major, minor) series a later tag replaces the current one
    only when its patch is strictly greater.

Usage example:

	raw := []string{"v3.6.0", "v3.6.1", "v3.6.2", "v3.5.9", "v3.6.abc", "v3.6"}

	table := pydock.Select(raw, pydock.DefaultOptions())
	for _, v := range table.Versions() {
		fmt.Println(v.Tag, v) // v3.6.2 3.6.2
	}

Template rendering is a literal replacement of {{PYTHON_VERSION}} and
{{GPG_KEY}}; there is no templating language.
*/
package pydock
