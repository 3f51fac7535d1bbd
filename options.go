package pydock

import "path/filepath"

const (
	// DefaultRepositoryURL is the upstream CPython repository.
	DefaultRepositoryURL = "https://github.com/python/cpython.git"

	// DefaultTargetMajor is the only major series rendered.
	DefaultTargetMajor = 3

	// DefaultMinMinor is the lowest minor series rendered within the target major.
	DefaultMinMinor = 6

	// DefaultOutputDir is the root of the generated build contexts.
	DefaultOutputDir = "docker"

	// DefaultTemplateFile is the Dockerfile template read by the renderer.
	DefaultTemplateFile = "Dockerfile.template"

	// DefaultEntrypointFile is copied verbatim into every build context.
	DefaultEntrypointFile = "entrypoint_template.sh"

	// DefaultCloneDir is where the persistent clone lives in clone mode.
	DefaultCloneDir = "cpython"

	// DockerfileName and EntrypointName are the fixed names inside a build context.
	DockerfileName = "Dockerfile"
	EntrypointName = "entrypoint.sh"
)

// Options configures version selection and the output layout.
type Options struct {
	// TargetMajor keeps only tags of this major version.
	TargetMajor int

	// MinMinor keeps only tags whose minor is >= MinMinor.
	MinMinor int

	// OutputDir is removed and recreated on every run.
	OutputDir string
}

// DefaultOptions returns the compiled-in selection constants:
//
//   - TargetMajor: 3
//   - MinMinor:    6
//   - OutputDir:   "docker"
func DefaultOptions() Options {
	return Options{
		TargetMajor: DefaultTargetMajor,
		MinMinor:    DefaultMinMinor,
		OutputDir:   DefaultOutputDir,
	}
}

// normalized returns a copy with implicit defaults applied.
// A zero TargetMajor means the selection is unset: it falls back to
// DefaultTargetMajor, and a zero MinMinor falls back to DefaultMinMinor.
func (o Options) normalized() Options {
	out := o

	if out.TargetMajor == 0 {
		out.TargetMajor = DefaultTargetMajor
		if out.MinMinor == 0 {
			out.MinMinor = DefaultMinMinor
		}
	}

	if out.MinMinor < 0 {
		out.MinMinor = 0
	}

	if out.OutputDir == "" {
		out.OutputDir = DefaultOutputDir
	}

	return out
}

// versionDir is the build context directory for a tag.
func (o Options) versionDir(tag string) string {
	return filepath.Join(o.OutputDir, tag)
}

// SourceMode selects how tags are fetched.
type SourceMode uint8

const (
	// ModeClone keeps a persistent local clone and reads tags from it.
	ModeClone SourceMode = iota

	// ModeRemote lists remote tags without downloading content.
	ModeRemote
)

// String returns a stable textual representation for SourceMode.
func (m SourceMode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	default:
		return "clone"
	}
}

// EmitsSetOutput reports whether a run in this mode ends with the
// "::set-output name=matrix::" line. Only clone mode prints it.
func (m SourceMode) EmitsSetOutput() bool {
	return m == ModeClone
}

// ParseSourceMode maps free-form strings to SourceMode.
// Supported aliases (case-insensitive):
//
//	clone:  "", "clone", "git", "local"
//	remote: "remote", "ls-remote", "ls", "list"
func ParseSourceMode(s string) SourceMode {
	switch toTok(s) {
	case "remote", "ls-remote", "ls", "list":
		return ModeRemote
	case "", "clone", "git", "local":
		return ModeClone
	default:
		return ModeClone
	}
}
