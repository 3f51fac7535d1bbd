package pydock

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Template placeholders.
const (
	PlaceholderVersion = "{{PYTHON_VERSION}}"
	PlaceholderKey     = "{{GPG_KEY}}"
)

// Replacement is a literal token and its substitute.
type Replacement struct {
	Token string
	Value string
}

// Render replaces every occurrence of each token, in order.
func Render(template string, pairs ...Replacement) string {
	out := template
	for _, p := range pairs {
		out = strings.ReplaceAll(out, p.Token, p.Value)
	}

	return out
}

// Artifact is a written build context.
type Artifact struct {
	Version ParsedVersion
	Key     string
	Dir     string
}

// Renderer writes build contexts from a template and a static entrypoint.
type Renderer struct {
	Template       string
	EntrypointPath string
}

// NewRenderer reads the template once; the entrypoint is copied on every Write.
func NewRenderer(templatePath, entrypointPath string) (*Renderer, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	if _, err := os.Stat(entrypointPath); err != nil {
		return nil, fmt.Errorf("stat entrypoint: %w", err)
	}

	return &Renderer{Template: string(data), EntrypointPath: entrypointPath}, nil
}

// Dockerfile returns the template rendered for v and key.
func (r *Renderer) Dockerfile(v ParsedVersion, key string) string {
	return Render(r.Template,
		Replacement{Token: PlaceholderVersion, Value: v.Version()},
		Replacement{Token: PlaceholderKey, Value: key},
	)
}

// Write recreates dir and fills it with Dockerfile and entrypoint.sh.
// Anything previously in dir is removed first.
func (r *Renderer) Write(dir string, v ParsedVersion, key string) (Artifact, error) {
	if err := os.RemoveAll(dir); err != nil {
		return Artifact{}, fmt.Errorf("clean %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create %s: %w", dir, err)
	}

	dockerfile := filepath.Join(dir, DockerfileName)
	if err := os.WriteFile(dockerfile, []byte(r.Dockerfile(v, key)), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", dockerfile, err)
	}

	if err := copyFile(r.EntrypointPath, filepath.Join(dir, EntrypointName)); err != nil {
		return Artifact{}, err
	}

	return Artifact{Version: v, Key: key, Dir: dir}, nil
}

// copyFile copies src to dst byte for byte, keeping the permission bits of src.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", dst, err)
	}

	return nil
}
