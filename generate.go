package pydock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Generator runs the whole pipeline: tags -> selection -> build contexts.
// It owns Options.OutputDir for the duration of a run; concurrent runs
// against the same directory are not supported.
type Generator struct {
	Source   TagSource
	Keys     KeyRegistry
	Renderer *Renderer
	Options  Options

	// Out receives one "<tag> <key>" line per rendered version.
	Out io.Writer

	// Log is optional; nil discards.
	Log *zap.Logger

	// Progress, when set, receives a progress bar while rendering.
	Progress io.Writer
}

// Result lists the build contexts written by a successful run.
type Result struct {
	Artifacts []Artifact
}

// Matrix returns "major.minor.patch" for every artifact, in render order.
func (r *Result) Matrix() []string {
	out := make([]string, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		out = append(out, a.Version.String())
	}

	return out
}

// MatrixJSON returns Matrix as a compact JSON array, e.g. ["3.6.15","3.7.17"].
func (r *Result) MatrixJSON() string {
	data, err := json.Marshal(r.Matrix())
	if err != nil {
		// []string always marshals
		panic(err)
	}

	return string(data)
}

// SetOutputLine formats the workflow command consumed by CI.
func SetOutputLine(r *Result) string {
	return "::set-output name=matrix::" + r.MatrixJSON()
}

// WriteGitHubOutput appends "matrix=<json>" to the file named by $GITHUB_OUTPUT.
func WriteGitHubOutput(path string, r *Result) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open github output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close github output: %w", cerr)
		}
	}()

	if _, err := fmt.Fprintf(f, "matrix=%s\n", r.MatrixJSON()); err != nil {
		return fmt.Errorf("write github output: %w", err)
	}

	return nil
}

// Run prepares the source, clears the output root, selects versions and
// renders one build context per selected version.
//
// Any error aborts the run. Directories already written stay on disk.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	opt := g.Options.normalized()
	log := logger(g.Log)

	out := g.Out
	if out == nil {
		out = io.Discard
	}

	if err := g.Source.Prepare(ctx); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(opt.OutputDir); err != nil {
		return nil, fmt.Errorf("clean output %s: %w", opt.OutputDir, err)
	}

	tags, err := g.Source.Tags(ctx)
	if err != nil {
		return nil, err
	}

	versions := Select(tags, opt).Versions()
	log.Info("selected versions",
		zap.Int("tags", len(tags)),
		zap.Int("versions", len(versions)),
		zap.Int("major", opt.TargetMajor),
		zap.Int("min_minor", opt.MinMinor),
	)

	bar := g.progress(len(versions))

	res := &Result{Artifacts: make([]Artifact, 0, len(versions))}
	for _, v := range versions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, err := g.Keys.Lookup(v.Major, v.Minor)
		if err != nil {
			return nil, err
		}

		if _, err := fmt.Fprintln(out, v.Tag, key); err != nil {
			return nil, fmt.Errorf("write progress: %w", err)
		}

		art, err := g.Renderer.Write(opt.versionDir(v.Tag), v, key)
		if err != nil {
			return nil, err
		}
		log.Debug("rendered build context", zap.String("tag", v.Tag), zap.String("dir", art.Dir))

		res.Artifacts = append(res.Artifacts, art)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return res, nil
}

func (g *Generator) progress(n int) *progressbar.ProgressBar {
	if g.Progress == nil || n == 0 {
		return nil
	}

	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(g.Progress),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionClearOnFinish(),
	)
}
