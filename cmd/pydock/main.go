/*
Package main is the pydock cli tool: it renders a Docker build context
for the latest patch of every supported CPython minor release.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/woozymasta/pydock"
)

type Options struct {
	// betteralign:ignore

	// Tag source
	OptionsSource OptionsSource `group:"Tag source"`
	// Input and output files
	OptionsFiles OptionsFiles `group:"Files"`
	// Signing keys
	OptionsKeys OptionsKeys `group:"Keys"`
	// CI output
	OptionsOutput OptionsOutput `group:"Output"`

	Verbose bool `short:"v" long:"verbose" description:"Enable debug logging on stderr"`
}

type OptionsSource struct {
	Mode     string `short:"m" long:"mode"      description:"How tags are fetched" choice:"clone" choice:"remote" default:"clone"`
	Repo     string `short:"r" long:"repo"      description:"Upstream repository URL" default:"https://github.com/python/cpython.git"`
	CloneDir string `short:"C" long:"clone-dir" description:"Persistent clone directory (clone mode)" default:"cpython"`
}

type OptionsFiles struct {
	Template   string `short:"t" long:"template"   description:"Dockerfile template" default:"Dockerfile.template"`
	Entrypoint string `short:"e" long:"entrypoint" description:"Entrypoint script copied into every context" default:"entrypoint_template.sh"`
	Output     string `short:"o" long:"output"     description:"Output root, removed and recreated on every run" default:"docker"`
}

type OptionsKeys struct {
	KeysFile string `short:"k" long:"keys" description:"YAML file with extra signing keys (major: {minor: fingerprint})"`
}

type OptionsOutput struct {
	GitHubOutput string `short:"g" long:"github-output" env:"GITHUB_OUTPUT" description:"Append matrix=[...] to this file"`
	NoSetOutput  bool   `short:"n" long:"no-set-output"                     description:"Do not print the ::set-output line (clone mode)"`
}

func main() {
	var opt Options
	parser := flags.NewParser(&opt, flags.Default)
	parser.LongDescription = `pydock renders docker/<tag>/Dockerfile and docker/<tag>/entrypoint.sh
for the latest patch release of every CPython 3.6+ minor version,
then prints the version matrix for CI.`
	if _, err := parser.Parse(); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	log := pydock.NewLogger(os.Stderr, opt.Verbose)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opt, log); err != nil {
		log.Error("run failed", zap.Error(err))
		var missing *pydock.MissingKeyError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "%v: add it to keys.yaml or pass --keys\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opt Options, log *zap.Logger) error {
	keys := pydock.DefaultKeys()
	if opt.OptionsKeys.KeysFile != "" {
		extra, err := pydock.LoadKeys(opt.OptionsKeys.KeysFile)
		if err != nil {
			return err
		}
		keys = keys.Merge(extra)
	}

	renderer, err := pydock.NewRenderer(opt.OptionsFiles.Template, opt.OptionsFiles.Entrypoint)
	if err != nil {
		return err
	}

	mode := pydock.ParseSourceMode(opt.OptionsSource.Mode)
	gen := &pydock.Generator{
		Source:   pydock.NewTagSource(mode, opt.OptionsSource.Repo, opt.OptionsSource.CloneDir, log),
		Keys:     keys,
		Renderer: renderer,
		Options: pydock.Options{
			TargetMajor: pydock.DefaultTargetMajor,
			MinMinor:    pydock.DefaultMinMinor,
			OutputDir:   opt.OptionsFiles.Output,
		},
		Out: os.Stdout,
		Log: log.With(zap.Stringer("mode", mode)),
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		gen.Progress = os.Stderr
	}

	res, err := gen.Run(ctx)
	if err != nil {
		return err
	}

	if mode.EmitsSetOutput() && !opt.OptionsOutput.NoSetOutput {
		fmt.Println(pydock.SetOutputLine(res))
	}

	if path := opt.OptionsOutput.GitHubOutput; path != "" {
		if err := pydock.WriteGitHubOutput(path, res); err != nil {
			return err
		}
	}

	return nil
}
