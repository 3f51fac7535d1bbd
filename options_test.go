package pydock

import (
	"path/filepath"
	"testing"
)

func TestParseSourceMode(t *testing.T) {
	t.Parallel()

	cases := map[string]SourceMode{
		"":           ModeClone, // default
		"clone":      ModeClone,
		"git":        ModeClone,
		"local":      ModeClone,
		"remote":     ModeRemote,
		"ls-remote":  ModeRemote,
		"ls":         ModeRemote,
		"list":       ModeRemote,
		"unknown":    ModeClone,  // fallback
		"  ReMoTe  ": ModeRemote, // case/space-insensitive
	}

	for in, want := range cases {
		if got := ParseSourceMode(in); got != want {
			t.Fatalf("ParseSourceMode(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestSourceModeString(t *testing.T) {
	t.Parallel()

	cases := map[SourceMode]string{
		ModeClone:  "clone",
		ModeRemote: "remote",
	}

	for m, want := range cases {
		if got := m.String(); got != want {
			t.Fatalf("SourceMode(%d).String() = %q; want %q", m, got, want)
		}
	}
}

func TestSourceModeEmitsSetOutput(t *testing.T) {
	t.Parallel()

	cases := map[SourceMode]bool{
		ModeClone:  true,
		ModeRemote: false,
	}

	for m, want := range cases {
		if got := m.EmitsSetOutput(); got != want {
			t.Fatalf("SourceMode(%v).EmitsSetOutput() = %v; want %v", m, got, want)
		}
	}
}

func TestOptionsNormalized(t *testing.T) {
	t.Parallel()

	got := Options{}.normalized()
	if got != DefaultOptions() {
		t.Fatalf("zero Options normalized = %+v; want %+v", got, DefaultOptions())
	}

	got = Options{TargetMajor: 2, MinMinor: -1, OutputDir: "out"}.normalized()
	want := Options{TargetMajor: 2, MinMinor: 0, OutputDir: "out"}
	if got != want {
		t.Fatalf("normalized = %+v; want %+v", got, want)
	}

	if dir := want.versionDir("v2.7.18"); dir != filepath.Join("out", "v2.7.18") {
		t.Fatalf("versionDir = %q", dir)
	}
}
