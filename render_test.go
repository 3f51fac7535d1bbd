package pydock

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

const testEntrypoint = "#!/bin/sh\nexec \"$@\"\n"

// writeInputs creates a template and an executable entrypoint in a temp dir.
func writeInputs(t *testing.T, template string) (tplPath, entryPath string) {
	t.Helper()

	dir := t.TempDir()
	tplPath = filepath.Join(dir, DefaultTemplateFile)
	entryPath = filepath.Join(dir, DefaultEntrypointFile)

	if err := os.WriteFile(tplPath, []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entryPath, []byte(testEntrypoint), 0o755); err != nil {
		t.Fatal(err)
	}

	return tplPath, entryPath
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := Render("v{{PYTHON_VERSION}}-{{GPG_KEY}}",
		Replacement{Token: PlaceholderVersion, Value: "3.9.1"},
		Replacement{Token: PlaceholderKey, Value: "ABC123"},
	)
	if got != "v3.9.1-ABC123" {
		t.Fatalf("Render = %q; want v3.9.1-ABC123", got)
	}
}

func TestRender_AllOccurrencesAndLiteral(t *testing.T) {
	t.Parallel()

	tpl := "FROM x\nENV PYTHON_VERSION {{PYTHON_VERSION}}\nRUN echo {{PYTHON_VERSION}} {{ GPG_KEY }} $GPG_KEY\n"
	got := Render(tpl, Replacement{Token: PlaceholderVersion, Value: "3.8.5"})
	want := "FROM x\nENV PYTHON_VERSION 3.8.5\nRUN echo 3.8.5 {{ GPG_KEY }} $GPG_KEY\n"

	if got != want {
		t.Fatalf("Render = %q; want %q", got, want)
	}

	if Render("no tokens") != "no tokens" {
		t.Fatal("Render without pairs changed the input")
	}
}

func TestRenderer_Write(t *testing.T) {
	t.Parallel()

	tpl, entry := writeInputs(t, "ENV PYTHON_VERSION {{PYTHON_VERSION}}\nENV GPG_KEY {{GPG_KEY}}\n")
	r, err := NewRenderer(tpl, entry)
	if err != nil {
		t.Fatal(err)
	}

	v, _ := ParseTag("v3.9.1")
	dir := filepath.Join(t.TempDir(), "docker", v.Tag)

	art, err := r.Write(dir, v, "ABC123")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if art.Dir != dir || art.Key != "ABC123" || art.Version != v {
		t.Fatalf("Artifact = %+v", art)
	}

	if names := listDir(t, dir); !reflect.DeepEqual(names, []string{DockerfileName, EntrypointName}) {
		t.Fatalf("dir contents = %v", names)
	}

	df, err := os.ReadFile(filepath.Join(dir, DockerfileName))
	if err != nil {
		t.Fatal(err)
	}
	if want := "ENV PYTHON_VERSION 3.9.1\nENV GPG_KEY ABC123\n"; string(df) != want {
		t.Fatalf("Dockerfile = %q; want %q", df, want)
	}

	ep, err := os.ReadFile(filepath.Join(dir, EntrypointName))
	if err != nil {
		t.Fatal(err)
	}
	if string(ep) != testEntrypoint {
		t.Fatalf("entrypoint = %q; want %q", ep, testEntrypoint)
	}

	srcInfo, _ := os.Stat(entry)
	dstInfo, _ := os.Stat(filepath.Join(dir, EntrypointName))
	if srcInfo.Mode().Perm() != dstInfo.Mode().Perm() {
		t.Fatalf("entrypoint mode = %v; want %v", dstInfo.Mode().Perm(), srcInfo.Mode().Perm())
	}
}

func TestRenderer_WriteIsIdempotent(t *testing.T) {
	t.Parallel()

	tpl, entry := writeInputs(t, "{{PYTHON_VERSION}} {{GPG_KEY}}")
	r, err := NewRenderer(tpl, entry)
	if err != nil {
		t.Fatal(err)
	}

	v, _ := ParseTag("v3.7.17")
	dir := filepath.Join(t.TempDir(), v.Tag)

	if _, err := r.Write(dir, v, "K"); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(filepath.Join(dir, DockerfileName))

	// leftovers from an older layout must not survive
	if err := os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Write(dir, v, "K"); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(filepath.Join(dir, DockerfileName))

	if string(first) != string(second) {
		t.Fatalf("second render differs: %q vs %q", first, second)
	}

	if names := listDir(t, dir); !reflect.DeepEqual(names, []string{DockerfileName, EntrypointName}) {
		t.Fatalf("dir contents after rerender = %v", names)
	}
}

func TestNewRenderer_MissingInputs(t *testing.T) {
	t.Parallel()

	tpl, entry := writeInputs(t, "x")
	dir := t.TempDir()

	if _, err := NewRenderer(filepath.Join(dir, "absent"), entry); err == nil {
		t.Fatal("NewRenderer with a missing template succeeded")
	}

	if _, err := NewRenderer(tpl, filepath.Join(dir, "absent")); err == nil {
		t.Fatal("NewRenderer with a missing entrypoint succeeded")
	}
}
