package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func executeCommand(args ...string) (string, error) {
	// Commands are package vars, so flag values stick between runs.
	generateCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	SetVersion("test-version")
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "test-version") {
		t.Errorf("expected version output to contain 'test-version', got: %s", out)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sub := range []string{"generate", "presets", "detect", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := executeCommand("presets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []string{"rust-library", "rust-binary", "go-app", "python-app", "docker"} {
		if !strings.Contains(out, id) {
			t.Errorf("presets output missing %q", id)
		}
	}
}

func TestGenerate_PresetToStdout(t *testing.T) {
	out, err := executeCommand("generate", "--preset", "rust-library", "--stdout",
		"--platform", "github-actions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ".github/workflows/rust-library.yml") {
		t.Errorf("missing output path header:\n%s", out)
	}
	if !strings.Contains(out, "actions/checkout@v4") {
		t.Errorf("missing workflow content:\n%s", out)
	}
}

func TestGenerate_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Jenkinsfile"))
	if err != nil {
		t.Fatalf("expected Jenkinsfile: %v", err)
	}
	if !strings.Contains(string(data), "pipeline {") {
		t.Errorf("unexpected Jenkinsfile content:\n%s", data)
	}
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	if _, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", dir); err != nil {
		t.Fatalf("first run: %v", err)
	}

	_, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", dir)
	if err == nil {
		t.Fatal("expected overwrite refusal")
	}

	if _, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", dir, "--force"); err != nil {
		t.Fatalf("forced run: %v", err)
	}
}

func TestGenerate_OutputFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CIGEN_OUTPUT", dir)

	_, err := executeCommand("generate", "--preset", "go-app", "--platform", "jenkins")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "Jenkinsfile")); err != nil {
		t.Errorf("expected Jenkinsfile in CIGEN_OUTPUT dir: %v", err)
	}
}

func TestGenerate_ForceFromEnv(t *testing.T) {
	dir := t.TempDir()
	if _, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", dir); err != nil {
		t.Fatalf("first run: %v", err)
	}

	t.Setenv("CIGEN_FORCE", "true")
	if _, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", dir); err != nil {
		t.Fatalf("env-forced run: %v", err)
	}
}

func TestGenerate_ExplicitFlagBeatsEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv("CIGEN_OUTPUT", envDir)

	_, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "jenkins", "--output", flagDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(flagDir, "Jenkinsfile")); err != nil {
		t.Errorf("expected Jenkinsfile in flag dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(envDir, "Jenkinsfile")); err == nil {
		t.Error("env dir should not receive output when flag is set")
	}
}

func TestGenerate_PresetAndFileExclusive(t *testing.T) {
	_, err := executeCommand("generate", "--preset", "go-app", "--file", "x.yaml")
	if err == nil {
		t.Fatal("expected mutual exclusion error")
	}
}

func TestGenerate_UnknownPlatform(t *testing.T) {
	_, err := executeCommand("generate", "--preset", "go-app",
		"--platform", "travis-ci", "--stdout")
	if err == nil || !strings.Contains(err.Error(), "travis-ci") {
		t.Fatalf("expected unknown platform error, got %v", err)
	}
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"),
		[]byte("module example.com/app\n\ngo 1.22\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := executeCommand("detect", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "go-app") {
		t.Errorf("expected go-app detection:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand("nonexistent")
	if err == nil {
		t.Error("expected error for unknown command, got nil")
	}
}
