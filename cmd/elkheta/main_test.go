package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(base, "ingest")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Academic.DefaultYear = "M1"

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommandRendersMetadata(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	out, err := runCLI(t, configPath, "parse", "M2-T2-U2-L2-SCI-P0078-John-Smith.mp4")
	if err != nil {
		t.Fatalf("parse command: %v\n%s", err, out)
	}
	for _, want := range []string{"M2", "P0078", "John Smith", "T2", "SCI"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQueueLifecycleThroughCLI(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	videoPath := filepath.Join(base, "M2-T1-SCI-P0078.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video fixture: %v", err)
	}

	out, err := runCLI(t, configPath, "add", videoPath)
	if err != nil {
		t.Fatalf("add command: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Queued M2-T1-SCI-P0078.mp4") {
		t.Fatalf("unexpected add output:\n%s", out)
	}

	out, err = runCLI(t, configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "M2-T1-SCI-P0078.mp4") || !strings.Contains(out, "pending") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	out, err = runCLI(t, configPath, "queue", "show", "1")
	if err != nil {
		t.Fatalf("queue show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Upload GUID") {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	out, err = runCLI(t, configPath, "queue", "health")
	if err != nil {
		t.Fatalf("queue health: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Pending") {
		t.Fatalf("unexpected health output:\n%s", out)
	}
}

func TestQueueListRejectsUnknownStatus(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())
	if _, err := runCLI(t, configPath, "queue", "list", "--status", "exploded"); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "elkheta.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, out.String())
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[video_host]") {
		t.Fatalf("sample config missing video_host section:\n%s", data)
	}

	// Re-running without --overwrite must refuse.
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
