package config

import (
	"os"
	"testing"
)

func TestManifestFromFile(t *testing.T) {
	content := `
pipelines:
  access-logs:
    mode: sequential
    input:
      type: file
      details:
        path: /var/log/app.log
    output:
      type: stdout
      details: {}
    stages:
      - type: upper
      - type: replace
        details:
          old: " "
          replacement: "_"
`
	f, err := os.CreateTemp("", "manifest-*.yaml")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
	f.Close()

	m, err := ManifestFromFile(f.Name())
	if err != nil {
		t.Fatalf("ManifestFromFile returned error: %v", err)
	}

	p, ok := m.Pipelines["access-logs"]
	if !ok {
		t.Fatal("expected pipeline \"access-logs\" to be present")
	}
	if p.Mode != "sequential" {
		t.Errorf("Mode = %q, want %q", p.Mode, "sequential")
	}
	if p.Input.Type != "file" {
		t.Errorf("Input.Type = %q, want %q", p.Input.Type, "file")
	}
	if len(p.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(p.Stages))
	}
	if p.Stages[1].Details["old"] != " " {
		t.Errorf("Stages[1].Details[old] = %v, want %q", p.Stages[1].Details["old"], " ")
	}
}

func TestManifestFromFileMissingFile(t *testing.T) {
	if _, err := ManifestFromFile("/nonexistent/path.yaml"); err == nil {
		t.Fatal("expected an error loading a nonexistent file")
	}
}
