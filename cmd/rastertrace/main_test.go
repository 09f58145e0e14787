package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/rastertrace/internal/config"
)

func TestBuildConfigMapsBackendNames(t *testing.T) {
	cases := []struct {
		name string
		want config.Backend
	}{
		{"edge", config.BackendEdge},
		{"", config.BackendEdge},
		{"centerline", config.BackendCenterline},
		{"dots", config.BackendDots},
	}
	for _, c := range cases {
		cfg, err := buildConfig(c.name, 0.5, 1.5, false)
		if err != nil {
			t.Fatalf("buildConfig(%q): unexpected error: %v", c.name, err)
		}
		if cfg.Backend != c.want {
			t.Fatalf("buildConfig(%q): got backend %v, want %v", c.name, cfg.Backend, c.want)
		}
	}
}

func TestBuildConfigRejectsUnknownBackend(t *testing.T) {
	if _, err := buildConfig("superpixel-ish", 0.5, 1.5, false); err == nil {
		t.Fatal("expected an error for an unrecognized backend name")
	}
}

func TestBuildConfigAppliesDetailStrokeAndMultipass(t *testing.T) {
	cfg, err := buildConfig("edge", 0.8, 2.5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Common.Detail != 0.8 {
		t.Fatalf("expected detail 0.8, got %v", cfg.Common.Detail)
	}
	if cfg.Common.StrokePxAt1080p != 2.5 {
		t.Fatalf("expected stroke-px 2.5, got %v", cfg.Common.StrokePxAt1080p)
	}
	if !cfg.Common.EnableMultipass {
		t.Fatal("expected multipass to be enabled")
	}
}

func TestWriteOutputToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.svg")
	if err := writeOutput(path, "<svg/>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading back file: %v", err)
	}
	if string(got) != "<svg/>" {
		t.Fatalf("got %q, want %q", got, "<svg/>")
	}
}
