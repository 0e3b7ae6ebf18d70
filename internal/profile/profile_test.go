package profile

import (
	"path/filepath"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{
		Mode:   "unknown",
		Data:   dir,
		Driver: "sqlite",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate(): unexpected error: %v", err)
	}

	if p.Mode != "demo" {
		t.Errorf("Mode: expected %q, got %q", "demo", p.Mode)
	}
	if p.DefaultTimezone != "UTC" {
		t.Errorf("DefaultTimezone: expected %q, got %q", "UTC", p.DefaultTimezone)
	}
	expectedDSN := filepath.Join(dir, "whenbot_demo.db")
	if p.DSN != expectedDSN {
		t.Errorf("DSN: expected %q, got %q", expectedDSN, p.DSN)
	}
}

func TestValidateKeepsExplicitDSN(t *testing.T) {
	p := &Profile{
		Mode:            "dev",
		Data:            t.TempDir(),
		Driver:          "postgres",
		DSN:             "postgres://localhost/whenbot",
		DefaultTimezone: "America/Chicago",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate(): unexpected error: %v", err)
	}

	if p.DSN != "postgres://localhost/whenbot" {
		t.Errorf("DSN: expected to be kept, got %q", p.DSN)
	}
	if p.DefaultTimezone != "America/Chicago" {
		t.Errorf("DefaultTimezone: expected to be kept, got %q", p.DefaultTimezone)
	}
}

func TestValidateRejectsMissingDataDir(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Data:   "/nonexistent/whenbot-data",
		Driver: "sqlite",
	}
	if err := p.Validate(); err == nil {
		t.Fatal("Validate(): expected error for missing data dir")
	}
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		mode     string
		expected bool
	}{
		{"prod", false},
		{"dev", true},
		{"demo", true},
	}
	for _, tt := range tests {
		p := &Profile{Mode: tt.mode}
		if p.IsDev() != tt.expected {
			t.Errorf("IsDev() with mode %q: expected %v", tt.mode, tt.expected)
		}
	}
}
