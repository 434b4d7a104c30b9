package compose

import (
	"os"
	"path/filepath"
	"testing"

	"reportmailer/core"
)

func TestLoadProfile_Empty(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile(\"\") failed: %v", err)
	}
	if p != DefaultProfile() {
		t.Errorf("LoadProfile(\"\") = %+v, want defaults", p)
	}
}

func TestLoadProfile_File(t *testing.T) {
	t.Setenv("AGENCY_NAME", "Studio Nord")

	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "project: \"RIVA 1920\"\nsignature: \"${AGENCY_NAME}\"\nclosing: \"Resto a disposizione.\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Project != "RIVA 1920" {
		t.Errorf("Project = %q", p.Project)
	}
	if p.Signature != "Studio Nord" {
		t.Errorf("Signature = %q, want expanded env var", p.Signature)
	}
	if p.Closing != "Resto a disposizione." {
		t.Errorf("Closing = %q", p.Closing)
	}
	if p.Greeting != DefaultProfile().Greeting {
		t.Errorf("Greeting = %q, want default", p.Greeting)
	}
}

func TestLoadProfile_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("project: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), bad} {
		_, err := LoadProfile(path)
		if _, ok := core.IsConfigError(err); !ok {
			t.Errorf("LoadProfile(%s) error = %v, want ConfigError", path, err)
		}
	}
}

func TestAgencyProfile_ProjectFor(t *testing.T) {
	if got := (AgencyProfile{}).ProjectFor("Acme"); got != "Acme" {
		t.Errorf("ProjectFor = %q, want client name", got)
	}
	if got := (AgencyProfile{Project: "Acme Shop"}).ProjectFor("Acme"); got != "Acme Shop" {
		t.Errorf("ProjectFor = %q, want profile project", got)
	}
}
