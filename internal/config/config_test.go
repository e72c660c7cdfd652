package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"PAGEBUILDER_DB_PATH", "PAGEBUILDER_TEMPLATES_DIR", "PAGEBUILDER_AUTOSAVE",
		"PAGEBUILDER_PUBLIC_BASE", "PAGEBUILDER_REVISION_LIMIT", "PORT", "CORS_ORIGIN",
		"PAGEBUILDER_MCP_AUTO_APPROVE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("PAGEBUILDER_DATA_DIR", "/tmp/pb")

	cfg := FromEnv()
	if cfg.DBPath != filepath.Join("/tmp/pb", "pagebuilder.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TemplatesDir != filepath.Join("/tmp/pb", "templates") {
		t.Errorf("TemplatesDir = %q", cfg.TemplatesDir)
	}
	if cfg.Autosave != "@every 30s" || cfg.PublicBase != "/h5" || cfg.Port != "8080" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.RevisionLimit != 20 || cfg.MCPAutoApprove {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PAGEBUILDER_DATA_DIR", "/srv/pb")
	t.Setenv("PAGEBUILDER_DB_PATH", "/var/db/pages.db")
	t.Setenv("PAGEBUILDER_AUTOSAVE", "")
	t.Setenv("PAGEBUILDER_REVISION_LIMIT", "7")
	t.Setenv("PAGEBUILDER_MCP_AUTO_APPROVE", "true")
	t.Setenv("PORT", "9000")

	cfg := FromEnv()
	if cfg.DBPath != "/var/db/pages.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Autosave != "" {
		t.Errorf("an empty autosave spec must stay empty to disable autosave, got %q", cfg.Autosave)
	}
	if cfg.RevisionLimit != 7 || !cfg.MCPAutoApprove || cfg.Port != "9000" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestFromEnv_BadNumbersFallBack(t *testing.T) {
	tests := []string{"abc", "-3", "0"}
	for _, v := range tests {
		t.Setenv("PAGEBUILDER_REVISION_LIMIT", v)
		if got := FromEnv().RevisionLimit; got != 20 {
			t.Errorf("limit %q: got %d, want 20", v, got)
		}
	}
	t.Setenv("PAGEBUILDER_MCP_AUTO_APPROVE", "maybe")
	if FromEnv().MCPAutoApprove {
		t.Error("unparsable bool must fall back to false")
	}
}

func TestWithDataDir(t *testing.T) {
	t.Setenv("PAGEBUILDER_DB_PATH", "")
	os.Unsetenv("PAGEBUILDER_DB_PATH")
	t.Setenv("PAGEBUILDER_TEMPLATES_DIR", "/opt/templates")

	cfg := WithDataDir(FromEnv(), "/data")
	if cfg.DBPath != filepath.Join("/data", "pagebuilder.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.TemplatesDir != "/opt/templates" {
		t.Errorf("explicit templates dir must survive, got %q", cfg.TemplatesDir)
	}
}
