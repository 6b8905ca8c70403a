package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestDecodeFillsDefaults(t *testing.T) {
	cfg, err := decode([]byte("log_level: debug\nmodule_paths: [lib, /opt/vx]\n"), yaml.Unmarshal)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		LogLevel:      "debug",
		MaxCallDepth:  DefaultMaxCallDepth,
		ModulePaths:   []string{"lib", "/opt/vx"},
		Extension:     DefaultExtension,
		HistoryFile:   cfg.HistoryFile,
		JoinedResults: DefaultJoinedResults,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"vx.yaml": "max_call_depth: 50\nextension: .vxs\n",
		"vx.json": `{"max_call_depth": 50, "extension": ".vxs"}`,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if cfg.MaxCallDepth != 50 || cfg.Extension != ".vxs" || cfg.LogLevel != DefaultLogLevel {
			t.Errorf("%s: got %+v", name, cfg)
		}
	}
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"level.yaml", "log_level: loud\n", "unknown log_level"},
		{"depth.yaml", "max_call_depth: -1\n", "max_call_depth"},
		{"ext.yaml", "extension: vx\n", "extension"},
		{"broken.yaml", "log_level: [\n", "broken.yaml"},
		{"conf.toml", "", "unsupported config format"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%s: error %v, want mention of %q", tt.name, err, tt.msg)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}
