package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root Use = %q, want %q", root.Use, appName)
	}

	want := []string{"build", "analyze", "export", "inspect", "validate", "serve", "cache", "completion"}
	registered := map[string]bool{}
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"dot", []string{"dot"}},
		{"json,dot,svg", []string{"json", "dot", "svg"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("default under home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("honors XDG_CACHE_HOME", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		output   string
		format   string
		multi    bool
		want     string
	}{
		{"derived from manifest", "pipeline.toml", "", "dot", false, "pipeline.dot"},
		{"summary gets txt", "pipeline.toml", "", "summary", false, "pipeline.txt"},
		{"explicit output", "pipeline.toml", "out.dot", "dot", false, "out.dot"},
		{"multi swaps extension", "pipeline.toml", "out.json", "dot", true, "out.dot"},
		{"never overwrites input", "graph.json", "", "json", false, "graph.out.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.manifest, tt.output, tt.format, tt.multi); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
