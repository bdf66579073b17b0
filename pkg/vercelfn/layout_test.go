package vercelfn

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// moduleRoot is where vercel.json and the api/ function tree live
const moduleRoot = "../.."

type vercelConfig struct {
	Rewrites []struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
	} `json:"rewrites"`
}

func TestFunctionFilesAreBuildable(t *testing.T) {
	err := filepath.WalkDir(filepath.Join(moduleRoot, "api"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.ContainsAny(d.Name(), "[]") {
			t.Errorf("%s: the go tool rejects this file name", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk api: %v", err)
	}
}

func TestRewritesReachActionFunctions(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(moduleRoot, "vercel.json"))
	if err != nil {
		t.Fatalf("failed to read vercel.json: %v", err)
	}

	var cfg vercelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("vercel.json is not valid JSON: %v", err)
	}
	if len(cfg.Rewrites) == 0 {
		t.Fatal("expected rewrites for the action functions")
	}

	for _, rw := range cfg.Rewrites {
		dest, query, _ := strings.Cut(rw.Destination, "?")
		if query != "action=:action" {
			t.Errorf("%s: destination must pass the action parameter, got %q", rw.Source, rw.Destination)
		}
		if rw.Source != dest+"/:action" {
			t.Errorf("%s: source and destination disagree (%s)", rw.Source, dest)
		}

		entry := filepath.Join(moduleRoot, filepath.FromSlash(strings.TrimPrefix(dest, "/")), "index.go")
		if _, err := os.Stat(entry); err != nil {
			t.Errorf("%s: no function at %s", rw.Source, entry)
		}
	}
}
