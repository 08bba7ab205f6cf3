package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pluginout "suerga/internal/modules/plugin/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := pluginout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	stateDir := filepath.Join(base, ".suerga")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir state dir: %v", err)
	}
	raw := `[
  {
    "name": "reference",
    "version": "1.0.0",
    "binary": "bin/reference-plugin",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["preprocess"]
  }
]`
	if err := os.WriteFile(filepath.Join(stateDir, "plugins.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	manifests, err := pluginout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if want := filepath.Join(base, "bin", "reference-plugin"); manifests[0].Binary != want {
		t.Fatalf("expected binary %s, got %s", want, manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	stateDir := filepath.Join(base, ".suerga")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir state dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, "plugins.json"), []byte(`[{"name":"x","surprise":true}]`), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	if _, err := pluginout.NewFileManifestStore(base).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error for unknown field")
	}
}
