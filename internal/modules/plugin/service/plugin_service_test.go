package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pluginout "suerga/internal/modules/plugin/adapter/out"
	"suerga/internal/modules/plugin/domain"
	"suerga/internal/modules/plugin/dto"
	"suerga/internal/modules/plugin/service"
)

type fakeHost struct {
	patches map[string]domain.Patch
	calls   []string
}

func (f *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }

func (f *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Capabilities: m.Capabilities}, nil
}

func (f *fakeHost) Preprocess(_ context.Context, m domain.Manifest, req domain.PreprocessRequest) (domain.Patch, error) {
	f.calls = append(f.calls, m.Name)
	if !json.Valid(req.ContextJSON) {
		return nil, errors.New("invalid context json")
	}
	return f.patches[m.Name], nil
}

func writeManifests(t *testing.T, manifests []domain.Manifest) string {
	t.Helper()
	source := t.TempDir()
	stateDir := filepath.Join(source, ".suerga")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatalf("mkdir state dir: %v", err)
	}
	raw, _ := json.Marshal(manifests)
	if err := os.WriteFile(filepath.Join(stateDir, "plugins.json"), raw, 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	return source
}

func fakeBinary(t *testing.T, dir, name, content string) (string, string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write plugin binary: %v", err)
	}
	sum := sha256.Sum256([]byte(content))
	return path, hex.EncodeToString(sum[:])
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	binDir := t.TempDir()
	binPath, _ := fakeBinary(t, binDir, "dummy-plugin", "not-a-real-plugin")
	source := writeManifests(t, []domain.Manifest{{
		Name:         "demo",
		Version:      "1.0.0",
		Binary:       binPath,
		SHA256:       strings.Repeat("0", 64),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityPreprocess},
	}})

	svc := service.NewPluginService(pluginout.NewFileManifestStore(source), nil)
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].ChecksumValid || results[0].Error != "checksum mismatch" {
		t.Fatalf("expected checksum mismatch, got %+v", results[0])
	}
}

func TestPreprocessMergesEnabledPluginsInOrder(t *testing.T) {
	t.Parallel()
	binDir := t.TempDir()
	firstBin, firstSum := fakeBinary(t, binDir, "first", "first-binary")
	secondBin, secondSum := fakeBinary(t, binDir, "second", "second-binary")
	offBin, offSum := fakeBinary(t, binDir, "off", "off-binary")
	caps := []domain.Capability{domain.CapabilityPreprocess}
	source := writeManifests(t, []domain.Manifest{
		{Name: "first", Version: "1", Binary: firstBin, SHA256: firstSum, Enabled: true, Capabilities: caps},
		{Name: "off", Version: "1", Binary: offBin, SHA256: offSum, Enabled: false, Capabilities: caps},
		{Name: "second", Version: "1", Binary: secondBin, SHA256: secondSum, Enabled: true, Capabilities: caps},
	})
	host := &fakeHost{patches: map[string]domain.Patch{
		"first":  {"banner": "first", "only_first": 1},
		"second": {"banner": "second"},
	}}

	svc := service.NewPluginService(pluginout.NewFileManifestStore(source), host)
	out, err := svc.Preprocess(context.Background(), dto.PreprocessInput{SourcePath: source, ContextJSON: []byte(`{"base_url":""}`)})
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if strings.Join(out.Applied, ",") != "first,second" {
		t.Fatalf("unexpected applied plugins %v", out.Applied)
	}
	if out.Patch["banner"] != "second" || out.Patch["only_first"] != 1 {
		t.Fatalf("unexpected merged patch %v", out.Patch)
	}
	if strings.Join(host.calls, ",") != "first,second" {
		t.Fatalf("disabled plugin must not be called: %v", host.calls)
	}
}

func TestPreprocessWithoutManifestsIsNoop(t *testing.T) {
	t.Parallel()
	svc := service.NewPluginService(pluginout.NewFileManifestStore(t.TempDir()), nil)
	out, err := svc.Preprocess(context.Background(), dto.PreprocessInput{})
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if len(out.Patch) != 0 || len(out.Applied) != 0 {
		t.Fatalf("expected empty output, got %+v", out)
	}
}

func TestPreprocessRejectsTamperedBinary(t *testing.T) {
	t.Parallel()
	binPath, sum := fakeBinary(t, t.TempDir(), "p", "original")
	source := writeManifests(t, []domain.Manifest{{Name: "p", Version: "1", Binary: binPath, SHA256: sum, Enabled: true, Capabilities: []domain.Capability{domain.CapabilityPreprocess}}})
	if err := os.WriteFile(binPath, []byte("tampered"), 0o755); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	svc := service.NewPluginService(pluginout.NewFileManifestStore(source), &fakeHost{})
	_, err := svc.Preprocess(context.Background(), dto.PreprocessInput{SourcePath: source, ContextJSON: []byte(`{}`)})
	if !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func TestDoctorReportsDisabledPluginWithoutLifecycle(t *testing.T) {
	t.Parallel()
	binDir := t.TempDir()
	binPath, sum := fakeBinary(t, binDir, "off-plugin", "off")
	source := writeManifests(t, []domain.Manifest{{
		Name: "off", Version: "1", Binary: binPath, SHA256: sum,
		Capabilities: []domain.Capability{domain.CapabilityPreprocess},
	}})
	svc := service.NewPluginService(pluginout.NewFileManifestStore(source), &fakeHost{})

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	got := results[0]
	if !got.BinaryReachable || !got.ChecksumValid || got.LifecycleOK {
		t.Fatalf("unexpected doctor result %+v", got)
	}
	if got.Error != domain.ErrPluginDisabled.Error() {
		t.Fatalf("error = %q, want %q", got.Error, domain.ErrPluginDisabled.Error())
	}
}
