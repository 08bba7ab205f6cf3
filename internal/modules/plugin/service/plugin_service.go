package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"suerga/internal/modules/plugin/domain"
	"suerga/internal/modules/plugin/dto"
	pluginout "suerga/internal/modules/plugin/port/out"
)

type PluginService struct {
	store pluginout.ManifestStore
	host  pluginout.Host
}

func NewPluginService(store pluginout.ManifestStore, host pluginout.Host) *PluginService {
	return &PluginService{store: store, host: host}
}

func (s *PluginService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *PluginService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK {
			switch {
			case !m.Enabled:
				result.Error = domain.ErrPluginDisabled.Error()
			case s.host != nil:
				if err := s.host.CheckLifecycle(ctx, m); err != nil {
					result.Error = err.Error()
				} else {
					result.LifecycleOK = true
				}
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Preprocess runs every enabled preprocess plugin in manifest order and merges their patches.
func (s *PluginService) Preprocess(ctx context.Context, input dto.PreprocessInput) (dto.PreprocessOutput, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return dto.PreprocessOutput{}, err
	}
	req := domain.PreprocessRequest{SourcePath: input.SourcePath, ContextJSON: input.ContextJSON}
	out := dto.PreprocessOutput{Patch: map[string]any{}}
	if len(manifests) == 0 {
		return out, nil
	}
	if err := req.Validate(); err != nil {
		return dto.PreprocessOutput{}, err
	}

	patches := make([]domain.Patch, 0, len(manifests))
	for _, manifest := range manifests {
		if !manifest.Enabled || !manifest.HasCapability(domain.CapabilityPreprocess) {
			continue
		}
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			return dto.PreprocessOutput{}, err
		}
		if s.host == nil {
			return dto.PreprocessOutput{}, fmt.Errorf("no plugin host configured for %s", manifest.Name)
		}
		patch, err := s.host.Preprocess(ctx, manifest, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return dto.PreprocessOutput{}, fmt.Errorf("%w: %s", domain.ErrPluginTimeout, manifest.Name)
			}
			return dto.PreprocessOutput{}, fmt.Errorf("plugin %s: %w", manifest.Name, err)
		}
		patches = append(patches, patch)
		out.Applied = append(out.Applied, manifest.Name)
	}
	out.Patch = domain.MergePatches(patches...)
	return out, nil
}

func (s *PluginService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
