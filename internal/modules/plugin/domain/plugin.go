package domain

import (
	"errors"
	"fmt"
	"regexp"
)

type Capability string

const (
	CapabilityPreprocess Capability = "preprocess"
)

var (
	ErrPluginDisabled   = errors.New("plugin is disabled")
	ErrChecksumMismatch = errors.New("plugin checksum mismatch")
	ErrPluginTimeout    = errors.New("plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("plugin capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityPreprocess:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

type PreprocessRequest struct {
	SourcePath  string
	ContextJSON []byte
}

func (r PreprocessRequest) Validate() error {
	if r.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}
	if len(r.ContextJSON) == 0 {
		return fmt.Errorf("context is required")
	}
	return nil
}

// Patch holds top-level context keys a plugin wants to set.
type Patch map[string]any

// MergePatches applies patches in order; later plugins win on key collisions.
func MergePatches(patches ...Patch) Patch {
	out := Patch{}
	for _, p := range patches {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}
