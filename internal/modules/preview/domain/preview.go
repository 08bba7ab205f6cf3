package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const stateDir = ".suerga"

// MountPath extracts the URL path a site is served under from its base URL.
// The result is either empty (serve at the root) or starts with "/" and has no trailing slash.
func MountPath(baseURL string) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	p := strings.TrimRight(path.Clean("/"+u.Path), "/")
	return p, nil
}

// ShouldRebuild filters watcher noise: the state dir, the build output and editor scratch files.
func ShouldRebuild(rel, targetRel string) bool {
	rel = strings.TrimPrefix(rel, "./")
	if rel == "" || rel == "." {
		return false
	}
	if rel == stateDir || strings.HasPrefix(rel, stateDir+"/") {
		return false
	}
	if targetRel != "" && (rel == targetRel || strings.HasPrefix(rel, targetRel+"/")) {
		return false
	}
	base := path.Base(rel)
	switch {
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, ".#"),
		base == "4913":
		return false
	}
	return true
}

type BuildSummary struct {
	Files   int
	Changed int
}
