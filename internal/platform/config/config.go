package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	SiteConfigName = "pysuerga.yml"
	StateDirName   = ".suerga"
)

type Config struct {
	SourcePath    string
	TargetPath    string
	BaseURL       string
	SiteConfig    string
	StateDir      string
	DBPath        string
	GitHubToken   string
	GitHubAPI     string
	HTTPTimeout   time.Duration
	WatchDebounce time.Duration
}

func New(sourcePath, targetPath, baseURL string) (Config, error) {
	if sourcePath == "" {
		return Config{}, fmt.Errorf("source path is required")
	}
	if targetPath == "" {
		targetPath = "build"
	}
	stateDir := filepath.Join(sourcePath, StateDirName)
	return Config{
		SourcePath:    sourcePath,
		TargetPath:    targetPath,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SiteConfig:    filepath.Join(sourcePath, SiteConfigName),
		StateDir:      stateDir,
		DBPath:        filepath.Join(stateDir, "suerga.db"),
		GitHubToken:   githubToken(),
		GitHubAPI:     "https://api.github.com",
		HTTPTimeout:   15 * time.Second,
		WatchDebounce: 300 * time.Millisecond,
	}, nil
}

func githubToken() string {
	for _, key := range []string{"SUERGA_GITHUB_TOKEN", "GITHUB_TOKEN"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
