package dto

import "time"

type BuildInput struct {
	SourcePath string
	TargetPath string
	BaseURL    string
}

type BuildOutput struct {
	BuildID   string
	Files     int
	Pages     int
	Assets    int
	Skipped   []string
	Changed   []string
	Unchanged int
	Removed   []string
}

type IndexEntry struct {
	Path    string
	Source  string
	Kind    string
	SHA256  string
	Size    int64
	BuildID string
	BuiltAt time.Time
}
