package dto

import "time"

type ServeInput struct {
	SourcePath string
	TargetPath string
	BaseURL    string
	Addr       string
	Watch      bool
	Debounce   time.Duration
}
