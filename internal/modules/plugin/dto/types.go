package dto

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type PreprocessInput struct {
	SourcePath  string
	ContextJSON []byte
}

type PreprocessOutput struct {
	Patch   map[string]any
	Applied []string
}
