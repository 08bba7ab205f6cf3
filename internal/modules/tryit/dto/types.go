package dto

type ScaffoldInput struct {
	SourcePath string
	Repo       string
	Branch     string
	Force      bool
}

type ScaffoldOutput struct {
	Path string
	Repo string
}

type CheckInput struct {
	TargetPath string
	Page       string
	BaseURL    string
	Repo       string
}

type CheckResult struct {
	Name    string
	OK      bool
	Details string
}

type CheckOutput struct {
	Page   string
	OK     bool
	Checks []CheckResult
}
