package out

import (
	"context"
	"slices"

	plugindto "suerga/internal/modules/plugin/dto"
	pluginin "suerga/internal/modules/plugin/port/in"
	siteout "suerga/internal/modules/site/port/out"
)

const preprocessCapability = "preprocess"

// PluginPreprocessor runs the registered preprocess plugins of a site source.
type PluginPreprocessor struct {
	plugins    pluginin.Usecase
	sourcePath string
}

func NewPluginPreprocessor(plugins pluginin.Usecase, sourcePath string) siteout.ExternalPreprocessor {
	return &PluginPreprocessor{plugins: plugins, sourcePath: sourcePath}
}

// Active is true when at least one enabled plugin declares the preprocess capability.
func (p *PluginPreprocessor) Active(ctx context.Context) (bool, error) {
	plugins, err := p.plugins.List(ctx)
	if err != nil {
		return false, err
	}
	for _, info := range plugins {
		if info.Enabled && slices.Contains(info.Capabilities, preprocessCapability) {
			return true, nil
		}
	}
	return false, nil
}

func (p *PluginPreprocessor) Preprocess(ctx context.Context, contextJSON []byte) (map[string]any, error) {
	out, err := p.plugins.Preprocess(ctx, plugindto.PreprocessInput{SourcePath: p.sourcePath, ContextJSON: contextJSON})
	if err != nil {
		return nil, err
	}
	return out.Patch, nil
}
