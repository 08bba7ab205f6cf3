package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	pluginrpc "suerga/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"preprocess"},
	}, nil
}

// Preprocess adds a build_info section describing the context it was handed.
func (s *server) Preprocess(_ context.Context, in *pluginrpc.PreprocessRequest) (*pluginrpc.PreprocessResponse, error) {
	siteContext := map[string]any{}
	if err := json.Unmarshal([]byte(in.ContextJSON), &siteContext); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	keys := make([]string, 0, len(siteContext))
	for k := range siteContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	patch := map[string]any{
		"build_info": map[string]any{
			"plugin":       "reference",
			"source":       filepath.Base(in.SourcePath),
			"go_version":   runtime.Version(),
			"context_keys": len(keys),
			"sections":     keys,
		},
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	return &pluginrpc.PreprocessResponse{PatchJSON: string(raw)}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
