package out

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	pluginrpc "suerga/internal/modules/plugin/adapter/out/rpc"
	"suerga/internal/modules/plugin/domain"
	pluginout "suerga/internal/modules/plugin/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second
)

type GRPCHost struct {
	callTimeout time.Duration
}

func NewGRPCHost() pluginout.Host {
	return &GRPCHost{callTimeout: defaultCallTimeout}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) Preprocess(ctx context.Context, manifest domain.Manifest, input domain.PreprocessRequest) (domain.Patch, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.Preprocess(callCtx, &pluginrpc.PreprocessRequest{
		SourcePath:  input.SourcePath,
		ContextJSON: string(input.ContextJSON),
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s", domain.ErrPluginTimeout, manifest.Name)
		}
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	patch := domain.Patch{}
	if response.PatchJSON == "" {
		return patch, nil
	}
	if err := json.Unmarshal([]byte(response.PatchJSON), &patch); err != nil {
		return nil, fmt.Errorf("decode plugin patch: %w", err)
	}
	return patch, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (pluginrpc.PreprocessorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          pluginrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(pluginrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(pluginrpc.PreprocessorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.callTimeout)
}
