package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "preprocessor"
	serviceName       = "suerga.plugin.v1.Preprocessor"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodPreprocess  = "/" + serviceName + "/Preprocess"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SUERGA_PLUGIN",
	MagicCookieValue: "suerga",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// PreprocessRequest carries the site context serialized as a JSON object.
type PreprocessRequest struct {
	SourcePath  string `json:"source_path"`
	ContextJSON string `json:"context_json"`
}

// PreprocessResponse carries the top-level keys to merge into the context.
type PreprocessResponse struct {
	PatchJSON string `json:"patch_json"`
}

type PreprocessorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Preprocess(ctx context.Context, in *PreprocessRequest) (*PreprocessResponse, error)
}

type PreprocessorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Preprocess(ctx context.Context, in *PreprocessRequest) (*PreprocessResponse, error)
}

type preprocessorClient struct {
	conn *grpc.ClientConn
}

func NewPreprocessorClient(conn *grpc.ClientConn) PreprocessorClient {
	return &preprocessorClient{conn: conn}
}

func (c *preprocessorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *preprocessorClient) Preprocess(ctx context.Context, in *PreprocessRequest) (*PreprocessResponse, error) {
	out := &PreprocessResponse{}
	if err := c.conn.Invoke(ctx, methodPreprocess, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterPreprocessorServer(server grpc.ServiceRegistrar, impl PreprocessorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*PreprocessorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Preprocess",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &PreprocessRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Preprocess(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPreprocess}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*PreprocessRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Preprocess(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "suerga/plugin/v1/preprocessor",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl PreprocessorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterPreprocessorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewPreprocessorClient(conn), nil
}

func PluginMap(impl PreprocessorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
