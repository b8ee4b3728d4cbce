package api

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/victornm/compass/internal/errors"
)

// ResultServiceName is the gRPC service serving results. Messages are
// google.protobuf.Struct documents shaped like the HTTP JSON bodies.
const ResultServiceName = "compass.v1.ResultService"

type ResultServiceServer interface {
	Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Fetch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RecomputeAll(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterResultServiceServer(s grpc.ServiceRegistrar, srv ResultServiceServer) {
	s.RegisterService(&resultServiceDesc, srv)
}

var resultServiceDesc = grpc.ServiceDesc{
	ServiceName: ResultServiceName,
	HandlerType: (*ResultServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: unaryHandler("Submit", ResultServiceServer.Submit)},
		{MethodName: "Fetch", Handler: unaryHandler("Fetch", ResultServiceServer.Fetch)},
		{MethodName: "List", Handler: unaryHandler("List", ResultServiceServer.List)},
		{MethodName: "RecomputeAll", Handler: unaryHandler("RecomputeAll", ResultServiceServer.RecomputeAll)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "compass/v1/result.proto",
}

type unaryMethod func(srv ResultServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(ResultServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ResultServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", ResultServiceName, method)
}

func (a *API) Submit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	owner, err := a.auth.Owner(firstMetadata(ctx, "authorization"))
	if err != nil {
		return nil, errors.Convert(err)
	}

	var req submitRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}

	resp, err := a.submit(ctx, owner, req)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return encodeStruct(resp)
}

func (a *API) Fetch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req fetchRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}

	resp, err := a.fetch(ctx, req)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return encodeStruct(resp)
}

func (a *API) List(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req listRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}

	resp, err := a.list(ctx, req)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return encodeStruct(resp)
}

func (a *API) RecomputeAll(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := a.checkAdmin(firstMetadata(ctx, "x-admin-token")); err != nil {
		return nil, err
	}

	resp, err := a.recompute(ctx)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return encodeStruct(resp)
}

func firstMetadata(ctx context.Context, key string) string {
	if v := metadata.ValueFromIncomingContext(ctx, key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func decodeStruct(in *structpb.Struct, v any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return errors.Validation(err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Validation(err)
	}
	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Internal(err)
	}

	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, errors.Internal(err)
	}
	return out, nil
}

// ResultServiceClient calls a ResultService over a gRPC connection.
type ResultServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResultServiceClient(cc grpc.ClientConnInterface) *ResultServiceClient {
	return &ResultServiceClient{cc: cc}
}

func (c *ResultServiceClient) Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Submit", in, opts...)
}

func (c *ResultServiceClient) Fetch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Fetch", in, opts...)
}

func (c *ResultServiceClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "List", in, opts...)
}

func (c *ResultServiceClient) RecomputeAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "RecomputeAll", in, opts...)
}

func (c *ResultServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
