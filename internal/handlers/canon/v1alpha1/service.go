package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "spellcanon.v1alpha1.CanonService"

// Full method names
const (
	CanonServiceAssembleFullMethodName     = "/" + ServiceName + "/Assemble"
	CanonServiceFieldTextFullMethodName    = "/" + ServiceName + "/FieldText"
	CanonServiceImportSpellsFullMethodName = "/" + ServiceName + "/ImportSpells"
)

// CanonServiceServer is the server API for the canon service. Messages are
// structpb.Struct values; see Handler for the keys each method reads.
type CanonServiceServer interface {
	Assemble(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FieldText(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportSpells(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCanonServiceServer registers srv with the gRPC server
func RegisterCanonServiceServer(s grpc.ServiceRegistrar, srv CanonServiceServer) {
	s.RegisterService(&CanonServiceDesc, srv)
}

type unaryMethod func(CanonServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CanonServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CanonServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CanonServiceDesc is the grpc.ServiceDesc for the canon service
var CanonServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CanonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Assemble",
			Handler:    unaryHandler(CanonServiceAssembleFullMethodName, CanonServiceServer.Assemble),
		},
		{
			MethodName: "FieldText",
			Handler:    unaryHandler(CanonServiceFieldTextFullMethodName, CanonServiceServer.FieldText),
		},
		{
			MethodName: "ImportSpells",
			Handler:    unaryHandler(CanonServiceImportSpellsFullMethodName, CanonServiceServer.ImportSpells),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spellcanon/v1alpha1/canon.proto",
}

// CanonServiceClient is the client API for the canon service. Failed calls
// return an *errors.Error rebuilt from the status, so callers can use the
// errors.Is* helpers and errors.GetMeta on the result.
type CanonServiceClient interface {
	Assemble(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	FieldText(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ImportSpells(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type canonServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCanonServiceClient creates a client for the canon service
func NewCanonServiceClient(cc grpc.ClientConnInterface) CanonServiceClient {
	return &canonServiceClient{cc: cc}
}

func (c *canonServiceClient) invoke(
	ctx context.Context,
	method string,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, errors.FromGRPCError(err)
	}
	return out, nil
}

func (c *canonServiceClient) Assemble(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CanonServiceAssembleFullMethodName, in, opts...)
}

func (c *canonServiceClient) FieldText(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CanonServiceFieldTextFullMethodName, in, opts...)
}

func (c *canonServiceClient) ImportSpells(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CanonServiceImportSpellsFullMethodName, in, opts...)
}
