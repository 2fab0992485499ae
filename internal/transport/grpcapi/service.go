package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tokenpricing.v1.Pricing"

// PricingServer is implemented by Server. Messages are google.protobuf.Struct
// carrying the same JSON shapes as the HTTP API.
type PricingServer interface {
	QuoteCourse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QuoteCoach(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QuoteTopUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPackages(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(PricingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PricingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PricingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "QuoteCourse",
			Handler: unaryHandler("QuoteCourse", func(s PricingServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.QuoteCourse(ctx, in)
			}),
		},
		{
			MethodName: "QuoteCoach",
			Handler: unaryHandler("QuoteCoach", func(s PricingServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.QuoteCoach(ctx, in)
			}),
		},
		{
			MethodName: "QuoteTopUp",
			Handler: unaryHandler("QuoteTopUp", func(s PricingServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.QuoteTopUp(ctx, in)
			}),
		},
		{
			MethodName: "ListPackages",
			Handler: unaryHandler("ListPackages", func(s PricingServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ListPackages(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tokenpricing/v1/pricing.proto",
}

// Register adds srv to gs.
func Register(gs grpc.ServiceRegistrar, srv PricingServer) {
	gs.RegisterService(&ServiceDesc, srv)
}

// Client calls a remote Pricing service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) QuoteCourse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "QuoteCourse", in, opts...)
}

func (c *Client) QuoteCoach(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "QuoteCoach", in, opts...)
}

func (c *Client) QuoteTopUp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "QuoteTopUp", in, opts...)
}

func (c *Client) ListPackages(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListPackages", in, opts...)
}
