// Package catalogpb описывает gRPC сервис filmorate.v1.Catalog (catalog.proto).
// Сообщения сервиса это well-known types, поэтому отдельный *.pb.go не нужен.
package catalogpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "filmorate.v1.Catalog"

const (
	Catalog_GetFilm_FullMethodName    = "/filmorate.v1.Catalog/GetFilm"
	Catalog_FilmExists_FullMethodName = "/filmorate.v1.Catalog/FilmExists"
	Catalog_UserExists_FullMethodName = "/filmorate.v1.Catalog/UserExists"
)

// CatalogClient клиентская сторона сервиса Catalog.
type CatalogClient interface {
	GetFilm(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	FilmExists(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	UserExists(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type catalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) CatalogClient {
	return &catalogClient{cc}
}

func (c *catalogClient) GetFilm(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Catalog_GetFilm_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogClient) FilmExists(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, Catalog_FilmExists_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogClient) UserExists(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, Catalog_UserExists_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CatalogServer серверная сторона сервиса Catalog.
// Реализации должны встраивать UnimplementedCatalogServer.
type CatalogServer interface {
	GetFilm(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	FilmExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	UserExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	mustEmbedUnimplementedCatalogServer()
}

type UnimplementedCatalogServer struct{}

func (UnimplementedCatalogServer) GetFilm(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetFilm not implemented")
}

func (UnimplementedCatalogServer) FilmExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method FilmExists not implemented")
}

func (UnimplementedCatalogServer) UserExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UserExists not implemented")
}

func (UnimplementedCatalogServer) mustEmbedUnimplementedCatalogServer() {}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&Catalog_ServiceDesc, srv)
}

// unaryHandler собирает grpc.MethodHandler для метода с запросом Int64Value.
func unaryHandler(fullMethod string, call func(CatalogServer, context.Context, *wrapperspb.Int64Value) (interface{}, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.Int64Value)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CatalogServer), ctx, req.(*wrapperspb.Int64Value))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Catalog_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetFilm",
			Handler: unaryHandler(Catalog_GetFilm_FullMethodName, func(s CatalogServer, ctx context.Context, in *wrapperspb.Int64Value) (interface{}, error) {
				return s.GetFilm(ctx, in)
			}),
		},
		{
			MethodName: "FilmExists",
			Handler: unaryHandler(Catalog_FilmExists_FullMethodName, func(s CatalogServer, ctx context.Context, in *wrapperspb.Int64Value) (interface{}, error) {
				return s.FilmExists(ctx, in)
			}),
		},
		{
			MethodName: "UserExists",
			Handler: unaryHandler(Catalog_UserExists_FullMethodName, func(s CatalogServer, ctx context.Context, in *wrapperspb.Int64Value) (interface{}, error) {
				return s.UserExists(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/genproto/catalogpb/catalog.proto",
}
