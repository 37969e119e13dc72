// Package proto describes the admin RPC service shared by the server and
// santactl. Payloads travel as google.protobuf.Struct values holding the
// JSON form of the DTOs in dto.go, so no generated code is needed.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const AdminServiceName = "secretsanta.admin.AdminService"

const (
	AdminService_Ping_FullMethodName             = "/" + AdminServiceName + "/Ping"
	AdminService_InitUsers_FullMethodName        = "/" + AdminServiceName + "/InitUsers"
	AdminService_Shuffle_FullMethodName          = "/" + AdminServiceName + "/Shuffle"
	AdminService_ListUsers_FullMethodName        = "/" + AdminServiceName + "/ListUsers"
	AdminService_ClearAssignments_FullMethodName = "/" + AdminServiceName + "/ClearAssignments"
	AdminService_ClearMessages_FullMethodName    = "/" + AdminServiceName + "/ClearMessages"
	AdminService_ListArchives_FullMethodName     = "/" + AdminServiceName + "/ListArchives"
)

// AdminServiceClient is the client API for the admin service.
type AdminServiceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	InitUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Shuffle(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ClearAssignments(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ClearMessages(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListArchives(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc}
}

func (c *adminServiceClient) invoke(ctx context.Context, method string, in any, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_Ping_FullMethodName, in, opts)
}

func (c *adminServiceClient) InitUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_InitUsers_FullMethodName, in, opts)
}

func (c *adminServiceClient) Shuffle(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_Shuffle_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_ListUsers_FullMethodName, in, opts)
}

func (c *adminServiceClient) ClearAssignments(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_ClearAssignments_FullMethodName, in, opts)
}

func (c *adminServiceClient) ClearMessages(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_ClearMessages_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListArchives(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AdminService_ListArchives_FullMethodName, in, opts)
}

// AdminServiceServer is the server API for the admin service.
type AdminServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	InitUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Shuffle(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListUsers(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ClearAssignments(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ClearMessages(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListArchives(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedAdminServiceServer answers Unimplemented to every call.
// Embed it to stay forward compatible.
type UnimplementedAdminServiceServer struct{}

func (UnimplementedAdminServiceServer) Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedAdminServiceServer) InitUsers(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method InitUsers not implemented")
}
func (UnimplementedAdminServiceServer) Shuffle(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Shuffle not implemented")
}
func (UnimplementedAdminServiceServer) ListUsers(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedAdminServiceServer) ClearAssignments(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearAssignments not implemented")
}
func (UnimplementedAdminServiceServer) ClearMessages(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearMessages not implemented")
}
func (UnimplementedAdminServiceServer) ListArchives(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListArchives not implemented")
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

// unaryHandler builds the grpc.MethodHandler for one method: decode the
// request, then call the server directly or through the interceptor chain.
func unaryHandler[Req any](fullMethod string, call func(AdminServiceServer, context.Context, *Req) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AdminServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AdminServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(AdminService_Ping_FullMethodName, AdminServiceServer.Ping)},
		{MethodName: "InitUsers", Handler: unaryHandler(AdminService_InitUsers_FullMethodName, AdminServiceServer.InitUsers)},
		{MethodName: "Shuffle", Handler: unaryHandler(AdminService_Shuffle_FullMethodName, AdminServiceServer.Shuffle)},
		{MethodName: "ListUsers", Handler: unaryHandler(AdminService_ListUsers_FullMethodName, AdminServiceServer.ListUsers)},
		{MethodName: "ClearAssignments", Handler: unaryHandler(AdminService_ClearAssignments_FullMethodName, AdminServiceServer.ClearAssignments)},
		{MethodName: "ClearMessages", Handler: unaryHandler(AdminService_ClearMessages_FullMethodName, AdminServiceServer.ClearMessages)},
		{MethodName: "ListArchives", Handler: unaryHandler(AdminService_ListArchives_FullMethodName, AdminServiceServer.ListArchives)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "secretsanta/admin.proto",
}
