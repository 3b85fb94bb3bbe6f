package chatpb

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// SyncServiceClient is the client API for replica catch-up. Reserved: the
// core never calls it.
type SyncServiceClient interface {
	SyncState(ctx context.Context, in *SyncRequest, opts ...grpc.CallOption) (*SyncResponse, error)
}

type syncServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSyncServiceClient creates a new gRPC client for the sync service.
func NewSyncServiceClient(cc grpc.ClientConnInterface) SyncServiceClient {
	return &syncServiceClient{cc: cc}
}

func (c *syncServiceClient) SyncState(ctx context.Context, in *SyncRequest, opts ...grpc.CallOption) (*SyncResponse, error) {
	out := new(SyncResponse)
	err := c.cc.Invoke(ctx, "/chat.SyncService/SyncState", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SyncServiceServer defines the server API for the sync service.
type SyncServiceServer interface {
	SyncState(context.Context, *SyncRequest) (*SyncResponse, error)
}

// UnimplementedSyncServiceServer can be embedded to have forward compatible implementations.
type UnimplementedSyncServiceServer struct{}

// SyncState is a stub implementation.
func (UnimplementedSyncServiceServer) SyncState(context.Context, *SyncRequest) (*SyncResponse, error) {
	return nil, fmt.Errorf("method SyncState not implemented")
}

// RegisterSyncServiceServer registers the service implementation with a gRPC server.
func RegisterSyncServiceServer(s *grpc.Server, srv SyncServiceServer) {
	s.RegisterService(&_SyncService_serviceDesc, srv)
}

func _SyncService_SyncState_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServiceServer).SyncState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/chat.SyncService/SyncState",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SyncServiceServer).SyncState(ctx, req.(*SyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _SyncService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "chat.SyncService",
	HandlerType: (*SyncServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SyncState",
			Handler:    _SyncService_SyncState_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/chatpb/sync_service.go",
}
