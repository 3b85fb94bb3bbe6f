package chatpb

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// ElectionServiceClient is the client API for the peer election service.
type ElectionServiceClient interface {
	Election(ctx context.Context, in *ElectionRequest, opts ...grpc.CallOption) (*ElectionResponse, error)
	Coordinator(ctx context.Context, in *CoordinatorRequest, opts ...grpc.CallOption) (*CoordinatorResponse, error)
	Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error)
}

type electionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewElectionServiceClient creates a new gRPC client for the election service.
func NewElectionServiceClient(cc grpc.ClientConnInterface) ElectionServiceClient {
	return &electionServiceClient{cc: cc}
}

func (c *electionServiceClient) Election(ctx context.Context, in *ElectionRequest, opts ...grpc.CallOption) (*ElectionResponse, error) {
	out := new(ElectionResponse)
	err := c.cc.Invoke(ctx, "/chat.ElectionService/Election", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *electionServiceClient) Coordinator(ctx context.Context, in *CoordinatorRequest, opts ...grpc.CallOption) (*CoordinatorResponse, error) {
	out := new(CoordinatorResponse)
	err := c.cc.Invoke(ctx, "/chat.ElectionService/Coordinator", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *electionServiceClient) Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error) {
	out := new(HeartbeatResponse)
	err := c.cc.Invoke(ctx, "/chat.ElectionService/Heartbeat", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ElectionServiceServer defines the server API for the election service.
type ElectionServiceServer interface {
	Election(context.Context, *ElectionRequest) (*ElectionResponse, error)
	Coordinator(context.Context, *CoordinatorRequest) (*CoordinatorResponse, error)
	Heartbeat(context.Context, *HeartbeatRequest) (*HeartbeatResponse, error)
}

// UnimplementedElectionServiceServer can be embedded to have forward compatible implementations.
type UnimplementedElectionServiceServer struct{}

// Election is a stub implementation.
func (UnimplementedElectionServiceServer) Election(context.Context, *ElectionRequest) (*ElectionResponse, error) {
	return nil, fmt.Errorf("method Election not implemented")
}

// Coordinator is a stub implementation.
func (UnimplementedElectionServiceServer) Coordinator(context.Context, *CoordinatorRequest) (*CoordinatorResponse, error) {
	return nil, fmt.Errorf("method Coordinator not implemented")
}

// Heartbeat is a stub implementation.
func (UnimplementedElectionServiceServer) Heartbeat(context.Context, *HeartbeatRequest) (*HeartbeatResponse, error) {
	return nil, fmt.Errorf("method Heartbeat not implemented")
}

// RegisterElectionServiceServer registers the service implementation with a gRPC server.
func RegisterElectionServiceServer(s *grpc.Server, srv ElectionServiceServer) {
	s.RegisterService(&_ElectionService_serviceDesc, srv)
}

func _ElectionService_Election_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ElectionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ElectionServiceServer).Election(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/chat.ElectionService/Election",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ElectionServiceServer).Election(ctx, req.(*ElectionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ElectionService_Coordinator_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CoordinatorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ElectionServiceServer).Coordinator(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/chat.ElectionService/Coordinator",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ElectionServiceServer).Coordinator(ctx, req.(*CoordinatorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ElectionService_Heartbeat_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HeartbeatRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ElectionServiceServer).Heartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/chat.ElectionService/Heartbeat",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ElectionServiceServer).Heartbeat(ctx, req.(*HeartbeatRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _ElectionService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "chat.ElectionService",
	HandlerType: (*ElectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Election",
			Handler:    _ElectionService_Election_Handler,
		},
		{
			MethodName: "Coordinator",
			Handler:    _ElectionService_Coordinator_Handler,
		},
		{
			MethodName: "Heartbeat",
			Handler:    _ElectionService_Heartbeat_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/chatpb/election_service.go",
}
