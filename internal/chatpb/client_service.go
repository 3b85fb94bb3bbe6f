package chatpb

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// ClientServiceClient is the client API for the client-facing chat service.
type ClientServiceClient interface {
	GetLeader(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*LeaderInfo, error)
	SubscribeToServerEvents(ctx context.Context, in *Empty, opts ...grpc.CallOption) (ClientService_SubscribeToServerEventsClient, error)
	SendMessageToServer(ctx context.Context, in *TextMessage, opts ...grpc.CallOption) (*StatusResponse, error)
}

type clientServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewClientServiceClient creates a new gRPC client for the chat service.
func NewClientServiceClient(cc grpc.ClientConnInterface) ClientServiceClient {
	return &clientServiceClient{cc: cc}
}

func (c *clientServiceClient) GetLeader(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*LeaderInfo, error) {
	out := new(LeaderInfo)
	err := c.cc.Invoke(ctx, "/chat.ClientService/GetLeader", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) SubscribeToServerEvents(ctx context.Context, in *Empty, opts ...grpc.CallOption) (ClientService_SubscribeToServerEventsClient, error) {
	stream, err := c.cc.NewStream(ctx, &_ClientService_serviceDesc.Streams[0], "/chat.ClientService/SubscribeToServerEvents", opts...)
	if err != nil {
		return nil, err
	}
	x := &clientServiceSubscribeToServerEventsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ClientService_SubscribeToServerEventsClient is the client side of the
// subscription stream.
type ClientService_SubscribeToServerEventsClient interface {
	Recv() (*TextMessage, error)
	grpc.ClientStream
}

type clientServiceSubscribeToServerEventsClient struct {
	grpc.ClientStream
}

func (x *clientServiceSubscribeToServerEventsClient) Recv() (*TextMessage, error) {
	m := new(TextMessage)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *clientServiceClient) SendMessageToServer(ctx context.Context, in *TextMessage, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	err := c.cc.Invoke(ctx, "/chat.ClientService/SendMessageToServer", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClientServiceServer defines the server API for the chat service.
type ClientServiceServer interface {
	GetLeader(context.Context, *Empty) (*LeaderInfo, error)
	SubscribeToServerEvents(*Empty, ClientService_SubscribeToServerEventsServer) error
	SendMessageToServer(context.Context, *TextMessage) (*StatusResponse, error)
}

// ClientService_SubscribeToServerEventsServer is the server side of the
// subscription stream.
type ClientService_SubscribeToServerEventsServer interface {
	Send(*TextMessage) error
	grpc.ServerStream
}

type clientServiceSubscribeToServerEventsServer struct {
	grpc.ServerStream
}

func (x *clientServiceSubscribeToServerEventsServer) Send(m *TextMessage) error {
	return x.ServerStream.SendMsg(m)
}

// UnimplementedClientServiceServer can be embedded to have forward compatible implementations.
type UnimplementedClientServiceServer struct{}

// GetLeader is a stub implementation.
func (UnimplementedClientServiceServer) GetLeader(context.Context, *Empty) (*LeaderInfo, error) {
	return nil, fmt.Errorf("method GetLeader not implemented")
}

// SubscribeToServerEvents is a stub implementation.
func (UnimplementedClientServiceServer) SubscribeToServerEvents(*Empty, ClientService_SubscribeToServerEventsServer) error {
	return fmt.Errorf("method SubscribeToServerEvents not implemented")
}

// SendMessageToServer is a stub implementation.
func (UnimplementedClientServiceServer) SendMessageToServer(context.Context, *TextMessage) (*StatusResponse, error) {
	return nil, fmt.Errorf("method SendMessageToServer not implemented")
}

// RegisterClientServiceServer registers the service implementation with a gRPC server.
func RegisterClientServiceServer(s *grpc.Server, srv ClientServiceServer) {
	s.RegisterService(&_ClientService_serviceDesc, srv)
}

func _ClientService_GetLeader_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).GetLeader(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/chat.ClientService/GetLeader",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClientServiceServer).GetLeader(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientService_SendMessageToServer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TextMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).SendMessageToServer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/chat.ClientService/SendMessageToServer",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClientServiceServer).SendMessageToServer(ctx, req.(*TextMessage))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientService_SubscribeToServerEvents_Handler(srv interface{}, stream grpc.ServerStream) error {
	in := new(Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ClientServiceServer).SubscribeToServerEvents(in, &clientServiceSubscribeToServerEventsServer{stream})
}

var _ClientService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "chat.ClientService",
	HandlerType: (*ClientServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLeader",
			Handler:    _ClientService_GetLeader_Handler,
		},
		{
			MethodName: "SendMessageToServer",
			Handler:    _ClientService_SendMessageToServer_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "SubscribeToServerEvents",
			Handler:       _ClientService_SubscribeToServerEvents_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "internal/chatpb/client_service.go",
}
