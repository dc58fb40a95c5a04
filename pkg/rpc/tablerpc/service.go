package tablerpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "tablerpc.TableService"

const (
	TableService_CreateTable_FullMethodName  = "/tablerpc.TableService/CreateTable"
	TableService_JoinTable_FullMethodName    = "/tablerpc.TableService/JoinTable"
	TableService_LeaveTable_FullMethodName   = "/tablerpc.TableService/LeaveTable"
	TableService_PlaceBet_FullMethodName     = "/tablerpc.TableService/PlaceBet"
	TableService_SitOut_FullMethodName       = "/tablerpc.TableService/SitOut"
	TableService_Insure_FullMethodName       = "/tablerpc.TableService/Insure"
	TableService_Act_FullMethodName          = "/tablerpc.TableService/Act"
	TableService_NextHand_FullMethodName     = "/tablerpc.TableService/NextHand"
	TableService_Converse_FullMethodName     = "/tablerpc.TableService/Converse"
	TableService_GetState_FullMethodName     = "/tablerpc.TableService/GetState"
	TableService_StreamEvents_FullMethodName = "/tablerpc.TableService/StreamEvents"
)

// TableServiceServer is the server API for TableService.
type TableServiceServer interface {
	CreateTable(context.Context, *CreateTableRequest) (*CreateTableResponse, error)
	JoinTable(context.Context, *JoinTableRequest) (*StateResponse, error)
	LeaveTable(context.Context, *LeaveTableRequest) (*LeaveTableResponse, error)
	PlaceBet(context.Context, *BetRequest) (*StateResponse, error)
	SitOut(context.Context, *PlayerRequest) (*StateResponse, error)
	Insure(context.Context, *InsureRequest) (*StateResponse, error)
	Act(context.Context, *ActRequest) (*StateResponse, error)
	NextHand(context.Context, *PlayerRequest) (*StateResponse, error)
	Converse(context.Context, *ConverseRequest) (*StateResponse, error)
	GetState(context.Context, *PlayerRequest) (*StateResponse, error)
	StreamEvents(*PlayerRequest, TableService_StreamEventsServer) error
}

// TableService_StreamEventsServer is the server side of StreamEvents.
type TableService_StreamEventsServer interface {
	Send(*Event) error
	Context() context.Context
}

type streamEventsServer struct {
	grpc.ServerStream
}

func (x *streamEventsServer) Send(ev *Event) error {
	m, err := Encode(ev)
	if err != nil {
		return status.Errorf(codes.Internal, "encode event: %v", err)
	}
	return x.ServerStream.SendMsg(m)
}

func unaryHandler[Req, Resp any](method string, call func(TableServiceServer, context.Context, *Req) (*Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			r := new(Req)
			if err := Decode(req.(*structpb.Struct), r); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			resp, err := call(srv.(TableServiceServer), ctx, r)
			if err != nil {
				return nil, err
			}
			return Encode(resp)
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, handler)
	}
}

func _TableService_StreamEvents_Handler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	req := new(PlayerRequest)
	if err := Decode(in, req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return srv.(TableServiceServer).StreamEvents(req, &streamEventsServer{stream})
}

// TableService_ServiceDesc is the grpc.ServiceDesc for TableService.
var TableService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TableServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTable", Handler: unaryHandler(TableService_CreateTable_FullMethodName, TableServiceServer.CreateTable)},
		{MethodName: "JoinTable", Handler: unaryHandler(TableService_JoinTable_FullMethodName, TableServiceServer.JoinTable)},
		{MethodName: "LeaveTable", Handler: unaryHandler(TableService_LeaveTable_FullMethodName, TableServiceServer.LeaveTable)},
		{MethodName: "PlaceBet", Handler: unaryHandler(TableService_PlaceBet_FullMethodName, TableServiceServer.PlaceBet)},
		{MethodName: "SitOut", Handler: unaryHandler(TableService_SitOut_FullMethodName, TableServiceServer.SitOut)},
		{MethodName: "Insure", Handler: unaryHandler(TableService_Insure_FullMethodName, TableServiceServer.Insure)},
		{MethodName: "Act", Handler: unaryHandler(TableService_Act_FullMethodName, TableServiceServer.Act)},
		{MethodName: "NextHand", Handler: unaryHandler(TableService_NextHand_FullMethodName, TableServiceServer.NextHand)},
		{MethodName: "Converse", Handler: unaryHandler(TableService_Converse_FullMethodName, TableServiceServer.Converse)},
		{MethodName: "GetState", Handler: unaryHandler(TableService_GetState_FullMethodName, TableServiceServer.GetState)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamEvents",
			Handler:       _TableService_StreamEvents_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "tablerpc",
}

// RegisterTableServiceServer registers srv with s.
func RegisterTableServiceServer(s grpc.ServiceRegistrar, srv TableServiceServer) {
	s.RegisterService(&TableService_ServiceDesc, srv)
}

// TableServiceClient is the client API for TableService.
type TableServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTableServiceClient(cc grpc.ClientConnInterface) *TableServiceClient {
	return &TableServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req interface{}, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *TableServiceClient) CreateTable(ctx context.Context, in *CreateTableRequest, opts ...grpc.CallOption) (*CreateTableResponse, error) {
	return invoke[CreateTableResponse](ctx, c.cc, TableService_CreateTable_FullMethodName, in, opts...)
}

func (c *TableServiceClient) JoinTable(ctx context.Context, in *JoinTableRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_JoinTable_FullMethodName, in, opts...)
}

func (c *TableServiceClient) LeaveTable(ctx context.Context, in *LeaveTableRequest, opts ...grpc.CallOption) (*LeaveTableResponse, error) {
	return invoke[LeaveTableResponse](ctx, c.cc, TableService_LeaveTable_FullMethodName, in, opts...)
}

func (c *TableServiceClient) PlaceBet(ctx context.Context, in *BetRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_PlaceBet_FullMethodName, in, opts...)
}

func (c *TableServiceClient) SitOut(ctx context.Context, in *PlayerRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_SitOut_FullMethodName, in, opts...)
}

func (c *TableServiceClient) Insure(ctx context.Context, in *InsureRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_Insure_FullMethodName, in, opts...)
}

func (c *TableServiceClient) Act(ctx context.Context, in *ActRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_Act_FullMethodName, in, opts...)
}

func (c *TableServiceClient) NextHand(ctx context.Context, in *PlayerRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_NextHand_FullMethodName, in, opts...)
}

func (c *TableServiceClient) Converse(ctx context.Context, in *ConverseRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_Converse_FullMethodName, in, opts...)
}

func (c *TableServiceClient) GetState(ctx context.Context, in *PlayerRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, TableService_GetState_FullMethodName, in, opts...)
}

// TableService_StreamEventsClient receives table events.
type TableService_StreamEventsClient interface {
	Recv() (*Event, error)
	grpc.ClientStream
}

type streamEventsClient struct {
	grpc.ClientStream
}

func (x *streamEventsClient) Recv() (*Event, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	ev := new(Event)
	if err := Decode(m, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (c *TableServiceClient) StreamEvents(ctx context.Context, in *PlayerRequest, opts ...grpc.CallOption) (TableService_StreamEventsClient, error) {
	stream, err := c.cc.NewStream(ctx, &TableService_ServiceDesc.Streams[0], TableService_StreamEvents_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	req, err := Encode(in)
	if err != nil {
		return nil, err
	}
	x := &streamEventsClient{stream}
	if err := x.ClientStream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
