package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "healthcare.v1.ClinicService"

// full method names, as seen by interceptors
const (
	MethodSignup          = "/" + ServiceName + "/Signup"
	MethodLogin           = "/" + ServiceName + "/Login"
	MethodGetUser         = "/" + ServiceName + "/GetUser"
	MethodListDoctors     = "/" + ServiceName + "/ListDoctors"
	MethodGetDoctor       = "/" + ServiceName + "/GetDoctor"
	MethodBookAppointment = "/" + ServiceName + "/BookAppointment"
)

// ClinicServer is the service contract. Messages are protobuf well-known
// types carrying the same JSON shapes as the REST API.
type ClinicServer interface {
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListDoctors(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	GetDoctor(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	BookAppointment(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClinicServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Signup", ClinicServer.Signup),
		unary("Login", ClinicServer.Login),
		unary("GetUser", ClinicServer.GetUser),
		unary("ListDoctors", ClinicServer.ListDoctors),
		unary("GetDoctor", ClinicServer.GetDoctor),
		unary("BookAppointment", ClinicServer.BookAppointment),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "healthcare/v1/clinic.proto",
}

func Register(s grpc.ServiceRegistrar, srv ClinicServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds the method handler the generated code would otherwise provide.
func unary[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](name string, call func(ClinicServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if ic == nil {
				return call(srv.(ClinicServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			h := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ClinicServer), ctx, req.(PReq))
			}
			return ic(ctx, in, info, h)
		},
	}
}
