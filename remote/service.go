package remote

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the actor service
const ServiceName = "optimus.remote.Actor"

// ActorService is the worker side of the actor protocol. Every message is a structpb.Struct.
type ActorService interface {
	Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Bootstrap(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Release(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Shutdown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv ActorService, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, method unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return method(srv.(ActorService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return method(srv.(ActorService), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var actorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ActorService)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Ping", ActorService.Ping),
		unaryHandler("Bootstrap", ActorService.Bootstrap),
		unaryHandler("Submit", ActorService.Submit),
		unaryHandler("Release", ActorService.Release),
		unaryHandler("Shutdown", ActorService.Shutdown),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "optimus/remote/actor.proto",
}

// RegisterActorService registers srv on s
func RegisterActorService(s *grpc.Server, srv ActorService) {
	s.RegisterService(&actorServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
