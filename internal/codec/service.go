package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region method-names
const (
	ServiceName              = "adaptive.SignalService"
	GenerateHypothesesMethod = "/adaptive.SignalService/GenerateHypotheses"
	ScoreHypothesisMethod    = "/adaptive.SignalService/ScoreHypothesis"
)

// #endregion method-names

// #region server-interface
// SignalServiceServer is the server side of the signal service. Both
// methods exchange free-form structs:
//
//	GenerateHypotheses {input} -> {candidates: [{id, payload, confidence, stability}]}
//	ScoreHypothesis    {hypothesis: {id, payload, confidence, stability}, cycle}
//	                   -> {confidence} | {alignment, coherence, constraint_satisfaction}
type SignalServiceServer interface {
	GenerateHypotheses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ScoreHypothesis(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSignalService attaches srv to a gRPC server.
func RegisterSignalService(s grpc.ServiceRegistrar, srv SignalServiceServer) {
	s.RegisterService(&SignalServiceDesc, srv)
}

// #endregion server-interface

// #region service-desc
// SignalServiceDesc describes the signal service for grpc.Server.
var SignalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SignalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GenerateHypotheses", Handler: generateHandler},
		{MethodName: "ScoreHypothesis", Handler: scoreHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "adaptive/signal.proto",
}

func generateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignalServiceServer).GenerateHypotheses(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GenerateHypothesesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SignalServiceServer).GenerateHypotheses(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func scoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignalServiceServer).ScoreHypothesis(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScoreHypothesisMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SignalServiceServer).ScoreHypothesis(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc
