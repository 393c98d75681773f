// Package rpc serves the pacing session API over gRPC. Messages are
// google.protobuf.Struct so no generated code is needed; field names match
// the HTTP JSON bodies. NewSession returns a token; every other call sends it
// as "authorization: Bearer <token>" metadata, as with HTTP.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/codefall/internal/auth"
	"github.com/xtding233/codefall/internal/session"
)

const ServiceName = "codefall.v1.Pacing"

// PacingServer is the server API for the Pacing service.
type PacingServer interface {
	NewSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	NextProblem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Solved(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Escaped(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Snapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Service implements PacingServer on top of a session manager.
type Service struct {
	mgr    *session.Manager
	tokens *auth.Signer
	now    func() time.Time
}

func NewService(mgr *session.Manager, tokens *auth.Signer) *Service {
	return &Service{mgr: mgr, tokens: tokens, now: time.Now}
}

var _ PacingServer = (*Service)(nil)

func (s *Service) NewSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	player := in.GetFields()["player"].GetStringValue()
	sess, err := s.mgr.Create(player)
	if err != nil {
		return nil, toStatus(err)
	}
	tok, exp, err := s.tokens.Sign(sess.ID(), s.now(), s.mgr.Params().TokenTTL)
	if err != nil {
		return nil, status.Error(codes.Internal, "sign token")
	}
	return toStruct(map[string]any{"sessionId": sess.ID(), "token": tok, "expiresAt": exp})
}

func (s *Service) NextProblem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	is, err := sess.NextProblem(s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(is)
}

func (s *Service) Solved(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := in.GetFields()["problemId"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "problemId required")
	}
	aw, err := sess.Solved(int(v.GetNumberValue()), s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(aw)
}

func (s *Service) Escaped(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, v := range in.GetFields()["problemIds"].GetListValue().GetValues() {
		ids = append(ids, int(v.GetNumberValue()))
	}
	res, err := sess.Escaped(ctx, ids, s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (s *Service) Snapshot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.lookup(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(sess.Snapshot())
}

// lookup finds the session named by the token authUnary checked.
func (s *Service) lookup(ctx context.Context) (*session.Session, error) {
	id, _ := ctx.Value(ctxSessionIDKey{}).(string)
	if id == "" {
		return nil, status.Error(codes.Unauthenticated, "no session in context")
	}
	sess, err := s.mgr.Get(id)
	if err != nil {
		return nil, toStatus(err)
	}
	return sess, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, session.ErrGameOver), errors.Is(err, session.ErrProblemNotActive):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, session.ErrFieldFull), errors.Is(err, session.ErrNoRoom):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct converts v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode: %v", err))
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode: %v", err))
	}
	return out, nil
}

func unaryHandler(call func(PacingServer, context.Context, *structpb.Struct) (*structpb.Struct, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PacingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PacingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Pacing service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PacingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NewSession", Handler: unaryHandler(PacingServer.NewSession, "NewSession")},
		{MethodName: "NextProblem", Handler: unaryHandler(PacingServer.NextProblem, "NextProblem")},
		{MethodName: "Solved", Handler: unaryHandler(PacingServer.Solved, "Solved")},
		{MethodName: "Escaped", Handler: unaryHandler(PacingServer.Escaped, "Escaped")},
		{MethodName: "Snapshot", Handler: unaryHandler(PacingServer.Snapshot, "Snapshot")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "codefall/v1/pacing.proto",
}

func RegisterPacingServer(s grpc.ServiceRegistrar, srv PacingServer) {
	s.RegisterService(&ServiceDesc, srv)
}
