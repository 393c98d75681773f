package rpc

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/xtding233/codefall/internal/auth"
	"github.com/xtding233/codefall/internal/session"
)

// NewServer returns a grpc.Server with the Pacing service registered and
// request logging and token checks installed.
func NewServer(mgr *session.Manager, tokens *auth.Signer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logUnary, authUnary(tokens)))
	srv := grpc.NewServer(opts...)
	RegisterPacingServer(srv, NewService(mgr, tokens))
	return srv
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Debug().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("took", time.Since(start)).
		Msg("grpc")
	return resp, err
}

type ctxSessionIDKey struct{}

// authUnary resolves the "authorization: Bearer <token>" metadata to a
// session id for every method except NewSession.
func authUnary(tokens *auth.Signer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == "/"+ServiceName+"/NewSession" {
			return handler(ctx, req)
		}
		md, _ := metadata.FromIncomingContext(ctx)
		var raw string
		if v := md.Get("authorization"); len(v) > 0 {
			raw = auth.Bearer(v[0])
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "bearer token required")
		}
		sid, err := tokens.Parse(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(context.WithValue(ctx, ctxSessionIDKey{}, sid), req)
	}
}
