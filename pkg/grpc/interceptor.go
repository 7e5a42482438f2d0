package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey 是傳遞 request id 的 metadata key
const RequestIDKey = "x-request-id"

// RequestIDInterceptor 為每次呼叫注入 request id (已存在則沿用)
func RequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(RequestIDKey)) == 0 {
			ctx = metadata.AppendToOutgoingContext(ctx, RequestIDKey, uuid.NewString())
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// LoggingInterceptor 以 Debug 等級記錄每次呼叫的結果與耗時，失敗時用 Warn
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		attrs := []any{
			slog.String("method", method),
			slog.String("code", status.Code(err).String()),
			slog.Duration("latency", time.Since(start)),
		}
		if err != nil {
			logger.WarnContext(ctx, "grpc call failed", append(attrs, slog.String("error", err.Error()))...)
			return err
		}
		logger.DebugContext(ctx, "grpc call", attrs...)
		return nil
	}
}
