package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	ledgergrpc "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
)

// LoggingInterceptor 每次呼叫記一行 log，並把 request id 回傳在 header
// 客戶端沒帶 x-request-id 時產生一個新的
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		requestID := requestIDFrom(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(ledgergrpc.RequestIDKey, requestID))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{
			slog.String("request_id", requestID),
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("latency", time.Since(start)),
		}
		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "grpc request", attrs...)
		case codes.Internal, codes.Unavailable, codes.Unknown:
			logger.ErrorContext(ctx, "grpc request", append(attrs, slog.String("error", err.Error()))...)
		default:
			logger.WarnContext(ctx, "grpc request", append(attrs, slog.String("error", err.Error()))...)
		}
		return resp, err
	}
}

// RecoveryInterceptor 把 handler 的 panic 轉成 codes.Internal
func RecoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "grpc handler panic",
					slog.String("method", info.FullMethod),
					slog.String("panic", fmt.Sprint(r)),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func requestIDFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(ledgergrpc.RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
