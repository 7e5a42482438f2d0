package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	ledgerv1 "github.com/JoeShih716/go-bank-ledger/api/ledgerv1"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// GrpcServer 把 ledger.v1.LedgerService 的呼叫轉給 BankAccountUseCase
type GrpcServer struct {
	core *usecase.BankAccountUseCase
}

func NewGrpcServer(core *usecase.BankAccountUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

// NewServer 建立已註冊 LedgerService、health 與 reflection 的 grpc.Server
//
// 參數:
//
//	core: 業務邏輯層
//	logger: 請求 log 使用的 logger
//
// 回傳:
//
//	*grpc.Server: 尚未 Serve 的 server
//	*health.Server: 關閉前呼叫 Shutdown() 讓 health check 回報 NOT_SERVING
func NewServer(core *usecase.BankAccountUseCase, logger *slog.Logger) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			RecoveryInterceptor(logger),
		),
	)
	ledgerv1.RegisterLedgerServiceServer(s, NewGrpcServer(core))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ledgerv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	reflection.Register(s) // 方便 grpcurl 等工具查詢服務
	return s, healthServer
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *ledgerv1.CreateAccountRequest) (*ledgerv1.CreateAccountResponse, error) {
	if err := s.core.Create(ctx, req.AccountNumber, req.InitialAmount); err != nil {
		return nil, toStatus(err)
	}
	return &ledgerv1.CreateAccountResponse{}, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *ledgerv1.AmountRequest) (*ledgerv1.Account, error) {
	account, err := s.core.Deposit(ctx, req.AccountNumber, req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAccount(account), nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *ledgerv1.AmountRequest) (*ledgerv1.Account, error) {
	account, err := s.core.Withdraw(ctx, req.AccountNumber, req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAccount(account), nil
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *ledgerv1.GetAccountRequest) (*ledgerv1.Account, error) {
	account, err := s.core.Fetch(ctx, req.AccountNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAccount(account), nil
}

func toAccount(account *domain.BankAccount) *ledgerv1.Account {
	return &ledgerv1.Account{
		AccountNumber: account.AccountNumber(),
		InitialAmount: account.InitialAmount(),
		Balance:       account.Balance(),
	}
}

// toStatus 將 domain 錯誤轉成 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, usecase.ErrGuardStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ ledgerv1.LedgerServiceServer = (*GrpcServer)(nil)
