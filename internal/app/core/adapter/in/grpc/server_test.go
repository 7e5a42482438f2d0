package grpc_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	ledgerv1 "github.com/JoeShih716/go-bank-ledger/api/ledgerv1"
	grpcadapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	ledgergrpc "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
)

const bufSize = 1024 * 1024

// startServer 以 bufconn 啟動完整的 gRPC server，回傳連到它的 ClientConn
func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	core := usecase.NewBankAccountUseCase(memory.NewAccountRepository(), usecase.WithLogger(logger))
	srv, _ := grpcadapter.NewServer(core, logger)

	lis := bufconn.Listen(bufSize)
	go func() {
		if err := srv.Serve(lis); err != nil {
			t.Logf("grpc server error: %v", err)
		}
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufnet: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestLedgerService_Scenarios(t *testing.T) {
	ctx := context.Background()
	client := ledgerv1.NewLedgerServiceClient(startServer(t))

	if _, err := client.CreateAccount(ctx, &ledgerv1.CreateAccountRequest{AccountNumber: "A0001", InitialAmount: 200}); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	got, err := client.GetAccount(ctx, &ledgerv1.GetAccountRequest{AccountNumber: "A0001"})
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	want := ledgerv1.Account{AccountNumber: "A0001", InitialAmount: 200, Balance: 200}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	got, err = client.Deposit(ctx, &ledgerv1.AmountRequest{AccountNumber: "A0001", Amount: 100})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if got.Balance != 300 {
		t.Errorf("expected balance 300, got %d", got.Balance)
	}

	got, err = client.Withdraw(ctx, &ledgerv1.AmountRequest{AccountNumber: "A0001", Amount: 350})
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if got.Balance != -50 {
		t.Errorf("expected balance -50, got %d", got.Balance)
	}
}

func TestLedgerService_NotFound(t *testing.T) {
	ctx := context.Background()
	client := ledgerv1.NewLedgerServiceClient(startServer(t))

	_, err := client.Deposit(ctx, &ledgerv1.AmountRequest{AccountNumber: "Z9999", Amount: 100})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}

	_, err = client.GetAccount(ctx, &ledgerv1.GetAccountRequest{AccountNumber: "Z9999"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestLedgerService_RequestIDHeader(t *testing.T) {
	client := ledgerv1.NewLedgerServiceClient(startServer(t))

	t.Run("propagates the caller id", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), ledgergrpc.RequestIDKey, "req-1")
		var header metadata.MD
		req := &ledgerv1.CreateAccountRequest{AccountNumber: "A0001", InitialAmount: 200}
		if _, err := client.CreateAccount(ctx, req, grpc.Header(&header)); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if ids := header.Get(ledgergrpc.RequestIDKey); len(ids) != 1 || ids[0] != "req-1" {
			t.Errorf("expected request id req-1, got %v", ids)
		}
	})

	t.Run("generates one when missing", func(t *testing.T) {
		var header metadata.MD
		req := &ledgerv1.CreateAccountRequest{AccountNumber: "A0002", InitialAmount: 200}
		if _, err := client.CreateAccount(context.Background(), req, grpc.Header(&header)); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if ids := header.Get(ledgergrpc.RequestIDKey); len(ids) != 1 || ids[0] == "" {
			t.Errorf("expected a generated request id, got %v", ids)
		}
	})
}

func TestHealth(t *testing.T) {
	conn := startServer(t)
	health := healthpb.NewHealthClient(conn)

	tests := []struct {
		name    string
		service string
		opts    []grpc.CallOption
	}{
		{name: "proto codec", service: ""},
		{name: "json codec", service: ledgerv1.ServiceName, opts: []grpc.CallOption{grpc.CallContentSubtype(ledgergrpc.CodecName)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: tt.service}, tt.opts...)
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				t.Errorf("expected SERVING, got %v", resp.GetStatus())
			}
		})
	}
}
