package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	ledgerv1 "github.com/JoeShih716/go-bank-ledger/api/ledgerv1"
	ledgergrpc "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
)

// loadgen 對同一個帳戶併發存款，最後檢查餘額是否等於 initial + n*amount
// 餘額少於預期代表發生 lost update，以 exit code 1 結束
func main() {
	target := flag.String("target", "localhost:50051", "gRPC server address")
	totalCount := flag.Int("n", 10000, "number of deposits")
	concurrency := flag.Int("c", 100, "concurrent deposits in flight")
	amount := flag.Int64("amount", 10, "amount of each deposit")
	initial := flag.Int64("initial", 0, "initial amount of the test account")
	timeout := flag.Duration("timeout", 120*time.Second, "overall timeout")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, err := logger.New(*logLevel, "text")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool := ledgergrpc.NewPool(
		ledgergrpc.WithInterceptor(ledgergrpc.RequestIDInterceptor()),
		ledgergrpc.WithInterceptor(ledgergrpc.LoggingInterceptor(log)),
	)
	defer pool.Close()

	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Error("did not connect", slog.String("error", err.Error()))
		os.Exit(2)
	}

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ledgerv1.ServiceName})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		log.Error("ledger service is not serving", slog.Any("error", err), slog.String("status", resp.GetStatus().String()))
		os.Exit(2)
	}

	client := ledgerv1.NewLedgerServiceClient(conn)
	accountNumber := "LOAD-" + uuid.NewString()
	if _, err := client.CreateAccount(ctx, &ledgerv1.CreateAccountRequest{
		AccountNumber: accountNumber,
		InitialAmount: *initial,
	}); err != nil {
		log.Error("create account failed", slog.String("error", err.Error()))
		os.Exit(2)
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	startTime := time.Now()
	for i := 0; i < *totalCount; i++ {
		g.Go(func() error {
			_, err := client.Deposit(gctx, &ledgerv1.AmountRequest{AccountNumber: accountNumber, Amount: *amount})
			if err != nil {
				// 單筆失敗不中斷其他請求，最後一起比對
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(startTime)

	account, err := client.GetAccount(ctx, &ledgerv1.GetAccountRequest{AccountNumber: accountNumber})
	if err != nil {
		log.Error("fetch account failed", slog.String("error", err.Error()))
		os.Exit(2)
	}

	succeeded := int64(*totalCount) - failed.Load()
	expected := *initial + succeeded*(*amount)

	fmt.Printf("Completed %d requests in %v (%d failed)\n", *totalCount, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*totalCount)/elapsed.Seconds())
	fmt.Printf("Balance: %d, expected: %d\n", account.Balance, expected)

	switch {
	case account.Balance < expected:
		log.Error("lost update detected",
			slog.String("account_number", accountNumber),
			slog.Int64("balance", account.Balance),
			slog.Int64("expected", expected),
		)
		os.Exit(1)
	case account.Balance > expected:
		// 逾時的請求可能已在 server 端完成，只能確認沒有遺失
		log.Warn("balance includes deposits reported as failed",
			slog.Int64("balance", account.Balance),
			slog.Int64("expected", expected),
		)
	}
}
