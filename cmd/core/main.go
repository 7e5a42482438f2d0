package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
	rest_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/rest"
	memory_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
)

func main() {
	// 1. 載入設定
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		slog.Error("failed to init logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("server exited")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 併發策略；guard 的生命週期比 server 長，等 server 都關閉後才停止
	guardCtx, stopGuard := context.WithCancel(context.Background())
	defer stopGuard()
	guard, err := usecase.NewGuard(guardCtx, cfg.Ledger.Guard)
	if err != nil {
		return err
	}

	// 3. 初始化 Repository 與 UseCase
	repo := memory_adapter.NewAccountRepository()
	core := usecase.NewBankAccountUseCase(repo,
		usecase.WithGuard(guard),
		usecase.WithLogger(log),
	)

	// 4. 初始化 Driving Adapters
	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      rest_adapter.NewRouter(rest_adapter.NewHandler(core), log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	grpcServer, healthServer := grpc_adapter.NewServer(core, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", slog.String("addr", cfg.HTTP.Addr), slog.String("guard", cfg.Ledger.Guard))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting gRPC server", slog.String("addr", cfg.GRPC.Addr))
		return grpcServer.Serve(lis)
	})

	// Graceful Shutdown：收到信號或任一 server 失敗
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
		return err
	})

	err = g.Wait()

	// 所有請求都結束後才停止 guard，sequencer 會先處理完輸送帶上的工作
	stopGuard()
	if sg, ok := guard.(*usecase.SequencerGuard); ok {
		<-sg.Stopped()
	}
	return err
}
