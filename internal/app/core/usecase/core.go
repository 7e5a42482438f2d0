package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

const (
	opCreate   = "create"
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opFetch    = "fetch"
)

// BankAccountUseCase 是核心業務邏輯層
// 不持有任何帳戶：每次操作都從 port 取得複本，修改後整筆寫回
type BankAccountUseCase struct {
	port   BankAccountPort
	guard  Guard
	clock  Clock
	logger *slog.Logger
}

// Option 定義了 BankAccountUseCase 的配置選項函數
type Option func(*BankAccountUseCase)

// WithGuard 設定變更操作的併發策略 (預設 AccountGuard)
func WithGuard(guard Guard) Option {
	return func(u *BankAccountUseCase) {
		u.guard = guard
	}
}

// WithClock 設定交易時間來源 (預設 SystemClock)
func WithClock(clock Clock) Option {
	return func(u *BankAccountUseCase) {
		u.clock = clock
	}
}

// WithLogger 設定 logger (預設 slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(u *BankAccountUseCase) {
		u.logger = logger
	}
}

func NewBankAccountUseCase(port BankAccountPort, opts ...Option) *BankAccountUseCase {
	u := &BankAccountUseCase{
		port:   port,
		guard:  NewAccountGuard(),
		clock:  SystemClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Create 開戶
// 不檢查帳號是否已存在，重複開戶會直接覆蓋舊帳戶
func (u *BankAccountUseCase) Create(ctx context.Context, accountNumber string, initialAmount int64) error {
	account := domain.CreateNewAccount(accountNumber, initialAmount)
	err := u.guard.Do(ctx, accountNumber, func() error {
		return u.save(ctx, account)
	})
	u.record(ctx, opCreate, accountNumber, initialAmount, err)
	return err
}

// Deposit 存款，回傳更新後的帳戶複本
//
// 參數:
//
//	ctx: 上下文
//	accountNumber: 帳號
//	amount: 金額 (不檢查正負)
//
// 回傳:
//
//	*domain.BankAccount: 更新後的帳戶
//	error: domain.ErrAccountNotFound 或 domain.ErrStorageUnavailable
func (u *BankAccountUseCase) Deposit(ctx context.Context, accountNumber string, amount int64) (*domain.BankAccount, error) {
	return u.mutate(ctx, opDeposit, accountNumber, amount, func(account *domain.BankAccount, at time.Time) {
		account.DepositAt(amount, at)
	})
}

// Withdraw 提款，回傳更新後的帳戶複本
// 不檢查餘額，允許透支；錯誤同 Deposit
func (u *BankAccountUseCase) Withdraw(ctx context.Context, accountNumber string, amount int64) (*domain.BankAccount, error) {
	return u.mutate(ctx, opWithdraw, accountNumber, amount, func(account *domain.BankAccount, at time.Time) {
		account.WithdrawAt(amount, at)
	})
}

// Fetch 查詢帳戶，不做任何變更
func (u *BankAccountUseCase) Fetch(ctx context.Context, accountNumber string) (*domain.BankAccount, error) {
	account, err := u.load(ctx, accountNumber)
	u.record(ctx, opFetch, accountNumber, 0, err)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// mutate load -> apply -> save，整段在 guard 內執行
// 找不到帳戶時不會呼叫 save
func (u *BankAccountUseCase) mutate(
	ctx context.Context,
	op string,
	accountNumber string,
	amount int64,
	apply func(account *domain.BankAccount, at time.Time),
) (*domain.BankAccount, error) {
	var updated *domain.BankAccount
	err := u.guard.Do(ctx, accountNumber, func() error {
		account, err := u.load(ctx, accountNumber)
		if err != nil {
			return err
		}
		apply(account, u.clock.Now())
		if err := u.save(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	u.record(ctx, op, accountNumber, amount, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *BankAccountUseCase) load(ctx context.Context, accountNumber string) (*domain.BankAccount, error) {
	account, found, err := u.port.Load(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: load account %s: %w", domain.ErrStorageUnavailable, accountNumber, err)
	}
	if !found {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (u *BankAccountUseCase) save(ctx context.Context, account *domain.BankAccount) error {
	if err := u.port.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("%w: save account %s: %w", domain.ErrStorageUnavailable, account.AccountNumber(), err)
	}
	return nil
}

// record 記錄 log 與 metrics
func (u *BankAccountUseCase) record(ctx context.Context, op, accountNumber string, amount int64, err error) {
	attrs := []any{
		slog.String("operation", op),
		slog.String("account_number", accountNumber),
		slog.Int64("amount", amount),
	}
	switch {
	case err == nil:
		ledgerOperationsTotal.WithLabelValues(op, "ok").Inc()
		u.logger.InfoContext(ctx, "ledger operation completed", attrs...)
	case errors.Is(err, domain.ErrAccountNotFound):
		ledgerOperationsTotal.WithLabelValues(op, "not_found").Inc()
		u.logger.WarnContext(ctx, "account not found", attrs...)
	default:
		ledgerOperationsTotal.WithLabelValues(op, "error").Inc()
		u.logger.ErrorContext(ctx, "ledger operation failed", append(attrs, slog.String("error", err.Error()))...)
	}
}
