package usecase

import (
	"context"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// BankAccountPort 是帳戶儲存的介面 (Repository Port)
// 實作端不得保留傳入或傳出的 *domain.BankAccount 指標，一律以複本交換。
type BankAccountPort interface {
	// SaveAccount 以帳號為 key 寫入完整帳戶狀態；已存在則整筆覆蓋 (不合併)
	SaveAccount(ctx context.Context, account *domain.BankAccount) error
	// Load 取得帳戶複本；帳戶不存在時 found 為 false，err 為 nil
	Load(ctx context.Context, accountNumber string) (account *domain.BankAccount, found bool, err error)
}

// Clock 提供交易時間，測試時可替換成固定時間
type Clock interface {
	Now() time.Time
}

// ClockFunc 讓一般函式可以當作 Clock 使用
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock 回傳 UTC 當下時間
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })
