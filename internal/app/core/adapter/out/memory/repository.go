package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// AccountRepository 是一個使用 Mutex 保護的記憶體帳戶儲存
//
// 結構:
//
//	accounts: 帳號 -> 帳戶複本
//	mu: Mutex 用於保護 accounts
//
// 存入與取出都會 Clone，呼叫端拿到的指標與內部狀態互不影響。
// Mutex 只保護 map 本身，跨越 Load/SaveAccount 的互斥由 usecase.Guard 負責。
type AccountRepository struct {
	accounts map[string]*domain.BankAccount
	mu       sync.Mutex
}

// NewAccountRepository 建立一個空的 AccountRepository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.BankAccount),
	}
}

// SaveAccount 寫入帳戶複本
//
// 參數:
//
//	ctx: 上下文
//	account: 完整帳戶狀態，同帳號已存在時整筆覆蓋
//
// 回傳:
//
//	error: 記憶體實作永遠回傳 nil
func (r *AccountRepository) SaveAccount(ctx context.Context, account *domain.BankAccount) error {
	snapshot := account.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[snapshot.AccountNumber()] = snapshot
	return nil
}

// Load 取得帳戶複本
//
// 參數:
//
//	ctx: 上下文
//	accountNumber: 帳號
//
// 回傳:
//
//	*domain.BankAccount: 帳戶複本 (不存在時為 nil)
//	bool: 帳戶是否存在
//	error: 記憶體實作永遠回傳 nil
func (r *AccountRepository) Load(ctx context.Context, accountNumber string) (*domain.BankAccount, bool, error) {
	r.mu.Lock()
	account, ok := r.accounts[accountNumber]
	r.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	return account.Clone(), true, nil
}

// Len 回傳目前帳戶數量
func (r *AccountRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

var _ usecase.BankAccountPort = (*AccountRepository)(nil)
