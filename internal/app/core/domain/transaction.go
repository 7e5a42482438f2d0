package domain

import "time"

// TransactionType 交易類型
// 為了節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	default:
		return "unknown"
	}
}

// Transaction 帳戶上的一筆交易 (存款或提款)
// 欄位不對外公開，建立後即不可變更
type Transaction struct {
	// amount: 金額，存提款都以非負數記錄，方向由 txType 決定
	amount int64
	// createdAt: 交易時間，由變更帳戶的當下指定
	createdAt time.Time
	txType    TransactionType
}

// NewDepositTransaction 建立一筆存款交易
func NewDepositTransaction(amount int64, at time.Time) Transaction {
	return Transaction{amount: amount, createdAt: at, txType: TransactionTypeDeposit}
}

// NewWithdrawTransaction 建立一筆提款交易
func NewWithdrawTransaction(amount int64, at time.Time) Transaction {
	return Transaction{amount: amount, createdAt: at, txType: TransactionTypeWithdraw}
}

func (t Transaction) Type() TransactionType { return t.txType }

func (t Transaction) Amount() int64 { return t.amount }

func (t Transaction) CreatedAt() time.Time { return t.createdAt }

// SignedAmount 回傳對餘額的影響：存款為 +amount，提款為 -amount
func (t Transaction) SignedAmount() int64 {
	if t.txType == TransactionTypeWithdraw {
		return -t.amount
	}
	return t.amount
}

// Equal 比對類型、金額與時間 (時間以 time.Equal 比較，忽略時區表示)
func (t Transaction) Equal(other Transaction) bool {
	return t.txType == other.txType &&
		t.amount == other.amount &&
		t.createdAt.Equal(other.createdAt)
}
