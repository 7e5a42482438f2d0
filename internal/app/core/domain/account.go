package domain

import "time"

// BankAccount 銀行帳戶 (聚合根)
//
// 結構:
//
//	accountNumber: 帳號，建立後不可變更
//	initialAmount: 開戶金額，建立後不可變更
//	transactions: 交易紀錄，只能追加，順序即時間順序
//
// 餘額不另外存放，一律由 initialAmount 加上所有交易的 SignedAmount 算出。
type BankAccount struct {
	accountNumber string
	initialAmount int64
	transactions  []Transaction
}

// CreateNewAccount 建立一個沒有任何交易紀錄的新帳戶
// 開戶金額允許為負數，不做檢查
func CreateNewAccount(accountNumber string, initialAmount int64) *BankAccount {
	return &BankAccount{
		accountNumber: accountNumber,
		initialAmount: initialAmount,
		transactions:  []Transaction{},
	}
}

// Deposit 存款，交易時間為當下
func (a *BankAccount) Deposit(amount int64) {
	a.DepositAt(amount, time.Time{})
}

// DepositAt 以指定時間存款；at 為零值時使用當下時間
func (a *BankAccount) DepositAt(amount int64, at time.Time) {
	a.transactions = append(a.transactions, NewDepositTransaction(amount, stamp(at)))
}

// Withdraw 提款，交易時間為當下
// 不檢查餘額，允許透支
func (a *BankAccount) Withdraw(amount int64) {
	a.WithdrawAt(amount, time.Time{})
}

// WithdrawAt 以指定時間提款；at 為零值時使用當下時間
func (a *BankAccount) WithdrawAt(amount int64, at time.Time) {
	a.transactions = append(a.transactions, NewWithdrawTransaction(amount, stamp(at)))
}

// Balance 計算目前餘額
func (a *BankAccount) Balance() int64 {
	balance := a.initialAmount
	for _, tran := range a.transactions {
		balance += tran.SignedAmount()
	}
	return balance
}

func (a *BankAccount) AccountNumber() string { return a.accountNumber }

func (a *BankAccount) InitialAmount() int64 { return a.initialAmount }

// Transactions 回傳交易紀錄的複本，呼叫端修改不會影響帳戶
func (a *BankAccount) Transactions() []Transaction {
	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Clone 深拷貝整個帳戶，Repository 存取時都以複本交換
func (a *BankAccount) Clone() *BankAccount {
	return &BankAccount{
		accountNumber: a.accountNumber,
		initialAmount: a.initialAmount,
		transactions:  a.Transactions(),
	}
}

// Equal 帳號、開戶金額與完整交易紀錄 (含時間) 皆相同才視為相等
func (a *BankAccount) Equal(other *BankAccount) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.accountNumber != other.accountNumber ||
		a.initialAmount != other.initialAmount ||
		len(a.transactions) != len(other.transactions) {
		return false
	}
	for i := range a.transactions {
		if !a.transactions[i].Equal(other.transactions[i]) {
			return false
		}
	}
	return true
}

func stamp(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at
}
