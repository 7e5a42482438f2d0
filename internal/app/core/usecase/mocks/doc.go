// Package mocks provides mock implementations for testing purposes.
package mocks

//go:generate mockgen -destination=mock_port.go -package=mocks github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase BankAccountPort
