package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestAccountRepository_LoadMissing(t *testing.T) {
	repo := memory.NewAccountRepository()

	account, found, err := repo.Load(context.Background(), "Z9999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Errorf("expected not found")
	}
	if account != nil {
		t.Errorf("expected nil account, got %+v", account)
	}
	if repo.Len() != 0 {
		t.Errorf("expected empty repository, got %d entries", repo.Len())
	}
}

func TestAccountRepository_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()
	account := domain.CreateNewAccount("A0001", 200)
	account.DepositAt(100, fixedTime)

	for i := 0; i < 2; i++ {
		if err := repo.SaveAccount(ctx, account); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got, found, err := repo.Load(ctx, "A0001")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if !got.Equal(account) {
		t.Errorf("loaded account differs from saved account")
	}
	if repo.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", repo.Len())
	}
}

func TestAccountRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	first := domain.CreateNewAccount("A0001", 200)
	first.DepositAt(100, fixedTime)
	if err := repo.SaveAccount(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	replacement := domain.CreateNewAccount("A0001", 50)
	if err := repo.SaveAccount(ctx, replacement); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _, _ := repo.Load(ctx, "A0001")
	if len(got.Transactions()) != 0 {
		t.Errorf("expected previous transactions to be gone, got %d", len(got.Transactions()))
	}
	if got.InitialAmount() != 50 || got.Balance() != 50 {
		t.Errorf("expected initial 50 balance 50, got %d/%d", got.InitialAmount(), got.Balance())
	}
}

func TestAccountRepository_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()
	account := domain.CreateNewAccount("A0001", 200)
	if err := repo.SaveAccount(ctx, account); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Run("mutating the saved pointer", func(t *testing.T) {
		account.DepositAt(999, fixedTime)
		got, _, _ := repo.Load(ctx, "A0001")
		if got.Balance() != 200 {
			t.Errorf("stored balance changed to %d", got.Balance())
		}
	})

	t.Run("mutating a loaded snapshot", func(t *testing.T) {
		loaded, _, _ := repo.Load(ctx, "A0001")
		loaded.WithdrawAt(500, fixedTime)
		again, _, _ := repo.Load(ctx, "A0001")
		if again.Balance() != 200 {
			t.Errorf("stored balance changed to %d", again.Balance())
		}
	})
}

func TestAccountRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			number := fmt.Sprintf("A%04d", i%10)
			_ = repo.SaveAccount(ctx, domain.CreateNewAccount(number, int64(i)))
			_, _, _ = repo.Load(ctx, number)
		}(i)
	}
	wg.Wait()

	if repo.Len() != 10 {
		t.Errorf("expected 10 accounts, got %d", repo.Len())
	}
}
