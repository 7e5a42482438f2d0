package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewGuard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		policy  string
		wantErr bool
	}{
		{policy: "", wantErr: false},
		{policy: GuardAccount, wantErr: false},
		{policy: GuardGlobal, wantErr: false},
		{policy: GuardSequencer, wantErr: false},
		{policy: "optimistic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			guard, err := NewGuard(ctx, tt.policy)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownGuard) {
					t.Errorf("expected ErrUnknownGuard, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := guard.Do(ctx, "A0001", func() error { return nil }); err != nil {
				t.Errorf("Do failed: %v", err)
			}
		})
	}
}

// assertExclusive 同時對同一帳號執行多次 Do，確認任何時刻只有一個 fn 在執行
func assertExclusive(t *testing.T, guard Guard) {
	t.Helper()
	var (
		active  int32
		overlap int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = guard.Do(context.Background(), "A0001", func() error {
				if atomic.AddInt32(&active, 1) > 1 {
					atomic.StoreInt32(&overlap, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	if overlap != 0 {
		t.Errorf("critical sections overlapped")
	}
}

func TestGuards_SerializeSameAccount(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sequencer := NewSequencerGuard(10)
	sequencer.Start(ctx)

	t.Run("account", func(t *testing.T) { assertExclusive(t, NewAccountGuard()) })
	t.Run("global", func(t *testing.T) { assertExclusive(t, &GlobalGuard{}) })
	t.Run("sequencer", func(t *testing.T) { assertExclusive(t, sequencer) })
}

func TestAccountGuard_DifferentAccountsDoNotBlock(t *testing.T) {
	guard := NewAccountGuard()
	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = guard.Do(context.Background(), "A0001", func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	done := make(chan struct{})
	go func() {
		_ = guard.Do(context.Background(), "B0002", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Errorf("B0002 was blocked by A0001")
	}
	close(release)
}

func TestAccountGuard_LockTableShrinks(t *testing.T) {
	guard := NewAccountGuard()
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			number := []string{"A0001", "A0002", "A0003"}[i%3]
			_ = guard.Do(context.Background(), number, func() error { return nil })
		}(i)
	}
	wg.Wait()

	guard.mu.Lock()
	defer guard.mu.Unlock()
	if len(guard.locks) != 0 {
		t.Errorf("expected empty lock table, got %d entries", len(guard.locks))
	}
}

func TestGuards_ReturnFnError(t *testing.T) {
	want := errors.New("boom")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sequencer := NewSequencerGuard(1)
	sequencer.Start(ctx)

	for name, guard := range map[string]Guard{
		"account":   NewAccountGuard(),
		"global":    &GlobalGuard{},
		"sequencer": sequencer,
	} {
		t.Run(name, func(t *testing.T) {
			if err := guard.Do(ctx, "A0001", func() error { return want }); !errors.Is(err, want) {
				t.Errorf("expected %v, got %v", want, err)
			}
		})
	}
}

func TestGuards_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, guard := range map[string]Guard{
		"account": NewAccountGuard(),
		"global":  &GlobalGuard{},
	} {
		t.Run(name, func(t *testing.T) {
			called := false
			err := guard.Do(ctx, "A0001", func() error {
				called = true
				return nil
			})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
			if called {
				t.Errorf("fn must not run with a canceled context")
			}
		})
	}
}

func TestSequencerGuard_RecoversPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	guard := NewSequencerGuard(1)
	guard.Start(ctx)

	err := guard.Do(ctx, "A0001", func() error { panic("bad state") })
	if err == nil {
		t.Fatalf("expected panic to surface as an error")
	}

	// 迴圈仍然可以處理後續工作
	if err := guard.Do(ctx, "A0001", func() error { return nil }); err != nil {
		t.Errorf("sequencer stopped after panic: %v", err)
	}
}

func TestSequencerGuard_DrainsOnStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	guard := NewSequencerGuard(10)

	var processed int32
	var wg sync.WaitGroup
	// Start 前先排入工作，確保 cancel 時輸送帶上仍有請求
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = guard.Do(context.Background(), "A0001", func() error {
				atomic.AddInt32(&processed, 1)
				return nil
			})
		}()
	}
	for len(guard.requests) < 5 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	guard.Start(ctx)
	<-guard.Stopped()
	wg.Wait()

	if got := atomic.LoadInt32(&processed); got != 5 {
		t.Errorf("expected 5 processed requests, got %d", got)
	}

	err := guard.Do(context.Background(), "A0001", func() error { return nil })
	if !errors.Is(err, ErrGuardStopped) {
		t.Errorf("expected ErrGuardStopped, got %v", err)
	}
}
