package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// 併發策略名稱，對應設定檔 ledger.guard
const (
	GuardAccount   = "account"
	GuardGlobal    = "global"
	GuardSequencer = "sequencer"
)

var (
	// ErrUnknownGuard 設定了不存在的併發策略
	ErrUnknownGuard = errors.New("unknown guard policy")

	// ErrGuardStopped Sequencer 已停止，不再接受新工作
	ErrGuardStopped = errors.New("guard stopped")
)

// Guard 讓 load -> mutate -> save 整段成為互斥區段，避免 lost update
type Guard interface {
	// Do 在 accountNumber 對應的互斥區段內執行 fn，回傳 fn 的錯誤
	Do(ctx context.Context, accountNumber string, fn func() error) error
}

// NewGuard 依策略名稱建立 Guard；sequencer 會在此啟動並跟隨 ctx 結束
func NewGuard(ctx context.Context, policy string) (Guard, error) {
	switch policy {
	case GuardAccount, "":
		return NewAccountGuard(), nil
	case GuardGlobal:
		return &GlobalGuard{}, nil
	case GuardSequencer:
		g := NewSequencerGuard(defaultSequencerBuffer)
		g.Start(ctx)
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGuard, policy)
	}
}

// GlobalGuard 用單一 Mutex 串行化所有帳戶的變更操作
type GlobalGuard struct {
	mu sync.Mutex
}

func (g *GlobalGuard) Do(ctx context.Context, _ string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}

// AccountGuard 每個帳號一把鎖，不同帳號之間互不阻塞
//
// 結構:
//
//	mu: 保護 locks 表本身
//	locks: 帳號 -> 鎖；refs 歸零 (沒有持有者也沒有等待者) 時移除，避免表無限成長
type AccountGuard struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func NewAccountGuard() *AccountGuard {
	return &AccountGuard{locks: make(map[string]*accountLock)}
}

func (g *AccountGuard) Do(ctx context.Context, accountNumber string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := g.acquire(accountNumber)
	l.mu.Lock()
	defer g.release(accountNumber, l)
	return fn()
}

func (g *AccountGuard) acquire(accountNumber string) *accountLock {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[accountNumber]
	if !ok {
		l = &accountLock{}
		g.locks[accountNumber] = l
	}
	l.refs++
	return l
}

func (g *AccountGuard) release(accountNumber string, l *accountLock) {
	l.mu.Unlock()
	g.mu.Lock()
	defer g.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(g.locks, accountNumber)
	}
}

const defaultSequencerBuffer = 1000

// sequencerRequest 工作請求包裝 channel，讓 Do 可以等待結果
type sequencerRequest struct {
	fn     func() error
	result chan error
}

// SequencerGuard 單一寫入者：所有變更操作排進同一條輸送帶，由一個 goroutine 依序執行
//
// Do(等待) -> Channel -> Run Loop -> fn -> Result Channel -> Do(收到結果)
type SequencerGuard struct {
	requests chan *sequencerRequest
	stopped  chan struct{}
	once     sync.Once
	// Pool 減少 GC 壓力
	requestPool sync.Pool
}

// NewSequencerGuard 建立 SequencerGuard，buffer 為輸送帶容量
// 使用前必須先呼叫 Start
func NewSequencerGuard(buffer int) *SequencerGuard {
	return &SequencerGuard{
		requests: make(chan *sequencerRequest, buffer),
		stopped:  make(chan struct{}),
		requestPool: sync.Pool{
			New: func() interface{} {
				return &sequencerRequest{result: make(chan error, 1)}
			},
		},
	}
}

// Start 啟動執行迴圈 (非同步)；ctx 結束時先把輸送帶上剩下的工作做完再停止
func (g *SequencerGuard) Start(ctx context.Context) {
	g.once.Do(func() {
		go g.run(ctx)
	})
}

// Stopped 在執行迴圈結束後關閉
func (g *SequencerGuard) Stopped() <-chan struct{} {
	return g.stopped
}

// Do 排入工作並等待結果
// 工作一旦進入輸送帶就一定會被執行，因此之後不再理會呼叫端的 ctx
func (g *SequencerGuard) Do(ctx context.Context, _ string, fn func() error) error {
	req := g.requestPool.Get().(*sequencerRequest)
	req.fn = fn

	select {
	case g.requests <- req:
	case <-g.stopped:
		g.recycle(req)
		return ErrGuardStopped
	case <-ctx.Done():
		g.recycle(req)
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		g.recycle(req)
		return err
	case <-g.stopped:
		// 迴圈停止前送出的結果一定已在 channel 裡
		select {
		case err := <-req.result:
			return err
		default:
			// 請求可能還留在輸送帶上，不放回 Pool
			return ErrGuardStopped
		}
	}
}

func (g *SequencerGuard) recycle(req *sequencerRequest) {
	req.fn = nil
	g.requestPool.Put(req)
}

func (g *SequencerGuard) run(ctx context.Context) {
	defer close(g.stopped)
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號，把剩下的工作處理完
			g.drain()
			return
		case req := <-g.requests:
			g.process(req)
		}
	}
}

func (g *SequencerGuard) drain() {
	for {
		select {
		case req := <-g.requests:
			g.process(req)
		default:
			return
		}
	}
}

// process 執行單筆工作並回傳結果；panic 轉成錯誤，避免整條輸送帶停擺
func (g *SequencerGuard) process(req *sequencerRequest) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sequencer: panic: %v", r)
			}
		}()
		err = req.fn()
	}()
	req.result <- err
}

var (
	_ Guard = (*GlobalGuard)(nil)
	_ Guard = (*AccountGuard)(nil)
	_ Guard = (*SequencerGuard)(nil)
)
