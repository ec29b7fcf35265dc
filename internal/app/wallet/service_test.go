package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agent-deck/internal/engine"
	"agent-deck/internal/store"
)

type fakeEngine struct {
	snapshotFn func(ctx context.Context, id int64, opts engine.SnapshotOptions) (*engine.BalanceSnapshot, error)
	historyFn  func(ctx context.Context, id int64) ([]engine.BalancePoint, error)
	faucetFn   func(ctx context.Context, id int64, symbol string) error
}

func (f *fakeEngine) GetBalanceSnapshot(ctx context.Context, id int64, opts engine.SnapshotOptions) (*engine.BalanceSnapshot, error) {
	if f.snapshotFn == nil {
		return &engine.BalanceSnapshot{}, nil
	}
	return f.snapshotFn(ctx, id, opts)
}

func (f *fakeEngine) GetBalanceHistory(ctx context.Context, id int64) ([]engine.BalancePoint, error) {
	if f.historyFn == nil {
		return nil, nil
	}
	return f.historyFn(ctx, id)
}

func (f *fakeEngine) RequestFaucet(ctx context.Context, id int64, symbol string) error {
	if f.faucetFn == nil {
		return nil
	}
	return f.faucetFn(ctx, id, symbol)
}

type fakeStore struct {
	mu     sync.Mutex
	agents map[int64]store.Agent
	grants []store.FaucetGrant
}

func newFakeStore() *fakeStore {
	return &fakeStore{agents: map[int64]store.Agent{
		1: {ID: 1, UserID: 10, Name: "alpha", ChainID: "base-sepolia", CreatedAt: time.Now()},
	}}
}

func (f *fakeStore) GetAgentByID(_ context.Context, id int64) (*store.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.agents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (f *fakeStore) RecordFaucetGrant(_ context.Context, agentID int64, symbol, status string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants = append(f.grants, store.FaucetGrant{ID: store.NewID(), AgentID: agentID, Symbol: symbol, Status: status})
	return "", nil
}

func snapshotFixture() *engine.BalanceSnapshot {
	return &engine.BalanceSnapshot{
		Balance:     1000,
		Equity:      800,
		Performance: 0.25,
		Tokens: []engine.TokenAmount{
			{Symbol: "ETH", Amount: 1.5},
			{Symbol: "XYZ", Amount: 10},
			{Symbol: "usdc", Amount: 250},
		},
		TokenValues: []float64{600, 150, 250},
		TokenInfo: []engine.TokenInfo{
			{Symbol: "ETH", LogoURI: "eth.png", Decimals: 18},
			{Symbol: "USDC", LogoURI: "usdc.png", Decimals: 6},
		},
	}
}

func TestBalancesJoinDropsUnmatchedAndKeepsOrder(t *testing.T) {
	st := newFakeStore()
	eng := &fakeEngine{snapshotFn: func(_ context.Context, _ int64, opts engine.SnapshotOptions) (*engine.BalanceSnapshot, error) {
		if !opts.IncludeUSD || !opts.IncludeTokenInfo || !opts.IncludeTokenBase {
			t.Fatalf("snapshot options incomplete: %+v", opts)
		}
		if opts.ChainID != "base-sepolia" {
			t.Fatalf("chain id = %q", opts.ChainID)
		}
		return snapshotFixture(), nil
	}}
	svc := NewService(st, eng)

	view, err := svc.Balances(t.Context(), 10, 1)
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if len(view.Tokens) != 2 {
		t.Fatalf("rows = %d, want 2 (XYZ dropped): %+v", len(view.Tokens), view.Tokens)
	}
	if view.Tokens[0].Symbol != "ETH" || view.Tokens[1].Symbol != "USDC" {
		t.Fatalf("order not preserved: %+v", view.Tokens)
	}
	// USD values stay paired by snapshot position, not render position.
	if view.Tokens[0].USDValue != 600 || view.Tokens[1].USDValue != 250 {
		t.Fatalf("values not positionally paired: %+v", view.Tokens)
	}
	if view.Tokens[1].RawAmount != 250 || view.Tokens[1].Decimals != 6 {
		t.Fatalf("case-insensitive join lost data: %+v", view.Tokens[1])
	}
	if view.PnL.Text != "+$200.00 (+25.00%)" {
		t.Fatalf("pnl text = %q", view.PnL.Text)
	}
}

func TestBalancesUnknownAgent(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEngine{})
	if _, err := svc.Balances(t.Context(), 10, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := svc.Balances(t.Context(), 99, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign agent: got %v, want ErrNotFound", err)
	}
}

func TestFaucetSingleFlightPerAgent(t *testing.T) {
	st := newFakeStore()
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	eng := &fakeEngine{
		faucetFn: func(_ context.Context, _ int64, _ string) error {
			mu.Lock()
			calls++
			mu.Unlock()
			close(entered)
			<-release
			return nil
		},
		snapshotFn: func(context.Context, int64, engine.SnapshotOptions) (*engine.BalanceSnapshot, error) {
			return snapshotFixture(), nil
		},
	}
	svc := NewService(st, eng)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Faucet(context.Background(), 10, 1, "ETH")
		done <- err
	}()
	<-entered

	// Different token, same agent: still blocked.
	if _, err := svc.Faucet(t.Context(), 10, 1, "USDC"); !errors.Is(err, ErrFaucetPending) {
		t.Fatalf("overlapping faucet: got %v, want ErrFaucetPending", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first faucet: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("engine faucet calls = %d, want exactly 1 during overlap", calls)
	}
}

func TestFaucetSuccessRefetchesSnapshot(t *testing.T) {
	st := newFakeStore()
	var snapshotCalls int
	var mu sync.Mutex
	eng := &fakeEngine{
		snapshotFn: func(context.Context, int64, engine.SnapshotOptions) (*engine.BalanceSnapshot, error) {
			mu.Lock()
			snapshotCalls++
			mu.Unlock()
			return snapshotFixture(), nil
		},
	}
	svc := NewService(st, eng)

	view, err := svc.Faucet(t.Context(), 10, 1, "ETH")
	if err != nil {
		t.Fatalf("Faucet: %v", err)
	}
	mu.Lock()
	if snapshotCalls != 1 {
		mu.Unlock()
		t.Fatalf("snapshot calls = %d, want 1 refetch", snapshotCalls)
	}
	mu.Unlock()
	if view.Balance != 1000 {
		t.Fatalf("view balance = %v", view.Balance)
	}
	if len(st.grants) != 1 || st.grants[0].Status != "granted" || st.grants[0].Symbol != "ETH" {
		t.Fatalf("grants = %+v", st.grants)
	}
}

func TestFaucetFailureSurfacesEngineError(t *testing.T) {
	st := newFakeStore()
	eng := &fakeEngine{
		faucetFn: func(context.Context, int64, string) error {
			return engine.ErrTransitionRejected
		},
		snapshotFn: func(context.Context, int64, engine.SnapshotOptions) (*engine.BalanceSnapshot, error) {
			t.Fatal("no refetch after a failed faucet")
			return nil, nil
		},
	}
	svc := NewService(st, eng)

	_, err := svc.Faucet(t.Context(), 10, 1, "ETH")
	if !errors.Is(err, engine.ErrTransitionRejected) {
		t.Fatalf("got %v, want engine error", err)
	}
	if len(st.grants) != 1 || st.grants[0].Status != "failed" {
		t.Fatalf("grants = %+v, want one failed audit row", st.grants)
	}
}

func TestFaucetRequiresToken(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEngine{})
	if _, err := svc.Faucet(t.Context(), 10, 1, "  "); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestHistoryPassThrough(t *testing.T) {
	st := newFakeStore()
	points := []engine.BalancePoint{
		{Timestamp: time.Unix(1000, 0).UTC(), Balance: 10},
		{Timestamp: time.Unix(2000, 0).UTC(), Balance: 12},
	}
	eng := &fakeEngine{historyFn: func(context.Context, int64) ([]engine.BalancePoint, error) {
		return points, nil
	}}
	svc := NewService(st, eng)

	got, err := svc.History(t.Context(), 10, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 || got[0].Balance != 10 || got[1].Balance != 12 {
		t.Fatalf("history = %+v", got)
	}

	eng.historyFn = func(context.Context, int64) ([]engine.BalancePoint, error) { return nil, nil }
	got, err = svc.History(t.Context(), 10, 1)
	if err != nil || got == nil {
		t.Fatalf("empty history must be a non-nil slice, got %v err=%v", got, err)
	}
}
