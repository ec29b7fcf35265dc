package wallet

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"agent-deck/internal/engine"
	"agent-deck/internal/format"
	"agent-deck/internal/store"
	"agent-deck/internal/valuation"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type Engine interface {
	GetBalanceSnapshot(ctx context.Context, agentID int64, opts engine.SnapshotOptions) (*engine.BalanceSnapshot, error)
	GetBalanceHistory(ctx context.Context, agentID int64) ([]engine.BalancePoint, error)
	RequestFaucet(ctx context.Context, agentID int64, symbol string) error
}

type Store interface {
	GetAgentByID(ctx context.Context, id int64) (*store.Agent, error)
	RecordFaucetGrant(ctx context.Context, agentID int64, symbol, status string) (string, error)
}

type Service struct {
	store  Store
	engine Engine

	snapshots singleflight.Group

	mu      sync.Mutex
	faucets map[int64]bool
}

func NewService(st Store, eng Engine) *Service {
	return &Service{store: st, engine: eng, faucets: make(map[int64]bool)}
}

func (s *Service) Balances(ctx context.Context, userID, agentID int64) (*View, error) {
	a, err := s.owned(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	snap, err := s.fetchSnapshot(ctx, a)
	if err != nil {
		return nil, err
	}
	return buildView(snap), nil
}

// History hands the engine's balance series through untouched; the
// chart is the only consumer.
func (s *Service) History(ctx context.Context, userID, agentID int64) ([]engine.BalancePoint, error) {
	if _, err := s.owned(ctx, userID, agentID); err != nil {
		return nil, err
	}
	points, err := s.engine.GetBalanceHistory(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []engine.BalancePoint{}
	}
	return points, nil
}

// Faucet requests a test-token top-up. One faucet call per agent may be
// outstanding regardless of token; on success the snapshot is refetched
// rather than locally adjusted.
func (s *Service) Faucet(ctx context.Context, userID, agentID int64, symbol string) (*View, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, ErrInvalidToken
	}
	a, err := s.owned(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.faucets[agentID] {
		s.mu.Unlock()
		return nil, ErrFaucetPending
	}
	s.faucets[agentID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.faucets, agentID)
		s.mu.Unlock()
	}()

	if err := s.engine.RequestFaucet(ctx, agentID, symbol); err != nil {
		_, _ = s.store.RecordFaucetGrant(ctx, agentID, symbol, "failed")
		return nil, err
	}
	_, _ = s.store.RecordFaucetGrant(ctx, agentID, symbol, "granted")

	s.snapshots.Forget(snapshotKey(agentID))
	snap, err := s.fetchSnapshot(ctx, a)
	if err != nil {
		return nil, err
	}
	return buildView(snap), nil
}

func (s *Service) fetchSnapshot(ctx context.Context, a *store.Agent) (*engine.BalanceSnapshot, error) {
	v, err, _ := s.snapshots.Do(snapshotKey(a.ID), func() (any, error) {
		return s.engine.GetBalanceSnapshot(ctx, a.ID, engine.SnapshotOptions{
			IncludeUSD:       true,
			IncludeTokenInfo: true,
			IncludeTokenBase: true,
			ChainID:          a.ChainID,
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*engine.BalanceSnapshot), nil
}

func snapshotKey(agentID int64) string {
	return strconv.FormatInt(agentID, 10)
}

// buildView joins the snapshot's token amounts with their metadata on
// case-insensitive symbol match. Amounts without metadata are dropped
// from the render list; catalogs lag newly listed tokens and the raw
// snapshot still holds them.
func buildView(snap *engine.BalanceSnapshot) *View {
	meta := make(map[string]engine.TokenInfo, len(snap.TokenInfo))
	for _, info := range snap.TokenInfo {
		meta[strings.ToLower(info.Symbol)] = info
	}

	rows := make([]TokenRow, 0, len(snap.Tokens))
	for i, tok := range snap.Tokens {
		info, ok := meta[strings.ToLower(tok.Symbol)]
		if !ok {
			log.Debug().Str("symbol", tok.Symbol).Msg("no token metadata, dropped from render list")
			continue
		}
		var usd float64
		if i < len(snap.TokenValues) {
			usd = snap.TokenValues[i]
		}
		rows = append(rows, TokenRow{
			Symbol:    info.Symbol,
			LogoURI:   info.LogoURI,
			Decimals:  info.Decimals,
			RawAmount: tok.Amount,
			USDValue:  usd,
		})
	}

	return &View{
		Balance:     snap.Balance,
		BalanceText: format.USD(snap.Balance),
		Equity:      snap.Equity,
		PnL:         valuation.Summarize(snap.Balance, snap.Equity, snap.Performance),
		Tokens:      rows,
	}
}

func (s *Service) owned(ctx context.Context, userID, id int64) (*store.Agent, error) {
	a, err := s.store.GetAgentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}
