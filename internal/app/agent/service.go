package agent

import (
	"context"
	"errors"

	"agent-deck/internal/engine"
	"agent-deck/internal/format"
	"agent-deck/internal/store"
	"agent-deck/internal/valuation"

	"github.com/rs/zerolog/log"
)

// Engine is the slice of the chain-engine API this service needs.
type Engine interface {
	GetRuntime(ctx context.Context, agentID int64) (*engine.Runtime, error)
	ToggleRun(ctx context.Context, agentID int64, pause bool) (string, error)
	PushConfig(ctx context.Context, agentID int64, upd engine.ConfigUpdate) error
}

type Store interface {
	GetAgentByID(ctx context.Context, id int64) (*store.Agent, error)
	ListAgentsByUser(ctx context.Context, userID int64) ([]store.Agent, error)
	ListAgentTokens(ctx context.Context, agentID int64) ([]store.AgentToken, error)
	ListAvailableTokens(ctx context.Context, chainID string) ([]store.AvailableToken, error)
	SetAgentRunning(ctx context.Context, id int64, running bool) error
	UpdateAgentSettings(ctx context.Context, id int64, p store.UpdateAgentSettingsParams) error
	UpdateAgentKnowledge(ctx context.Context, id int64, entries []store.KnowledgeEntry) error
}

type Service struct {
	store   Store
	engine  Engine
	toggles *inflight
}

func NewService(st Store, eng Engine) *Service {
	return &Service{store: st, engine: eng, toggles: newInflight()}
}

func (s *Service) List(ctx context.Context, userID int64) ([]CardView, error) {
	agents, err := s.store.ListAgentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CardView, 0, len(agents))
	for _, a := range agents {
		out = append(out, s.cardView(ctx, a))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*DetailView, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tokens, err := s.store.ListAgentTokens(ctx, id)
	if err != nil {
		return nil, err
	}
	selected := make([]SelectedToken, 0, len(tokens))
	for _, t := range tokens {
		selected = append(selected, SelectedToken{TokenSymbol: t.TokenSymbol, TokenAddress: t.TokenAddress})
	}
	knowledge := a.Knowledge
	if knowledge == nil {
		knowledge = []store.KnowledgeEntry{}
	}
	return &DetailView{
		CardView:        s.cardView(ctx, *a),
		WalletAddress:   a.WalletAddress,
		Strategy:        a.Strategy,
		SelectedTokens:  selected,
		StopLossUSD:     a.StopLossUSD,
		TakeProfitUSD:   a.TakeProfitUSD,
		IntervalSeconds: a.IntervalSeconds,
		EndDate:         a.EndDate,
		Knowledge:       knowledge,
	}, nil
}

// Toggle flips the agent between running and paused. At most one toggle
// per agent may be outstanding; the engine's returned status is the
// truth, never the opposite of the requested direction (the engine may
// refuse, e.g. an unfunded wallet cannot start).
func (s *Service) Toggle(ctx context.Context, userID, id int64, currentRunning bool) (*ToggleResult, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	gen, ok := s.toggles.begin(id)
	if !ok {
		return nil, ErrTogglePending
	}
	defer s.toggles.end(id)

	status, err := s.engine.ToggleRun(ctx, id, currentRunning)
	if err != nil {
		return nil, err
	}
	running := status == StatusRunning
	if !s.toggles.fresh(id, gen) {
		// A later toggle already took over; its resolution wins.
		return &ToggleResult{Status: status, IsRunning: running}, nil
	}
	if err := s.store.SetAgentRunning(ctx, id, running); err != nil {
		return nil, err
	}
	return &ToggleResult{Status: status, IsRunning: running}, nil
}

// UpdateSettings normalizes the edited fields, pushes the configuration
// to the engine, then mirrors it locally. Validation failures stop the
// save before any network call.
func (s *Service) UpdateSettings(ctx context.Context, userID, id int64, in SettingsInput) error {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	catalog, err := s.store.ListAvailableTokens(ctx, a.ChainID)
	if err != nil {
		return err
	}
	cfg, fieldErrs := NormalizeSettings(in, catalog)
	if fieldErrs != nil {
		return &ValidationError{Fields: fieldErrs}
	}

	upd := engine.ConfigUpdate{
		Tokens:          make([]engine.SelectedToken, 0, len(cfg.Tokens)),
		Strategy:        cfg.Strategy,
		StopLossUSD:     cfg.StopLoss.Ptr(),
		TakeProfitUSD:   cfg.TakeProfit.Ptr(),
		IntervalSeconds: cfg.IntervalSeconds,
		EndDate:         cfg.EndDate,
	}
	for _, t := range cfg.Tokens {
		upd.Tokens = append(upd.Tokens, engine.SelectedToken{
			TokenSymbol:  t.TokenSymbol,
			TokenAddress: t.TokenAddress,
		})
	}
	if err := s.engine.PushConfig(ctx, id, upd); err != nil {
		return err
	}

	return s.store.UpdateAgentSettings(ctx, id, store.UpdateAgentSettingsParams{
		Strategy:        cfg.Strategy,
		StopLossUSD:     cfg.StopLoss.Ptr(),
		TakeProfitUSD:   cfg.TakeProfit.Ptr(),
		IntervalSeconds: cfg.IntervalSeconds,
		EndDate:         cfg.EndDate,
		Tokens:          cfg.Tokens,
	})
}

func (s *Service) UpdateKnowledge(ctx context.Context, userID, id int64, entries []store.KnowledgeEntry) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.store.UpdateAgentKnowledge(ctx, id, entries)
}

// cardView attaches the engine's valuation to the stored agent. When the
// engine is unreachable the card renders with zeros rather than failing
// the whole list.
func (s *Service) cardView(ctx context.Context, a store.Agent) CardView {
	var balance, equity, performance float64
	rt, err := s.engine.GetRuntime(ctx, a.ID)
	if err != nil {
		log.Debug().Err(err).Int64("agent_id", a.ID).Msg("runtime unavailable, card degrades to zero")
	} else {
		balance, equity, performance = rt.Balance, rt.Equity, rt.Performance
	}
	return CardView{
		ID:           a.ID,
		Name:         a.Name,
		ChainID:      a.ChainID,
		IsRunning:    a.IsRunning,
		CreatedAt:    a.CreatedAt,
		TotalBalance: balance,
		BalanceText:  format.USD(balance),
		PnL:          valuation.Summarize(balance, equity, performance),
	}
}

// owned loads the agent and hides other users' agents behind the same
// not-found error as missing ones.
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
