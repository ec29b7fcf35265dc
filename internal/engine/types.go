package engine

import (
	"context"
	"time"
)

// Runtime is the engine's valuation snapshot for one agent: balance is
// the current mark-to-market USD value, equity the deposit basis, and
// performance the fractional return the engine computed.
type Runtime struct {
	Balance     float64 `json:"balance"`
	Equity      float64 `json:"equity"`
	Performance float64 `json:"performance"`
}

type TokenAmount struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
}

type TokenInfo struct {
	Symbol   string `json:"symbol"`
	LogoURI  string `json:"logo_uri"`
	Decimals int    `json:"decimals"`
}

// BalanceSnapshot is the per-agent point-in-time wallet view. Tokens and
// TokenValues are positionally aligned; TokenInfo is keyed by symbol and
// may lag newly listed tokens.
type BalanceSnapshot struct {
	Balance     float64       `json:"balance"`
	Equity      float64       `json:"equity"`
	Performance float64       `json:"performance"`
	Tokens      []TokenAmount `json:"tokens"`
	TokenValues []float64     `json:"token_values"`
	TokenInfo   []TokenInfo   `json:"token_info"`
}

type SnapshotOptions struct {
	IncludeUSD       bool
	IncludeTokenInfo bool
	IncludeTokenBase bool
	ChainID          string
}

type BalancePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
}

// ConfigUpdate mirrors the normalized agent configuration pushed to the
// engine after a settings save. Nil pointers mean "unset".
type ConfigUpdate struct {
	Tokens          []SelectedToken `json:"selected_tokens"`
	Strategy        string          `json:"strategy"`
	StopLossUSD     *float64        `json:"stop_loss_usd"`
	TakeProfitUSD   *float64        `json:"take_profit_usd"`
	IntervalSeconds int64           `json:"interval_seconds"`
	EndDate         *time.Time      `json:"end_date"`
}

type SelectedToken struct {
	TokenSymbol  string `json:"tokenSymbol"`
	TokenAddress string `json:"tokenAddress"`
}

// API is the chain-engine collaborator surface the dashboard consumes.
type API interface {
	GetRuntime(ctx context.Context, agentID int64) (*Runtime, error)
	ToggleRun(ctx context.Context, agentID int64, pause bool) (string, error)
	PushConfig(ctx context.Context, agentID int64, upd ConfigUpdate) error
	GetBalanceSnapshot(ctx context.Context, agentID int64, opts SnapshotOptions) (*BalanceSnapshot, error)
	GetBalanceHistory(ctx context.Context, agentID int64) ([]BalancePoint, error)
	RequestFaucet(ctx context.Context, agentID int64, symbol string) error
}
