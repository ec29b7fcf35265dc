package agent

import (
	"time"

	"agent-deck/internal/store"
	"agent-deck/internal/valuation"
)

// SettingsInput carries the settings form fields as edited: the interval
// magnitude arrives as raw text, triggers as optional numbers, the end
// date as an RFC 3339 instant or empty for "no expiry".
type SettingsInput struct {
	SelectedAddresses []string `json:"selected_tokens"`
	Strategy          string   `json:"strategy"`
	StopLossUSD       *float64 `json:"stop_loss_usd"`
	TakeProfitUSD     *float64 `json:"take_profit_usd"`
	IntervalValue     string   `json:"interval_value"`
	IntervalUnit      string   `json:"interval_unit"`
	EndDate           string   `json:"end_date"`
}

type TriggerState string

const (
	TriggerUnset    TriggerState = "unset"
	TriggerZero     TriggerState = "zero"
	TriggerPositive TriggerState = "positive"
)

// Trigger keeps "not set" and "trigger at zero" distinguishable; whether
// a zero trigger means "sell immediately" is the engine's call, the
// dashboard only preserves the distinction.
type Trigger struct {
	State TriggerState
	Value float64
}

// Ptr flattens the trigger for storage and the engine wire: nil when
// unset, a pointer otherwise (zero included).
func (t Trigger) Ptr() *float64 {
	switch t.State {
	case TriggerZero:
		z := 0.0
		return &z
	case TriggerPositive:
		v := t.Value
		return &v
	default:
		return nil
	}
}

// AgentConfig is the canonical, submit-ready configuration produced by
// NormalizeSettings.
type AgentConfig struct {
	Tokens          []store.AgentToken
	Strategy        string
	StopLoss        Trigger
	TakeProfit      Trigger
	IntervalSeconds int64
	EndDate         *time.Time
}

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type SelectedToken struct {
	TokenSymbol  string `json:"tokenSymbol"`
	TokenAddress string `json:"tokenAddress"`
}

// CardView is the agent-list card: identity, run state, and the PnL line.
type CardView struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	ChainID      string            `json:"chain_id"`
	IsRunning    bool              `json:"is_running"`
	CreatedAt    time.Time         `json:"created_at"`
	TotalBalance float64           `json:"total_balance"`
	BalanceText  string            `json:"balance_text"`
	PnL          valuation.Summary `json:"pnl"`
}

type DetailView struct {
	CardView
	WalletAddress   string                 `json:"wallet_address"`
	Strategy        string                 `json:"strategy"`
	SelectedTokens  []SelectedToken        `json:"selected_tokens"`
	StopLossUSD     *float64               `json:"stop_loss_usd"`
	TakeProfitUSD   *float64               `json:"take_profit_usd"`
	IntervalSeconds int64                  `json:"interval_seconds"`
	EndDate         *time.Time             `json:"end_date"`
	Knowledge       []store.KnowledgeEntry `json:"knowledge"`
}

const (
	StatusRunning = "running"
	StatusPaused  = "paused"
)

type ToggleResult struct {
	Status    string `json:"status"`
	IsRunning bool   `json:"is_running"`
}
