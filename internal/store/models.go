package store

import "time"

type User struct {
	ID         int64
	Name       string
	APIKeyHash string
	CreatedAt  time.Time
}

// KnowledgeEntry is a free-form note attached to an agent; stored and
// returned verbatim, never interpreted by the dashboard.
type KnowledgeEntry struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type Agent struct {
	ID              int64
	UserID          int64
	Name            string
	ChainID         string
	WalletAddress   string
	Strategy        string
	StopLossUSD     *float64
	TakeProfitUSD   *float64
	IntervalSeconds int64
	EndDate         *time.Time
	IsRunning       bool
	Knowledge       []KnowledgeEntry
	CreatedAt       time.Time
}

// AgentToken is one entry of an agent's ordered token selection, unique
// by address within the agent.
type AgentToken struct {
	AgentID      int64
	TokenSymbol  string
	TokenAddress string
	Position     int
}

// AvailableToken is a chain-scoped catalog entry; address is the unique
// key within the chain.
type AvailableToken struct {
	ChainID  string
	Symbol   string
	Address  string
	LogoURI  string
	Decimals int
}

type FaucetGrant struct {
	ID        string
	AgentID   int64
	Symbol    string
	Status    string
	CreatedAt time.Time
}

// UpdateAgentSettingsParams covers exactly the fields the settings form
// owns; anything else on the agent row is left untouched.
type UpdateAgentSettingsParams struct {
	Strategy        string
	StopLossUSD     *float64
	TakeProfitUSD   *float64
	IntervalSeconds int64
	EndDate         *time.Time
	Tokens          []AgentToken
}
