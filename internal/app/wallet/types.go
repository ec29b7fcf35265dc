package wallet

import (
	"agent-deck/internal/valuation"
)

// TokenRow is one renderable line of the wallet token list: catalog
// metadata joined with the snapshot amount and its USD valuation.
type TokenRow struct {
	Symbol    string  `json:"symbol"`
	LogoURI   string  `json:"logo_uri"`
	Decimals  int     `json:"decimals"`
	RawAmount float64 `json:"raw_amount"`
	USDValue  float64 `json:"usd_value"`
}

type View struct {
	Balance     float64           `json:"balance"`
	BalanceText string            `json:"balance_text"`
	Equity      float64           `json:"equity"`
	PnL         valuation.Summary `json:"pnl"`
	Tokens      []TokenRow        `json:"tokens"`
}
