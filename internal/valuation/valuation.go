// Package valuation derives profit-and-loss figures for an agent from
// its balance (current mark-to-market value) and equity (deposit basis),
// plus the fractional performance ratio reported by the engine.
package valuation

import "agent-deck/internal/format"

type Class string

const (
	ClassNeutral  Class = "neutral"
	ClassPositive Class = "positive"
	ClassNegative Class = "negative"
)

// Summary is the render-ready PnL line for one agent.
type Summary struct {
	PnL        float64 `json:"pnl"`
	PnLPercent float64 `json:"pnl_percent"`
	Class      Class   `json:"class"`
	Text       string  `json:"text"`
}

// Summarize computes the PnL view. An agent with zero equity has no
// deposit yet, so both its PnL and its percentage are pinned to zero
// rather than producing meaningless figures. Otherwise the percentage
// comes from the engine-supplied performance ratio, not from
// pnl/equity.
func Summarize(balance, equity, performance float64) Summary {
	pnl := 0.0
	pct := 0.0
	if equity != 0 {
		pnl = balance - equity
		pct = performance * 100
	}

	s := Summary{PnL: pnl, PnLPercent: pct}
	switch {
	case pnl > 0:
		s.Class = ClassPositive
		s.Text = "+" + format.USD(pnl) + " (+" + format.Percent(pct) + ")"
	case pnl < 0:
		s.Class = ClassNegative
		s.Text = "-" + format.USD(-pnl) + " (" + format.Percent(pct) + ")"
	default:
		s.Class = ClassNeutral
		s.Text = "-"
	}
	return s
}
