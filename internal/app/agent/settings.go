package agent

import (
	"strconv"
	"strings"
	"time"

	"agent-deck/internal/store"
)

var unitSeconds = map[string]int64{
	"minute": 60,
	"hour":   3600,
	"day":    86400,
}

// NormalizeSettings validates the edited form fields against the chain's
// token catalog and assembles the canonical configuration. It performs
// no I/O; on any failure it returns the field errors and no config.
func NormalizeSettings(in SettingsInput, catalog []store.AvailableToken) (AgentConfig, []FieldError) {
	var errs []FieldError
	cfg := AgentConfig{
		Strategy: in.Strategy,
		Tokens:   selectTokens(in.SelectedAddresses, catalog),
	}

	if t, ok := triggerFrom(in.StopLossUSD); ok {
		cfg.StopLoss = t
	} else {
		errs = append(errs, FieldError{Field: "stop_loss_usd", Reason: "negative"})
	}
	if t, ok := triggerFrom(in.TakeProfitUSD); ok {
		cfg.TakeProfit = t
	} else {
		errs = append(errs, FieldError{Field: "take_profit_usd", Reason: "negative"})
	}

	value, err := strconv.Atoi(strings.TrimSpace(in.IntervalValue))
	switch {
	case err != nil:
		errs = append(errs, FieldError{Field: "interval_value", Reason: "not_a_number"})
	case value <= 0:
		errs = append(errs, FieldError{Field: "interval_value", Reason: "not_positive"})
	default:
		secs, ok := unitSeconds[in.IntervalUnit]
		if !ok {
			errs = append(errs, FieldError{Field: "interval_unit", Reason: "unknown_unit"})
		} else {
			cfg.IntervalSeconds = int64(value) * secs
		}
	}

	if in.EndDate != "" {
		ts, err := time.Parse(time.RFC3339, in.EndDate)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Field: "end_date", Reason: "not_rfc3339"})
		case ts.Before(time.Now()):
			errs = append(errs, FieldError{Field: "end_date", Reason: "in_past"})
		default:
			cfg.EndDate = &ts
		}
	}

	if len(errs) > 0 {
		return AgentConfig{}, errs
	}
	return cfg, nil
}

// selectTokens keeps the catalog entries whose address was selected,
// preserving catalog order. Addresses compare case-insensitively; an
// empty selection yields an empty, valid set.
func selectTokens(addresses []string, catalog []store.AvailableToken) []store.AgentToken {
	selected := make(map[string]bool, len(addresses))
	for _, addr := range addresses {
		selected[strings.ToLower(addr)] = true
	}
	out := make([]store.AgentToken, 0, len(addresses))
	for _, tok := range catalog {
		if selected[strings.ToLower(tok.Address)] {
			out = append(out, store.AgentToken{
				TokenSymbol:  tok.Symbol,
				TokenAddress: tok.Address,
			})
		}
	}
	return out
}

func triggerFrom(v *float64) (Trigger, bool) {
	if v == nil {
		return Trigger{State: TriggerUnset}, true
	}
	if *v < 0 {
		return Trigger{}, false
	}
	if *v == 0 {
		return Trigger{State: TriggerZero}, true
	}
	return Trigger{State: TriggerPositive, Value: *v}, true
}
