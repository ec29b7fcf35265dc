package agent

import (
	"testing"
	"time"

	"agent-deck/internal/store"
)

var testCatalog = []store.AvailableToken{
	{ChainID: "base-sepolia", Symbol: "ETH", Address: "0xEEE1", LogoURI: "eth.png", Decimals: 18},
	{ChainID: "base-sepolia", Symbol: "USDC", Address: "0xAAA2", LogoURI: "usdc.png", Decimals: 6},
	{ChainID: "base-sepolia", Symbol: "WBTC", Address: "0xBBB3", LogoURI: "wbtc.png", Decimals: 8},
}

func validInput() SettingsInput {
	return SettingsInput{
		SelectedAddresses: []string{"0xAAA2"},
		Strategy:          "buy dips",
		IntervalValue:     "1",
		IntervalUnit:      "hour",
	}
}

func TestNormalizeInterval(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		unit     string
		wantSecs int64
		wantErr  string
	}{
		{name: "two hours", value: "2", unit: "hour", wantSecs: 7200},
		{name: "one day", value: "1", unit: "day", wantSecs: 86400},
		{name: "thirty minutes", value: "30", unit: "minute", wantSecs: 1800},
		{name: "zero rejected", value: "0", unit: "minute", wantErr: "interval_value"},
		{name: "negative rejected", value: "-5", unit: "hour", wantErr: "interval_value"},
		{name: "non numeric rejected", value: "abc", unit: "hour", wantErr: "interval_value"},
		{name: "fractional rejected", value: "1.5", unit: "hour", wantErr: "interval_value"},
		{name: "unknown unit rejected", value: "1", unit: "week", wantErr: "interval_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.IntervalValue = tt.value
			in.IntervalUnit = tt.unit
			cfg, errs := NormalizeSettings(in, testCatalog)
			if tt.wantErr != "" {
				if !hasFieldError(errs, tt.wantErr) {
					t.Fatalf("expected error on %q, got %v", tt.wantErr, errs)
				}
				return
			}
			if errs != nil {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if cfg.IntervalSeconds != tt.wantSecs {
				t.Fatalf("IntervalSeconds = %d, want %d", cfg.IntervalSeconds, tt.wantSecs)
			}
		})
	}
}

func TestNormalizeTriggers(t *testing.T) {
	zero := 0.0
	fifty := 50.0
	negative := -1.0

	in := validInput()
	in.StopLossUSD = &zero
	in.TakeProfitUSD = &fifty
	cfg, errs := NormalizeSettings(in, testCatalog)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.StopLoss.State != TriggerZero {
		t.Fatalf("StopLoss.State = %q, want zero", cfg.StopLoss.State)
	}
	if cfg.TakeProfit.State != TriggerPositive || cfg.TakeProfit.Value != 50 {
		t.Fatalf("TakeProfit = %+v, want positive 50", cfg.TakeProfit)
	}
	if p := cfg.StopLoss.Ptr(); p == nil || *p != 0 {
		t.Fatalf("zero trigger must flatten to &0, got %v", p)
	}

	in = validInput()
	cfg, errs = NormalizeSettings(in, testCatalog)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.StopLoss.State != TriggerUnset || cfg.StopLoss.Ptr() != nil {
		t.Fatal("absent trigger must stay unset, not zero")
	}

	in = validInput()
	in.StopLossUSD = &negative
	_, errs = NormalizeSettings(in, testCatalog)
	if !hasFieldError(errs, "stop_loss_usd") {
		t.Fatalf("expected stop_loss_usd error, got %v", errs)
	}
}

func TestNormalizeTokenSelection(t *testing.T) {
	in := validInput()
	// Selection order differs from catalog order and address case differs.
	in.SelectedAddresses = []string{"0xbbb3", "0xeee1", "0xDEAD"}
	cfg, errs := NormalizeSettings(in, testCatalog)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(cfg.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(cfg.Tokens), cfg.Tokens)
	}
	// Catalog order wins.
	if cfg.Tokens[0].TokenSymbol != "ETH" || cfg.Tokens[1].TokenSymbol != "WBTC" {
		t.Fatalf("unexpected token order: %+v", cfg.Tokens)
	}
	if cfg.Tokens[0].TokenAddress != "0xEEE1" {
		t.Fatalf("address must come from the catalog, got %q", cfg.Tokens[0].TokenAddress)
	}

	in.SelectedAddresses = nil
	cfg, errs = NormalizeSettings(in, testCatalog)
	if errs != nil {
		t.Fatalf("empty selection must be valid, got %v", errs)
	}
	if cfg.Tokens == nil || len(cfg.Tokens) != 0 {
		t.Fatalf("empty selection must yield an empty set, got %v", cfg.Tokens)
	}
}

func TestNormalizeEndDate(t *testing.T) {
	in := validInput()
	cfg, errs := NormalizeSettings(in, testCatalog)
	if errs != nil || cfg.EndDate != nil {
		t.Fatalf("absent end date must mean no expiry, got cfg=%+v errs=%v", cfg, errs)
	}

	future := time.Now().Add(48 * time.Hour).In(time.FixedZone("KST", 9*3600))
	in.EndDate = future.Format(time.RFC3339)
	cfg, errs = NormalizeSettings(in, testCatalog)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.EndDate == nil || !cfg.EndDate.Equal(future.Truncate(time.Second)) {
		t.Fatalf("EndDate = %v, want instant %v", cfg.EndDate, future)
	}

	in.EndDate = "2020-01-01T00:00:00Z"
	_, errs = NormalizeSettings(in, testCatalog)
	if !hasFieldError(errs, "end_date") {
		t.Fatalf("past end date must be rejected, got %v", errs)
	}

	in.EndDate = "tomorrow"
	_, errs = NormalizeSettings(in, testCatalog)
	if !hasFieldError(errs, "end_date") {
		t.Fatalf("naive date must be rejected, got %v", errs)
	}
}

func TestNormalizeStrategyVerbatim(t *testing.T) {
	in := validInput()
	in.Strategy = ""
	cfg, errs := NormalizeSettings(in, testCatalog)
	if errs != nil {
		t.Fatalf("empty strategy must be permitted, got %v", errs)
	}
	if cfg.Strategy != "" {
		t.Fatalf("Strategy = %q, want empty", cfg.Strategy)
	}

	in.Strategy = "  keep   whitespace \n"
	cfg, _ = NormalizeSettings(in, testCatalog)
	if cfg.Strategy != "  keep   whitespace \n" {
		t.Fatalf("strategy must pass through verbatim, got %q", cfg.Strategy)
	}
}

func hasFieldError(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
