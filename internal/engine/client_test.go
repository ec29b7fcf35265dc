package engine

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"agent-deck/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.EngineConfig{BaseURL: baseURL, TimeoutSec: 5, MaxRetries: 2})
}

func TestToggleRunReturnsAuthoritativeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/agents/7/run" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Pause bool `json:"pause"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if !body.Pause {
			t.Fatal("expected pause=true")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "paused"})
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).ToggleRun(t.Context(), 7, true)
	if err != nil {
		t.Fatalf("ToggleRun: %v", err)
	}
	if status != "paused" {
		t.Fatalf("status = %q, want paused", status)
	}
}

func TestToggleRunRejectedCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "wallet not funded"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ToggleRun(t.Context(), 7, false)
	if !errors.Is(err, ErrTransitionRejected) {
		t.Fatalf("expected ErrTransitionRejected, got %v", err)
	}
	if Message(err) != "wallet not funded" {
		t.Fatalf("message = %q", Message(err))
	}
}

func TestGetRuntimeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetRuntime(t.Context(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRetriesOnServerError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Runtime{Balance: 1000, Equity: 800, Performance: 0.25})
	}))
	defer srv.Close()

	rt, err := newTestClient(srv.URL).GetRuntime(t.Context(), 1)
	if err != nil {
		t.Fatalf("GetRuntime: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
	if rt.Balance != 1000 || rt.Equity != 800 {
		t.Fatalf("unexpected runtime: %+v", rt)
	}
}

func TestMutationsDoNotRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).RequestFaucet(t.Context(), 1, "ETH")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestGetBalanceSnapshotQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("include_usd") != "true" || q.Get("chain_id") != "base-sepolia" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(BalanceSnapshot{
			Balance: 10, Equity: 8,
			Tokens:      []TokenAmount{{Symbol: "ETH", Amount: 1.5}},
			TokenValues: []float64{10},
		})
	}))
	defer srv.Close()

	snap, err := newTestClient(srv.URL).GetBalanceSnapshot(t.Context(), 3, SnapshotOptions{
		IncludeUSD: true, IncludeTokenInfo: true, IncludeTokenBase: true, ChainID: "base-sepolia",
	})
	if err != nil {
		t.Fatalf("GetBalanceSnapshot: %v", err)
	}
	if len(snap.Tokens) != 1 || snap.Tokens[0].Symbol != "ETH" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
