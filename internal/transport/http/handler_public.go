package httptransport

import (
	"encoding/json"
	"net/http"
)

type PublicHandlers struct {
	db           Backend
	defaultChain string
}

func NewPublicHandlers(db Backend, defaultChain string) *PublicHandlers {
	return &PublicHandlers{db: db, defaultChain: defaultChain}
}

func (h *PublicHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *PublicHandlers) AvailableTokens() http.HandlerFunc {
	type tokenPayload struct {
		Symbol   string `json:"symbol"`
		Address  string `json:"address"`
		LogoURI  string `json:"logo_uri"`
		Decimals int    `json:"decimals"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		chainID := r.URL.Query().Get("chain_id")
		if chainID == "" {
			chainID = h.defaultChain
		}
		tokens, err := h.db.ListAvailableTokens(r.Context(), chainID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		items := make([]tokenPayload, 0, len(tokens))
		for _, t := range tokens {
			items = append(items, tokenPayload{
				Symbol:   t.Symbol,
				Address:  t.Address,
				LogoURI:  t.LogoURI,
				Decimals: t.Decimals,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "chain_id": chainID})
	}
}
