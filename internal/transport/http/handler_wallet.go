package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appwallet "agent-deck/internal/app/wallet"
	"agent-deck/internal/engine"
)

type WalletHandlers struct {
	svc *appwallet.Service
}

func NewWalletHandlers(svc *appwallet.Service) *WalletHandlers {
	return &WalletHandlers{svc: svc}
}

func (h *WalletHandlers) Balances() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id, ok := agentIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_agent_id")
			return
		}
		view, err := h.svc.Balances(r.Context(), user.ID, id)
		if err != nil {
			writeWalletError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *WalletHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id, ok := agentIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_agent_id")
			return
		}
		points, err := h.svc.History(r.Context(), user.ID, id)
		if err != nil {
			writeWalletError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": points})
	}
}

func (h *WalletHandlers) Faucet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id, ok := agentIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_agent_id")
			return
		}
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricFaucetTotal.Add(1)
		view, err := h.svc.Faucet(r.Context(), user.ID, id, body.Token)
		if err != nil {
			metricFaucetErrors.Add(1)
			switch {
			case errors.Is(err, appwallet.ErrInvalidToken):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_token")
			case errors.Is(err, appwallet.ErrFaucetPending):
				WriteHTTPError(w, http.StatusConflict, "faucet_pending")
			case errors.Is(err, engine.ErrTransitionRejected):
				WriteHTTPError(w, http.StatusConflict, rejectionCode(err))
			default:
				writeWalletError(w, err)
			}
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func writeWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appwallet.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
	case errors.Is(err, engine.ErrUnavailable):
		WriteHTTPError(w, http.StatusBadGateway, "engine_unavailable")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
