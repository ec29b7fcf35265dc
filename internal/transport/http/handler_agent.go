package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	appagent "agent-deck/internal/app/agent"
	"agent-deck/internal/engine"
	"agent-deck/internal/store"

	"github.com/go-chi/chi/v5"
)

type AgentHandlers struct {
	svc *appagent.Service
}

func NewAgentHandlers(svc *appagent.Service) *AgentHandlers {
	return &AgentHandlers{svc: svc}
}

func agentIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "agent_id"), 10, 64)
	return id, err == nil && id > 0
}

// rejectionCode prefers the engine's own reason when it sent one.
func rejectionCode(err error) string {
	if msg := engine.Message(err); msg != "" {
		return msg
	}
	return "transition_rejected"
}

func (h *AgentHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		cards, err := h.svc.List(r.Context(), user.ID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": cards})
	}
}

func (h *AgentHandlers) Get() http.HandlerFunc {
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
		detail, err := h.svc.Get(r.Context(), user.ID, id)
		if err != nil {
			if errors.Is(err, appagent.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(detail)
	}
}

func (h *AgentHandlers) Toggle() http.HandlerFunc {
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
			IsRunning bool `json:"is_running"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricToggleTotal.Add(1)
		res, err := h.svc.Toggle(r.Context(), user.ID, id, body.IsRunning)
		if err != nil {
			metricToggleErrors.Add(1)
			switch {
			case errors.Is(err, appagent.ErrNotFound):
				WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
			case errors.Is(err, appagent.ErrTogglePending):
				WriteHTTPError(w, http.StatusConflict, "toggle_pending")
			case errors.Is(err, engine.ErrTransitionRejected):
				WriteHTTPError(w, http.StatusConflict, rejectionCode(err))
			case errors.Is(err, engine.ErrUnavailable):
				WriteHTTPError(w, http.StatusBadGateway, "engine_unavailable")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func (h *AgentHandlers) Settings() http.HandlerFunc {
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
		var body appagent.SettingsInput
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricSettingsSaveTotal.Add(1)
		if err := h.svc.UpdateSettings(r.Context(), user.ID, id, body); err != nil {
			metricSettingsSaveErrors.Add(1)
			var ve *appagent.ValidationError
			switch {
			case errors.As(err, &ve):
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_settings", "fields": ve.Fields})
			case errors.Is(err, appagent.ErrNotFound):
				WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
			case errors.Is(err, engine.ErrTransitionRejected):
				WriteHTTPError(w, http.StatusConflict, rejectionCode(err))
			case errors.Is(err, engine.ErrUnavailable):
				WriteHTTPError(w, http.StatusBadGateway, "engine_unavailable")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AgentHandlers) Knowledge() http.HandlerFunc {
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
			Entries []store.KnowledgeEntry `json:"entries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.svc.UpdateKnowledge(r.Context(), user.ID, id, body.Entries); err != nil {
			if errors.Is(err, appagent.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
