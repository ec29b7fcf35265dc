package httptransport

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appagent "agent-deck/internal/app/agent"
	appwallet "agent-deck/internal/app/wallet"
	"agent-deck/internal/config"
	"agent-deck/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Backend is the slice of the store the transport layer touches
// directly: auth lookups, the token catalog, and liveness.
type Backend interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*store.User, error)
	ListAvailableTokens(ctx context.Context, chainID string) ([]store.AvailableToken, error)
	Ping(ctx context.Context) error
}

func NewRouter(cfg config.ServerConfig, db Backend, agentSvc *appagent.Service, walletSvc *appwallet.Service) *chi.Mux {
	agentHandlers := NewAgentHandlers(agentSvc)
	walletHandlers := NewWalletHandlers(walletSvc)
	publicHandlers := NewPublicHandlers(db, cfg.DefaultChainID)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", publicHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/tokens/available", publicHandlers.AvailableTokens())

		r.Group(func(r chi.Router) {
			r.Use(UserAuthMiddleware(db))
			r.Get("/agents", agentHandlers.List())
			r.Get("/agents/{agent_id}", agentHandlers.Get())
			r.Post("/agents/{agent_id}/toggle", agentHandlers.Toggle())
			r.Put("/agents/{agent_id}/settings", agentHandlers.Settings())
			r.Put("/agents/{agent_id}/knowledge", agentHandlers.Knowledge())
			r.Get("/agents/{agent_id}/balances", walletHandlers.Balances())
			r.Get("/agents/{agent_id}/balances/history", walletHandlers.History())
			r.Post("/agents/{agent_id}/faucet", walletHandlers.Faucet())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminKey))
			r.Route("/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
