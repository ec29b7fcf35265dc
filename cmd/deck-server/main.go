package main

import (
	"context"
	"net/http"
	"time"

	appagent "agent-deck/internal/app/agent"
	appwallet "agent-deck/internal/app/wallet"
	"agent-deck/internal/config"
	"agent-deck/internal/engine"
	"agent-deck/internal/logging"
	"agent-deck/internal/store"
	httptransport "agent-deck/internal/transport/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	eng := engine.NewClient(cfg.Engine)
	agentSvc := appagent.NewService(st, eng)
	walletSvc := appwallet.NewService(st, eng)

	r := httptransport.NewRouter(cfg.Server, st, agentSvc, walletSvc)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Str("engine", cfg.Engine.BaseURL).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
