package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/pkg/kit"
)

func main() {
	log := kit.NewLogger("catalog")
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}

	var (
		productStore catalog.Store
		userStore    auth.UserStore
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database failed", zap.Error(err))
		}
		productStore = catalog.NewPostgresStore(db)
		userStore = auth.NewPostgresStore(db)
	} else {
		productStore = catalog.NewMemStore()
		userStore = auth.NewMemStore()
	}

	tokens := auth.NewTokenMaker(cfg.JWTSecret)

	var verifier auth.Verifier = auth.MarkerVerifier{}
	if cfg.AuthMode == config.AuthModeJWT {
		if len(cfg.JWTSecret) < 32 {
			log.Fatal("JWT_SECRET must be at least 32 chars in jwt mode")
		}
		verifier = auth.NewTokenVerifier(tokens)
	}

	authSrv := &auth.Server{Log: log, Store: userStore, JWT: tokens}
	catalogSrv := &catalog.Server{Store: productStore, Log: log, Auth: verifier}

	h := catalog.NewHandler(catalogSrv, catalog.HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		Auth:           authSrv.Routes(),
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
