package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/adapters/events"
	server "frontdesk/internal/adapters/http_server"
	"frontdesk/internal/adapters/llm"
	"frontdesk/internal/adapters/observability"
	redisad "frontdesk/internal/adapters/redis"
	"frontdesk/internal/app"
	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
	mysqlrepo "frontdesk/internal/storage/mysql"
	pgrepo "frontdesk/internal/storage/postgres"
	sqliterepo "frontdesk/internal/storage/sqlite"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	prop, err := shared.LoadProperty(cfg.PropertyConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("property config load failed")
	}

	repo := openStore(ctx, cfg)

	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cache := redisad.NewCache(rdb)
	sessions := redisad.NewSessions(rdb, cfg.SessionTTL)

	engine, err := llm.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("llm engine init failed")
	}
	if engine == nil {
		log.Warn().Msg("LLM disabled; serving structured answers")
	} else {
		log.Info().Str("engine", engine.Name()).Msg("llm engine ready")
	}

	var publisher domain.EventPublisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("event publisher init failed")
		}
		defer p.Close()
		publisher = p
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL, prop)
	b := app.NewBookingService(repo, q, publisher)
	recep := app.NewReceptionist(q, b, sessions, engine, prop, cfg.LLMWordCap)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{R: recep, Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// openStore connects the configured room store. The sqlite store bootstraps
// its inventory from CSV_PATH when the database is empty-by-construction
// (:memory:).
func openStore(ctx context.Context, cfg shared.Config) domain.RoomRepository {
	switch cfg.Store {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("mysql connection ok")
		return mysqlrepo.New(db)

	case "postgres":
		repo, err := pgrepo.Connect(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect failed")
		}
		log.Info().Msg("postgres connection ok")
		return repo

	case "sqlite", "":
		repo, err := sqliterepo.Open(cfg.SQLiteDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite open failed")
		}
		if cfg.SQLiteDSN == ":memory:" {
			if err := app.BootstrapCSV(ctx, repo, cfg.CSVPath, cfg.SeedWorkers); err != nil {
				log.Fatal().Err(err).Str("csv", cfg.CSVPath).Msg("inventory bootstrap failed")
			}
		}
		return repo

	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown STORE")
		return nil
	}
}
