package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

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

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("csv", cfg.CSVPath).
		Str("store", cfg.Store).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	rooms, err := app.LoadRoomsCSV(cfg.CSVPath)
	if err != nil {
		log.Fatal().Err(err).Msg("inventory csv load failed")
	}

	prop, err := shared.LoadProperty(cfg.PropertyConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("property config load failed")
	}

	repo := openStore(cfg)
	cache := redisad.NewCache(redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB))
	q := app.NewQueryService(repo, cache, cfg.CacheTTL, prop)

	seeder := app.NewSeeder(repo, q, cfg.SeedWorkers)
	failed, err := seeder.Run(ctx, rooms)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("rooms", len(rooms)).Int("failed", failed).Msg("seeding completed")
}

func openStore(cfg shared.Config) domain.RoomRepository {
	switch cfg.Store {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		return mysqlrepo.New(db)
	case "postgres":
		repo, err := pgrepo.Connect(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect failed")
		}
		return repo
	case "sqlite", "":
		repo, err := sqliterepo.Open(cfg.SQLiteDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite open failed")
		}
		return repo
	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown STORE")
		return nil
	}
}
