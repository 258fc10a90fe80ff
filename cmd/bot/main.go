// Telegram front desk: each chat ID is its own conversation session.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/adapters/events"
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

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.BotToken == "" {
		log.Fatal().Msg("BOT_TOKEN is required")
	}

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

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram bot init failed")
	}
	log.Info().Str("account", bot.Self.UserName).Msg("bot authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range bot.GetUpdatesChan(u) {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		chatID := update.Message.Chat.ID
		text := strings.TrimSpace(update.Message.Text)

		var reply string
		switch {
		case text == "/start":
			reply = app.GreetingMessage
		default:
			turn, err := recep.Handle(ctx, fmt.Sprintf("tg:%d", chatID), text)
			if err != nil {
				log.Error().Err(err).Int64("chat", chatID).Msg("turn failed")
				reply = "I apologize, something went wrong on my end. Please try again."
			} else {
				reply = turn.Reply
			}
		}

		if _, err := bot.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
			log.Warn().Err(err).Int64("chat", chatID).Msg("telegram send failed")
		}
	}
}

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
