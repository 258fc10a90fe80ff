// Terminal front desk: the same conversation engine as the API, over stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/adapters/events"
	"frontdesk/internal/adapters/llm"
	"frontdesk/internal/adapters/observability"
	redisad "frontdesk/internal/adapters/redis"
	"frontdesk/internal/app"
	"frontdesk/internal/shared"
	sqliterepo "frontdesk/internal/storage/sqlite"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	prop, err := shared.LoadProperty(cfg.PropertyConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("property config load failed")
	}

	// The terminal receptionist always runs against embedded sqlite; point
	// SQLITE_DSN at a file to share state between runs.
	repo, err := sqliterepo.Open(cfg.SQLiteDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sqlite open failed")
	}
	defer repo.Close()
	if cfg.SQLiteDSN == ":memory:" {
		if err := app.BootstrapCSV(ctx, repo, cfg.CSVPath, cfg.SeedWorkers); err != nil {
			log.Fatal().Err(err).Str("csv", cfg.CSVPath).Msg("inventory bootstrap failed")
		}
	}

	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cache := redisad.NewCache(rdb)
	sessions := redisad.NewSessions(rdb, cfg.SessionTTL)

	engine, err := llm.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("llm engine init failed")
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL, prop)
	b := app.NewBookingService(repo, q, events.Nop{})
	recep := app.NewReceptionist(q, b, sessions, engine, prop, cfg.LLMWordCap)

	sessionID := uuid.NewString()
	fmt.Println("AI: " + app.GreetingMessage)

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nGuest: ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "bye", "goodbye":
			fmt.Println("\nAI: " + app.FarewellMessage)
			return
		}

		turn, err := recep.Handle(ctx, sessionID, line)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Println("\nAI: I apologize, something went wrong on my end. Please try again.")
			continue
		}
		fmt.Println("\nAI: " + turn.Reply)
	}
}
