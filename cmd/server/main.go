package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vikasavnish/hunterbot/internal/api"
	"github.com/vikasavnish/hunterbot/internal/config"
	"github.com/vikasavnish/hunterbot/internal/db"
	"github.com/vikasavnish/hunterbot/internal/logger"
	"github.com/vikasavnish/hunterbot/internal/services"
	"github.com/vikasavnish/hunterbot/internal/strategies"
	"github.com/vikasavnish/hunterbot/internal/tasks"
	"github.com/vikasavnish/hunterbot/internal/trade"
	"github.com/vikasavnish/hunterbot/internal/websocket"
	"github.com/vikasavnish/hunterbot/web"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.Log.Level)
	if envErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}

	created, err := services.NewUserService(database).EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("created admin user")
	}

	catalog, err := strategies.Load(cfg.Bot.StrategiesFile)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	wsHub := websocket.NewHub(log)
	g.Go(func() error {
		wsHub.Run(ctx)
		return nil
	})

	var publisher websocket.Publisher = wsHub
	redisClient, err := db.ConnectRedis(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, notifications stay local")
	} else {
		defer redisClient.Close()
		relay := websocket.NewRelay(ctx, redisClient, cfg.Redis.Channel, wsHub, log)
		publisher = relay
		g.Go(func() error {
			return relay.Run(ctx)
		})
	}

	journal := services.NewJournalService(database)
	desk := services.NewDeskService(ctx, trade.NewBot(cfg.Bot.Delay), catalog, journal, publisher, log)

	taskManager := tasks.NewManager(log)
	taskManager.RegisterTask(tasks.NewSessionSweepTask(desk, cfg.Session.TTL, cfg.Session.SweepInterval, log))
	taskManager.StartScheduledTasks()
	defer taskManager.StopAllTasks()

	router := api.SetupRouter(cfg, database, wsHub, desk, catalog, web.FS(), log)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: corsMiddleware.Handler(router),
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		desk.Wait()
		return err
	})

	return g.Wait()
}
