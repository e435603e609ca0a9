// Command routes prints the server's route table without starting it.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/api"
	"github.com/vikasavnish/hunterbot/internal/config"
	"github.com/vikasavnish/hunterbot/internal/db"
	"github.com/vikasavnish/hunterbot/internal/services"
	"github.com/vikasavnish/hunterbot/internal/strategies"
	"github.com/vikasavnish/hunterbot/internal/trade"
	"github.com/vikasavnish/hunterbot/internal/websocket"
	"github.com/vikasavnish/hunterbot/web"
)

func main() {
	log := zerolog.New(os.Stderr)

	database, err := db.Connect(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	ctx := context.Background()
	catalog := strategies.Default()
	hub := websocket.NewHub(log)
	desk := services.NewDeskService(ctx, trade.NewBot(0), catalog, services.NewJournalService(database), hub, log)

	router := api.SetupRouter(&config.Config{}, database, hub, desk, catalog, web.FS(), log)
	api.PrintRoutes(os.Stdout, router)
}
