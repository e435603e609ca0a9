package api

import (
	"io/fs"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vikasavnish/hunterbot/internal/config"
	"github.com/vikasavnish/hunterbot/internal/handlers"
	"github.com/vikasavnish/hunterbot/internal/metrics"
	"github.com/vikasavnish/hunterbot/internal/middleware"
	"github.com/vikasavnish/hunterbot/internal/services"
	"github.com/vikasavnish/hunterbot/internal/strategies"
	"github.com/vikasavnish/hunterbot/internal/websocket"
)

// SetupRouter configures all routes and returns the router
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	wsHub *websocket.Hub,
	desk services.DeskService,
	catalog *strategies.Catalog,
	assets fs.FS,
	log zerolog.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logging(log))

	router.HandleFunc("/api/health", HealthHandler(desk, wsHub)).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	router.HandleFunc("/ws", SessionSocketHandler(desk, wsHub.HandleWebSocket)).Methods("GET")

	authService := services.NewAuthService(db, cfg.JWT.SecretKey, cfg.JWT.TTL)
	journalService := services.NewJournalService(db)

	authHandler := handlers.NewAuthHandler(authService, log)
	deskHandler := handlers.NewDeskHandler(desk)
	strategyHandler := handlers.NewStrategyHandler(catalog)
	journalHandler := handlers.NewJournalHandler(journalService)
	pageHandler := handlers.NewPageHandler(assets)

	// Public endpoints
	router.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	apiRouter := router.PathPrefix("/api").Subrouter()
	deskHandler.RegisterRoutes(apiRouter)
	strategyHandler.RegisterRoutes(apiRouter)

	// Journal and route listing need a token
	authRouter := apiRouter.PathPrefix("").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(authService))
	journalHandler.RegisterRoutes(authRouter)
	authRouter.HandleFunc("/routes", PrintRoutesHandler(router)).Methods("GET")

	pageHandler.RegisterRoutes(router)

	return router
}
