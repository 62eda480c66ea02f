package router

import (
	"context"

	cmpsvc "fundmanager-backend/internal/application/comparison"
	peersvc "fundmanager-backend/internal/application/peers"
	portfoliosvc "fundmanager-backend/internal/application/portfolios"
	"fundmanager-backend/internal/config"
	"fundmanager-backend/internal/infrastructure/database"
	cmphandler "fundmanager-backend/internal/interfaces/handlers/comparison"
	healthhandler "fundmanager-backend/internal/interfaces/handlers/health"
	holdhandler "fundmanager-backend/internal/interfaces/handlers/holdings"
	portfoliohandler "fundmanager-backend/internal/interfaces/handlers/portfolios"
	"fundmanager-backend/internal/llm"
	"fundmanager-backend/internal/middleware"
	"fundmanager-backend/internal/valyu"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Portfolio routes need a database; the comparison pipeline
// runs without one.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{ClientURL: cfg.ClientURL}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	valyuClient := &valyu.HTTPClient{
		BaseURL: cfg.ValyuAPIURL,
		APIKey:  cfg.ValyuAPIKey,
		Cache:   rdb,
	}
	searcher := &valyu.HTTPSearcher{
		URL:    cfg.DeepSearchURL,
		APIKey: cfg.ValyuAPIKey,
	}

	var live llm.Completer
	if llm.ValidAPIKey(cfg.GeminiAPIKey) {
		gemini, err := llm.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini client init failed, falling back to mock responses")
		} else {
			live = gemini
		}
	}
	completer := &llm.Fallback{Live: live}

	// Health
	healthHandlers := &healthhandler.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	// Comparison (no DB required)
	comparisonService := &cmpsvc.Service{
		Completer: completer,
		Searcher:  searcher,
		Pacing:    cmpsvc.DefaultPacing,
	}
	comparisonHandlers := &cmphandler.Handlers{Service: comparisonService}
	app.Get("/api/comparison/company-comparison", comparisonHandlers.CompanyComparison)

	if db != nil {
		portfolioService := &portfoliosvc.Service{DB: db, Valyu: valyuClient}
		portfolioHandlers := &portfoliohandler.Handlers{Service: portfolioService}
		portfolioGroup := app.Group("/api/portfolios")
		portfolioGroup.Post("/upload", portfolioHandlers.Upload)
		portfolioGroup.Get("/", portfolioHandlers.List)
		portfolioGroup.Get("/:id", portfolioHandlers.Get)
		portfolioGroup.Delete("/:id", portfolioHandlers.Delete)
		portfolioGroup.Post("/:id/analyse", portfolioHandlers.Analyse)

		peerService := &peersvc.Service{DB: db, Valyu: valyuClient}
		holdingHandlers := &holdhandler.Handlers{Service: peerService}
		portfolioGroup.Post("/:portfolioId/holdings/:holdingId/find-peers", holdingHandlers.FindPeers)
		portfolioGroup.Post("/:portfolioId/holdings/:holdingId/replace", holdingHandlers.Replace)
	}

	return app, db, rdb, nil
}
