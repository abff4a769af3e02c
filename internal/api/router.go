package api

import (
	"log/slog"
	"net/http"
	"strings"

	"econsim/internal/api/handlers"
	"econsim/internal/api/middleware"
	"econsim/internal/api/models"
	"econsim/internal/cache"
	"econsim/internal/logging"

	"github.com/gin-gonic/gin"
)

// Options configures the router.
type Options struct {
	Logger         *slog.Logger
	Runs           *cache.Cache[*handlers.Run]
	MaxSteps       int
	AllowedOrigins []string
}

// NewRouter wires middleware and routes.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	router := gin.New()

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.ErrorHandler(opts.Logger))

	sims := handlers.NewSimulationHandler(opts.Runs, opts.Logger, opts.MaxSteps)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/models", handlers.ListModels)

		v1.POST("/simulations", sims.RunSimulation)
		v1.POST("/simulations/compare", sims.CompareSimulations)
		v1.GET("/simulations/:id", sims.GetSimulation)
	}

	router.NoRoute(func(c *gin.Context) {
		msg := "Not found"
		if !strings.HasPrefix(c.Request.URL.Path, "/api") {
			msg = "Not found; the API lives under /api/v1"
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: msg},
		})
	})

	return router
}
