package router

import (
	"net/http"
	"time"

	"github.com/breadlab/breadquiz/internal/config"
	"github.com/breadlab/breadquiz/internal/handler"
	"github.com/breadlab/breadquiz/internal/middleware"
	"github.com/breadlab/breadquiz/internal/response"
	"github.com/breadlab/breadquiz/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// questionsMaxAge is how long clients may cache the static question set.
const questionsMaxAge = 3600

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz   *handler.QuizHandler
	WS     *handler.WSHandler
	Health *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	quizService *service.QuizService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware(log))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Health check.
	router.GET("/health", handlers.Health.Health)

	// ─── 1. Quiz API ───────────────────────────────────────────────────
	quizAPI := router.Group("/api/v1/quiz")
	{
		quizAPI.GET("/questions", middleware.CacheControl(questionsMaxAge), handlers.Quiz.GetQuestions)
		quizAPI.POST("/sessions", middleware.NoStore(), handlers.Quiz.StartSession)
	}

	// ─── 2. Session Group (session must exist) ─────────────────────────
	sessionAPI := quizAPI.Group("/sessions/:session_id")
	sessionAPI.Use(middleware.NoStore(), middleware.RequireQuizSession(quizService))
	{
		sessionAPI.GET("", handlers.Quiz.GetSession)
		sessionAPI.PUT("/answers", handlers.Quiz.SelectAnswer)
		sessionAPI.POST("/next", handlers.Quiz.Next)
		sessionAPI.POST("/previous", handlers.Quiz.Previous)
		sessionAPI.POST("/reset", handlers.Quiz.Reset)
		sessionAPI.GET("/result/stream", handlers.Quiz.StreamResult)
		sessionAPI.GET("/share", handlers.Quiz.Share)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireQuizSession(quizService))
	{
		ws.GET("/quiz/sessions/:session_id", handlers.WS.QuizStream)
	}

	return router
}
