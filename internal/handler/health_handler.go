package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/breadlab/breadquiz/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const pingTimeout = 2 * time.Second

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	rdb           *redis.Client
	llmConfigured bool
	startTime     time.Time
	log           zerolog.Logger
}

func NewHealthHandler(rdb *redis.Client, llmConfigured bool, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		rdb:           rdb,
		llmConfigured: llmConfigured,
		startTime:     time.Now(),
		log:           log.With().Str("component", "health_handler").Logger(),
	}
}

type healthStatus struct {
	Status        string `json:"status"`
	Redis         string `json:"redis"`
	LLMConfigured bool   `json:"llm_configured"`
	Uptime        string `json:"uptime"`

	// Go Application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	GoVersion  string `json:"go_version"`
}

// Health godoc
// GET /health
// Quiz navigation needs Redis; without an API key the service still runs
// and only result generation is unavailable.
func (h *HealthHandler) Health(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	st := healthStatus{
		Status:        "ok",
		Redis:         "ok",
		LLMConfigured: h.llmConfigured,
		Uptime:        formatDuration(time.Since(h.startTime)),
		Goroutines:    runtime.NumGoroutine(),
		HeapAlloc:     ms.HeapAlloc,
		GoVersion:     runtime.Version(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status := http.StatusOK
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		h.log.Warn().Err(err).Msg("Redis ping failed")
		st.Status = "degraded"
		st.Redis = "unreachable"
		status = http.StatusServiceUnavailable
	}

	response.Success(c, status, st)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
