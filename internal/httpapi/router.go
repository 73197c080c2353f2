package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter assembles the gin engine with middleware and routes.
func NewRouter(cfg Config, h *Handler, log *zap.SugaredLogger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(Recovery(log))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/ask", h.Ask)
		api.GET("/session", h.GetSession)
		api.DELETE("/session", h.ResetSession)
	}

	return r
}
