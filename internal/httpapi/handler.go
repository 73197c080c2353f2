// Package httpapi exposes the tutor over HTTP for browser and script
// clients. Sessions are scoped by the X-Session-Id header so several
// learners can share one server without mixing conversation context.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/memory"
	"github.com/abhisek/sensei/internal/reply"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
)

const headerSessionID = "X-Session-Id"

// Handler serves the ask and session endpoints.
type Handler struct {
	svc      *tutor.Service
	svcErr   error
	sessions *memory.Sessions
	events   store.EventRepo
	log      *zap.SugaredLogger
}

// HandlerOptions wires the handler's collaborators.
type HandlerOptions struct {
	// Service answers questions. Nil when provider configuration failed;
	// ServiceErr then explains why.
	Service *tutor.Service

	// ServiceErr is reported on every ask when Service is nil. The server
	// stays up so health checks and session reads keep working.
	ServiceErr error

	// Sessions holds per-session conversation windows.
	Sessions *memory.Sessions

	// Events records ask telemetry. Nil disables recording.
	Events store.EventRepo

	Log *zap.SugaredLogger
}

// NewHandler builds a Handler from its options.
func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
		svc:      opts.Service,
		svcErr:   opts.ServiceErr,
		sessions: opts.Sessions,
		events:   opts.Events,
		log:      opts.Log,
	}
}

type askResponse struct {
	Explanation string              `json:"explanation"`
	Summary     string              `json:"summary,omitempty"`
	Roadmap     []reply.RoadmapStep `json:"roadmap,omitempty"`
}

// Ask answers one question in the caller's session.
func (h *Handler) Ask(c *gin.Context) {
	var req tutor.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := h.sessionID(c)

	if h.svc == nil {
		msg := "LLM provider not configured"
		if h.svcErr != nil {
			msg = h.svcErr.Error()
		}
		respondError(c, http.StatusInternalServerError, msg)
		return
	}

	window := h.sessions.Window(sessionID)
	ctx := llm.WithPurpose(c.Request.Context(), "ask")

	start := time.Now()
	ans, err := h.svc.Ask(ctx, window, req)
	if err != nil {
		h.respondAskError(c, err)
		return
	}

	h.recordAsk(ctx, sessionID, req, ans, time.Since(start))

	c.JSON(http.StatusOK, askResponse{
		Explanation: ans.Explanation,
		Summary:     ans.Summary,
		Roadmap:     ans.Roadmap,
	})
}

func (h *Handler) respondAskError(c *gin.Context, err error) {
	var ve *tutor.ValidationError
	if errors.As(err, &ve) {
		respondError(c, http.StatusBadRequest, ve.Msg)
		return
	}
	var nc *llm.ErrNotConfigured
	if errors.As(err, &nc) {
		respondError(c, http.StatusInternalServerError, nc.Error())
		return
	}
	respondErrorDetails(c, http.StatusInternalServerError, "upstream LLM call failed", err.Error())
}

func (h *Handler) recordAsk(ctx context.Context, sessionID string, req tutor.AskRequest, ans *tutor.Answer, elapsed time.Duration) {
	if h.events == nil {
		return
	}
	data := store.AskEventData{
		SessionID:    sessionID,
		Mode:         req.Mode,
		WantRoadmap:  req.WantRoadmap,
		Degraded:     ans.Degraded,
		RoadmapSteps: len(ans.Roadmap),
		LatencyMs:    elapsed.Milliseconds(),
	}
	if err := h.events.AppendAsk(ctx, data); err != nil {
		h.log.Warnw("record ask event", "error", err)
	}
}

type exchangeResponse struct {
	Message string `json:"message"`
	Reply   string `json:"reply"`
}

// GetSession returns the session's remembered exchanges, oldest first.
func (h *Handler) GetSession(c *gin.Context) {
	id := h.sessionID(c)
	recent := h.sessions.Window(id).Recent()

	out := make([]exchangeResponse, len(recent))
	for i, ex := range recent {
		out[i] = exchangeResponse{Message: ex.Message, Reply: ex.Reply}
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": id, "exchanges": out})
}

// ResetSession forgets the session's conversation window.
func (h *Handler) ResetSession(c *gin.Context) {
	id := h.sessionID(c)
	h.sessions.Reset(id)
	c.Status(http.StatusNoContent)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sessionID reads the caller's session header, minting a fresh ID when
// absent, and always echoes it on the response.
func (h *Handler) sessionID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(headerSessionID))
	if id == "" {
		id = uuid.NewString()
	}
	c.Writer.Header().Set(headerSessionID, id)
	return id
}
