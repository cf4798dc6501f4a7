package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/breadlab/breadquiz/internal/middleware"
	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/response"
	"github.com/breadlab/breadquiz/internal/service"
	"github.com/breadlab/breadquiz/internal/validator"
	ws "github.com/breadlab/breadquiz/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives a quiz session over a single WebSocket connection.
type WSHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/sessions/:session_id
// Sends the current state on connect, then answers every action with a
// state, warning or error event. A result request streams progress events
// and blocks further actions until it finishes.
func (h *WSHandler) QuizStream(c *gin.Context) {
	id := middleware.GetSessionID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", id.String()).Logger()
	wsLog.Info().Msg("Visitor connected")

	if sess := middleware.GetSession(c); sess != nil {
		h.writeState(conn, sess)
	}

	ctx := c.Request.Context()
	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionSelect:
			h.handleSelect(ctx, conn, wsLog, id, &msg)
		case ws.ActionNext:
			h.handleTransition(conn, wsLog)(h.quizService.Next(ctx, id))
		case ws.ActionPrevious:
			h.handleTransition(conn, wsLog)(h.quizService.Previous(ctx, id))
		case ws.ActionReset:
			h.handleTransition(conn, wsLog)(h.quizService.Reset(ctx, id))
		case ws.ActionResult:
			h.handleResult(ctx, conn, wsLog, id)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		}
	}
}

func (h *WSHandler) writeState(conn *websocket.Conn, sess *model.QuizSession) {
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, Session: h.quizService.View(sess)})
}

// writeFailure sends a warning for recoverable refusals and an error otherwise.
func (h *WSHandler) writeFailure(conn *websocket.Conn, wsLog zerolog.Logger, err error) {
	f := classify(err)
	if f.warning {
		ws.WriteWarning(conn, string(f.code), response.GetMessage(f.code))
		return
	}
	if f.status >= http.StatusInternalServerError {
		wsLog.Error().Err(err).Str("code", string(f.code)).Msg("Quiz action failed")
	}
	ws.WriteError(conn, string(f.code), response.GetMessage(f.code))
}

func (h *WSHandler) handleSelect(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, id uuid.UUID, msg *ws.RequestPayload) {
	req := model.SelectAnswerRequest{Question: msg.Question, Option: msg.Option}
	if fields := validator.Struct(&req); fields != nil {
		ws.WriteWarning(conn, string(response.ErrValidation), response.GetMessage(response.ErrValidation))
		return
	}
	h.handleTransition(conn, wsLog)(h.quizService.SelectAnswer(ctx, id, *req.Question, *req.Option))
}

func (h *WSHandler) handleTransition(conn *websocket.Conn, wsLog zerolog.Logger) func(*model.QuizSession, error) {
	return func(sess *model.QuizSession, err error) {
		if err != nil {
			h.writeFailure(conn, wsLog, err)
			return
		}
		h.writeState(conn, sess)
	}
}

func (h *WSHandler) handleResult(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, id uuid.UUID) {
	sess, err := h.quizService.GenerateResult(ctx, id, func(text string) {
		ws.WriteTyped(conn, ws.ProgressResponse{Event: ws.EventProgress, Text: text})
	})
	if err != nil {
		h.writeFailure(conn, wsLog, err)
		return
	}

	wsLog.Info().Msg("Result delivered")
	ws.WriteTyped(conn, ws.ResultResponse{
		Event:   ws.EventResult,
		Result:  *sess.Result,
		Session: h.quizService.View(sess),
	})
}
