package handler

import (
	"context"
	"net/http"

	"github.com/breadlab/breadquiz/internal/middleware"
	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/response"
	"github.com/breadlab/breadquiz/internal/service"
	"github.com/breadlab/breadquiz/internal/validator"
	ws "github.com/breadlab/breadquiz/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuizHandler serves the quiz over REST and SSE.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log.With().Str("component", "quiz_handler").Logger(),
	}
}

// fail logs unexpected errors and writes the mapped error envelope. Warnings
// carry the unchanged session view so the client can re-render.
func (h *QuizHandler) fail(c *gin.Context, err error, sess *model.QuizSession) {
	f := classify(err)
	if f.status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("code", string(f.code)).Msg("Quiz request failed")
	}
	if f.warning && sess != nil {
		response.FailWithData(c, f.status, f.code, gin.H{"session": h.quizService.View(sess)})
		return
	}
	response.Fail(c, f.status, f.code)
}

func (h *QuizHandler) respond(c *gin.Context, status int, sess *model.QuizSession) {
	response.Success(c, status, gin.H{"session": h.quizService.View(sess)})
}

// GetQuestions godoc
// GET /api/v1/quiz/questions
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"questions": h.quizService.Questions()})
}

// StartSession godoc
// POST /api/v1/quiz/sessions
func (h *QuizHandler) StartSession(c *gin.Context) {
	sess, err := h.quizService.Start(c.Request.Context())
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	h.respond(c, http.StatusCreated, sess)
}

// GetSession godoc
// GET /api/v1/quiz/sessions/:session_id
func (h *QuizHandler) GetSession(c *gin.Context) {
	h.respond(c, http.StatusOK, middleware.GetSession(c))
}

// SelectAnswer godoc
// PUT /api/v1/quiz/sessions/:session_id/answers
func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.quizService.SelectAnswer(c.Request.Context(), middleware.GetSessionID(c), *req.Question, *req.Option)
	if err != nil {
		h.fail(c, err, sess)
		return
	}
	h.respond(c, http.StatusOK, sess)
}

// Next godoc
// POST /api/v1/quiz/sessions/:session_id/next
func (h *QuizHandler) Next(c *gin.Context) {
	h.transition(c, h.quizService.Next)
}

// Previous godoc
// POST /api/v1/quiz/sessions/:session_id/previous
func (h *QuizHandler) Previous(c *gin.Context) {
	h.transition(c, h.quizService.Previous)
}

// Reset godoc
// POST /api/v1/quiz/sessions/:session_id/reset
func (h *QuizHandler) Reset(c *gin.Context) {
	h.transition(c, h.quizService.Reset)
}

func (h *QuizHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.QuizSession, error)) {
	sess, err := fn(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, sess)
		return
	}
	h.respond(c, http.StatusOK, sess)
}

// StreamResult godoc
// GET /api/v1/quiz/sessions/:session_id/result/stream
// Streams the result as SSE: "progress" events carry the full text so far,
// then a single "result" or "error" event ends the stream. Refusals that
// happen before generation starts are plain JSON errors.
func (h *QuizHandler) StreamResult(c *gin.Context) {
	id := middleware.GetSessionID(c)
	started := false
	startStream := func() {
		if started {
			return
		}
		started = true
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Status(http.StatusOK)
	}

	sess, err := h.quizService.GenerateResult(c.Request.Context(), id, func(text string) {
		startStream()
		c.SSEvent(string(ws.EventProgress), gin.H{"text": text})
		c.Writer.Flush()
	})
	if err != nil {
		f := classify(err)
		if !started && f.code != response.ErrGenerationFailed {
			h.fail(c, err, sess)
			return
		}
		startStream()
		c.SSEvent(string(ws.EventError), gin.H{
			"code":    f.code,
			"message": response.GetMessage(f.code),
		})
		c.Writer.Flush()
		return
	}

	startStream()
	c.SSEvent(string(ws.EventResult), gin.H{
		"result":  *sess.Result,
		"session": h.quizService.View(sess),
	})
	c.Writer.Flush()
}
