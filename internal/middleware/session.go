package middleware

import (
	"errors"
	"net/http"

	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/repository"
	"github.com/breadlab/breadquiz/internal/response"
	"github.com/breadlab/breadquiz/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// ContextKeySessionID is the Gin context key for the resolved session ID.
	ContextKeySessionID = "quiz_session_id"
	// ContextKeySession is the Gin context key for the session as loaded.
	ContextKeySession = "quiz_session"
)

// RequireQuizSession resolves :session_id and loads the session, rejecting
// malformed IDs and unknown or expired sessions.
func RequireQuizSession(quizService *service.QuizService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("session_id"))
		if err != nil {
			response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}

		sess, err := quizService.Get(c.Request.Context(), id)
		if errors.Is(err, repository.ErrSessionNotFound) {
			response.AbortFail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("session_id", id.String()).Msg("Load quiz session failed")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Set(ContextKeySessionID, id)
		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// GetSessionID returns the session ID set by RequireQuizSession.
func GetSessionID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ContextKeySessionID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// GetSession returns the session loaded by RequireQuizSession, or nil.
func GetSession(c *gin.Context) *model.QuizSession {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.QuizSession)
	return sess
}
