package handler

import (
	"errors"
	"net/http"

	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/repository"
	"github.com/breadlab/breadquiz/internal/response"
	"github.com/breadlab/breadquiz/internal/service"
)

// failure is the transport view of a service error. Warnings are refusals
// the visitor can fix; nothing was changed by the request.
type failure struct {
	status  int
	code    response.ErrCode
	warning bool
}

func classify(err error) failure {
	switch {
	case errors.Is(err, model.ErrAnswerRequired):
		return failure{http.StatusUnprocessableEntity, response.ErrAnswerRequired, true}
	case errors.Is(err, model.ErrIncompleteAnswers):
		return failure{http.StatusUnprocessableEntity, response.ErrIncompleteAnswers, true}
	case errors.Is(err, model.ErrAtLastQuestion):
		return failure{http.StatusConflict, response.ErrAtLastQuestion, true}
	case errors.Is(err, model.ErrQuestionOutOfRange), errors.Is(err, service.ErrOptionOutOfRange):
		return failure{http.StatusBadRequest, response.ErrValidation, true}
	case errors.Is(err, service.ErrResultInFlight):
		return failure{http.StatusConflict, response.ErrResultInFlight, true}
	case errors.Is(err, service.ErrNoResult):
		return failure{http.StatusConflict, response.ErrNoResult, true}
	case errors.Is(err, service.ErrLLMNotConfigured):
		return failure{http.StatusServiceUnavailable, response.ErrLLMNotConfigured, false}
	case errors.Is(err, service.ErrGenerationFailed):
		return failure{http.StatusBadGateway, response.ErrGenerationFailed, false}
	case errors.Is(err, repository.ErrSessionNotFound):
		return failure{http.StatusNotFound, response.ErrSessionNotFound, false}
	default:
		return failure{http.StatusInternalServerError, response.ErrInternal, false}
	}
}
