package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/breadlab/breadquiz/internal/llm"
	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrLLMNotConfigured = errors.New("result generation is not configured")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrResultInFlight   = errors.New("a result is already being generated")
	ErrGenerationFailed = errors.New("result generation failed")
	ErrNoResult         = errors.New("no result to share yet")
)

// ProgressFunc receives the full accumulated text after every fragment.
type ProgressFunc func(text string)

// QuizService drives quiz sessions: navigation, answers and result generation.
type QuizService struct {
	repo          *repository.QuizSessionRepository
	streamer      llm.Streamer
	catalog       *model.BreadCatalog
	questions     []model.Question
	systemPrompt  string
	streamTimeout time.Duration
	log           zerolog.Logger
}

// NewQuizService creates a new QuizService. streamer may be nil, in which case
// navigation works and GenerateResult fails with ErrLLMNotConfigured.
func NewQuizService(
	repo *repository.QuizSessionRepository,
	streamer llm.Streamer,
	catalog *model.BreadCatalog,
	questions []model.Question,
	streamTimeout time.Duration,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		repo:          repo,
		streamer:      streamer,
		catalog:       catalog,
		questions:     questions,
		systemPrompt:  BuildSystemPrompt(catalog),
		streamTimeout: streamTimeout,
		log:           log.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *QuizService) Questions() []model.Question {
	return s.questions
}

// View renders a session for the presentation layer.
func (s *QuizService) View(sess *model.QuizSession) model.SessionView {
	return sess.View(s.questions)
}

// Start creates and stores a fresh session.
func (s *QuizService) Start(ctx context.Context) (*model.QuizSession, error) {
	sess := model.NewQuizSession(len(s.questions))
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.log.Debug().Str("session_id", sess.ID.String()).Msg("Quiz session started")
	return sess, nil
}

func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.QuizSession, error) {
	return s.repo.Get(ctx, id)
}

// ensureIdle rejects transitions while a result stream is in flight.
func (s *QuizService) ensureIdle(ctx context.Context, id uuid.UUID) error {
	streaming, err := s.repo.IsStreaming(ctx, id)
	if err != nil {
		return fmt.Errorf("check stream lock: %w", err)
	}
	if streaming {
		return ErrResultInFlight
	}
	return nil
}

// mutate loads the session, applies fn and saves the result. Nothing is saved
// when fn fails.
func (s *QuizService) mutate(ctx context.Context, id uuid.UUID, fn func(*model.QuizSession) error) (*model.QuizSession, error) {
	if err := s.ensureIdle(ctx, id); err != nil {
		return nil, err
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return sess, err
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// SelectAnswer records option of question as that question's answer.
func (s *QuizService) SelectAnswer(ctx context.Context, id uuid.UUID, question, option int) (*model.QuizSession, error) {
	return s.mutate(ctx, id, func(sess *model.QuizSession) error {
		if question < 0 || question >= len(s.questions) {
			return fmt.Errorf("%w: %d", model.ErrQuestionOutOfRange, question)
		}
		opts := s.questions[question].Options
		if option < 0 || option >= len(opts) {
			return fmt.Errorf("%w: %d", ErrOptionOutOfRange, option)
		}
		return sess.SelectAnswer(question, opts[option])
	})
}

func (s *QuizService) Next(ctx context.Context, id uuid.UUID) (*model.QuizSession, error) {
	return s.mutate(ctx, id, func(sess *model.QuizSession) error {
		return sess.GoNext()
	})
}

func (s *QuizService) Previous(ctx context.Context, id uuid.UUID) (*model.QuizSession, error) {
	return s.mutate(ctx, id, func(sess *model.QuizSession) error {
		sess.GoPrevious()
		return nil
	})
}

func (s *QuizService) Reset(ctx context.Context, id uuid.UUID) (*model.QuizSession, error) {
	return s.mutate(ctx, id, func(sess *model.QuizSession) error {
		sess.Reset()
		return nil
	})
}

// GenerateResult streams a personality result for a completed session.
// onProgress, when set, is called with the full text so far after every
// fragment. On failure the partial text is dropped and HasResult stays false.
// Calling it again rebuilds the same prompt from the same answers.
func (s *QuizService) GenerateResult(ctx context.Context, id uuid.UUID, onProgress ProgressFunc) (*model.QuizSession, error) {
	if s.streamer == nil {
		return nil, ErrLLMNotConfigured
	}

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := sess.CompletedAnswers()
	if err != nil {
		return sess, err
	}

	token, ok, err := s.repo.AcquireStreamLock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("acquire stream lock: %w", err)
	}
	if !ok {
		return sess, ErrResultInFlight
	}
	defer func() {
		if err := s.repo.ReleaseStreamLock(context.WithoutCancel(ctx), id, token); err != nil {
			s.log.Warn().Err(err).Str("session_id", id.String()).Msg("Failed to release stream lock")
		}
	}()

	sess.ClearResult()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	rendered, err := RenderMessages(ctx, s.systemPrompt, BuildUserText(answers))
	if err != nil {
		return nil, err
	}

	raw, err := s.consume(ctx, rendered, onProgress)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", id.String()).Msg("Result generation failed")
		return sess, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	sess.CompleteWith(Finalize(s.catalog, raw))
	if err := s.repo.Save(context.WithoutCancel(ctx), sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Info().
		Str("session_id", id.String()).
		Str("bread_type", ExtractBreadType(raw)).
		Msg("Result generated")
	return sess, nil
}

// consume accumulates the stream into a single text.
func (s *QuizService) consume(ctx context.Context, p *RenderedPrompt, onProgress ProgressFunc) (string, error) {
	if s.streamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.streamTimeout)
		defer cancel()
	}

	var sb strings.Builder
	for fragment, err := range s.streamer.Stream(ctx, p.System, p.User) {
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
		if onProgress != nil {
			onProgress(sb.String())
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Share returns the text to copy for a displayed result.
func (s *QuizService) Share(ctx context.Context, id uuid.UUID) (string, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !sess.HasResult || sess.Result == nil {
		return "", ErrNoResult
	}
	return *sess.Result, nil
}
