package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionState enumerates the quiz session states.
type SessionState string

const (
	SessionStateInProgress      SessionState = "IN_PROGRESS"
	SessionStateReadyForResult  SessionState = "READY_FOR_RESULT"
	SessionStateResultDisplayed SessionState = "RESULT_DISPLAYED"
)

var (
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrAnswerRequired     = errors.New("answer required before moving on")
	ErrAtLastQuestion     = errors.New("already at the last question")
	ErrIncompleteAnswers  = errors.New("not every question has been answered")
)

// QuizSession is one visitor's walk through the quiz.
//
// Answers is index-aligned with the question set; a nil entry means the
// question has not been answered yet. CurrentIndex always stays within
// [0, len(Answers)-1].
type QuizSession struct {
	ID           uuid.UUID `json:"id"`
	Answers      []*string `json:"answers"`
	CurrentIndex int       `json:"current_index"`
	Result       *string   `json:"result,omitempty"`
	HasResult    bool      `json:"has_result"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewQuizSession creates a session with every answer unset. questionCount
// below one is raised to one so CurrentIndex always has a valid target.
func NewQuizSession(questionCount int) *QuizSession {
	if questionCount < 1 {
		questionCount = 1
	}
	now := time.Now().UTC()
	return &QuizSession{
		ID:        uuid.New(),
		Answers:   make([]*string, questionCount),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *QuizSession) QuestionCount() int {
	return len(s.Answers)
}

func (s *QuizSession) lastIndex() int {
	return len(s.Answers) - 1
}

// SelectAnswer records value for question index. Only the bounds are checked.
func (s *QuizSession) SelectAnswer(index int, value string) error {
	if index < 0 || index >= len(s.Answers) {
		return fmt.Errorf("%w: %d", ErrQuestionOutOfRange, index)
	}
	v := value
	s.Answers[index] = &v
	return nil
}

// Answer returns the recorded answer for index, if any.
func (s *QuizSession) Answer(index int) (string, bool) {
	if index < 0 || index >= len(s.Answers) || s.Answers[index] == nil {
		return "", false
	}
	return *s.Answers[index], true
}

// GoNext advances to the following question. The state is left untouched when
// the current question is unanswered or when already on the last question.
func (s *QuizSession) GoNext() error {
	if s.Answers[s.CurrentIndex] == nil {
		return ErrAnswerRequired
	}
	if s.CurrentIndex >= s.lastIndex() {
		return ErrAtLastQuestion
	}
	s.CurrentIndex++
	return nil
}

// GoPrevious steps back one question; it is a no-op on the first question.
func (s *QuizSession) GoPrevious() {
	if s.CurrentIndex == 0 {
		return
	}
	s.CurrentIndex--
}

// Reset returns the session to its initial state. Answers are the only
// selection state, so nothing comes back pre-selected afterwards.
func (s *QuizSession) Reset() {
	s.Answers = make([]*string, len(s.Answers))
	s.CurrentIndex = 0
	s.ClearResult()
}

func (s *QuizSession) IsComplete() bool {
	for _, a := range s.Answers {
		if a == nil {
			return false
		}
	}
	return true
}

// CompletedAnswers returns the answers as plain strings once all are set.
func (s *QuizSession) CompletedAnswers() ([]string, error) {
	out := make([]string, len(s.Answers))
	for i, a := range s.Answers {
		if a == nil {
			return nil, ErrIncompleteAnswers
		}
		out[i] = *a
	}
	return out, nil
}

// CompleteWith stores the finalized result and marks it displayable.
func (s *QuizSession) CompleteWith(result string) {
	r := result
	s.Result = &r
	s.HasResult = true
}

// ClearResult drops any previous result before a new generation.
func (s *QuizSession) ClearResult() {
	s.Result = nil
	s.HasResult = false
}

func (s *QuizSession) State() SessionState {
	switch {
	case s.HasResult:
		return SessionStateResultDisplayed
	case s.CurrentIndex >= s.lastIndex():
		return SessionStateReadyForResult
	default:
		return SessionStateInProgress
	}
}

// Progress reports the progress bar position as current/total.
func (s *QuizSession) Progress() (current, total int) {
	return s.CurrentIndex, len(s.Answers)
}

// Progress is the progress bar payload.
type Progress struct {
	Current  int     `json:"current"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
	Label    string  `json:"label"`
}

// SessionView is the read model handed to the presentation layer.
type SessionView struct {
	ID              uuid.UUID     `json:"id"`
	State           SessionState  `json:"state"`
	Progress        Progress      `json:"progress"`
	CurrentQuestion *QuestionView `json:"current_question,omitempty"`
	IsLastQuestion  bool          `json:"is_last_question"`
	CanGoBack       bool          `json:"can_go_back"`
	Answers         []*string     `json:"answers"`
	Complete        bool          `json:"complete"`
	Result          *string       `json:"result,omitempty"`
}

// View renders the session against the question set it was created for.
func (s *QuizSession) View(questions []Question) SessionView {
	current, total := s.Progress()
	view := SessionView{
		ID:    s.ID,
		State: s.State(),
		Progress: Progress{
			Current:  current,
			Total:    total,
			Fraction: float64(current) / float64(total),
			Label:    fmt.Sprintf("진행도: %d/%d", current, total),
		},
		IsLastQuestion: s.CurrentIndex == s.lastIndex(),
		CanGoBack:      s.CurrentIndex > 0,
		Answers:        s.Answers,
		Complete:       s.IsComplete(),
	}

	if s.CurrentIndex < len(questions) {
		q := questions[s.CurrentIndex]
		qv := &QuestionView{
			Number:  s.CurrentIndex + 1,
			Prompt:  q.Prompt,
			Options: q.Options,
		}
		if ans, ok := s.Answer(s.CurrentIndex); ok {
			if idx := q.OptionIndex(ans); idx >= 0 {
				qv.SelectedOption = &idx
			}
		}
		view.CurrentQuestion = qv
	}

	// Partial text from an unfinished generation is never shown.
	if s.HasResult {
		view.Result = s.Result
	}
	return view
}
