package model

import (
	"errors"
	"testing"
)

func answerAll(t *testing.T, s *QuizSession) {
	t.Helper()
	for i := range s.Answers {
		if err := s.SelectAnswer(i, "A"); err != nil {
			t.Fatalf("SelectAnswer(%d): %v", i, err)
		}
	}
}

func TestNewQuizSession(t *testing.T) {
	s := NewQuizSession(5)

	if s.QuestionCount() != 5 {
		t.Fatalf("QuestionCount = %d, want 5", s.QuestionCount())
	}
	if s.CurrentIndex != 0 || s.HasResult || s.Result != nil {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if s.IsComplete() {
		t.Fatal("new session must not be complete")
	}
	if s.State() != SessionStateInProgress {
		t.Fatalf("State = %s", s.State())
	}

	if got := NewQuizSession(0).QuestionCount(); got != 1 {
		t.Fatalf("zero-question session should be clamped to 1, got %d", got)
	}
}

func TestSelectAnswer(t *testing.T) {
	s := NewQuizSession(5)

	t.Run("in range", func(t *testing.T) {
		if err := s.SelectAnswer(2, "B"); err != nil {
			t.Fatalf("SelectAnswer: %v", err)
		}
		if got, ok := s.Answer(2); !ok || got != "B" {
			t.Fatalf("Answer(2) = %q, %v", got, ok)
		}
		if s.CurrentIndex != 0 {
			t.Fatal("selecting must not move the cursor")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 5} {
			if err := s.SelectAnswer(idx, "X"); !errors.Is(err, ErrQuestionOutOfRange) {
				t.Fatalf("SelectAnswer(%d) err = %v", idx, err)
			}
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		_ = s.SelectAnswer(2, "C")
		if got, _ := s.Answer(2); got != "C" {
			t.Fatalf("Answer(2) = %q, want C", got)
		}
	})
}

func TestGoNext(t *testing.T) {
	s := NewQuizSession(3)

	if err := s.GoNext(); !errors.Is(err, ErrAnswerRequired) {
		t.Fatalf("GoNext without answer err = %v", err)
	}
	if s.CurrentIndex != 0 {
		t.Fatalf("CurrentIndex moved to %d", s.CurrentIndex)
	}

	answerAll(t, s)
	if err := s.GoNext(); err != nil {
		t.Fatalf("GoNext: %v", err)
	}
	if err := s.GoNext(); err != nil {
		t.Fatalf("GoNext: %v", err)
	}
	if s.State() != SessionStateReadyForResult {
		t.Fatalf("State = %s, want READY_FOR_RESULT", s.State())
	}

	if err := s.GoNext(); !errors.Is(err, ErrAtLastQuestion) {
		t.Fatalf("GoNext at last question err = %v", err)
	}
	if s.CurrentIndex != 2 {
		t.Fatalf("CurrentIndex = %d, want 2", s.CurrentIndex)
	}
}

func TestGoPrevious(t *testing.T) {
	s := NewQuizSession(3)

	s.GoPrevious()
	if s.CurrentIndex != 0 {
		t.Fatalf("GoPrevious at 0 moved to %d", s.CurrentIndex)
	}

	answerAll(t, s)
	_ = s.GoNext()
	s.GoPrevious()
	if s.CurrentIndex != 0 {
		t.Fatalf("CurrentIndex = %d, want 0", s.CurrentIndex)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewQuizSession(3)
	answerAll(t, s)
	_ = s.GoNext()
	s.CompleteWith("result")

	if s.State() != SessionStateResultDisplayed {
		t.Fatalf("State = %s", s.State())
	}

	s.Reset()

	if s.CurrentIndex != 0 || s.HasResult || s.Result != nil {
		t.Fatalf("Reset left state behind: %+v", s)
	}
	for i, a := range s.Answers {
		if a != nil {
			t.Fatalf("answer %d still set after Reset", i)
		}
	}
	if len(s.Answers) != 3 {
		t.Fatalf("Reset changed question count to %d", len(s.Answers))
	}
}

func TestCompletedAnswers(t *testing.T) {
	s := NewQuizSession(2)
	_ = s.SelectAnswer(0, "A")

	if _, err := s.CompletedAnswers(); !errors.Is(err, ErrIncompleteAnswers) {
		t.Fatalf("CompletedAnswers err = %v", err)
	}

	_ = s.SelectAnswer(1, "B")
	got, err := s.CompletedAnswers()
	if err != nil {
		t.Fatalf("CompletedAnswers: %v", err)
	}
	if got[0] != "A" || got[1] != "B" {
		t.Fatalf("CompletedAnswers = %v", got)
	}
}

func TestView(t *testing.T) {
	questions := BakeryQuestions()
	s := NewQuizSession(len(questions))
	_ = s.SelectAnswer(0, questions[0].Options[2])

	v := s.View(questions)

	if v.Progress.Label != "진행도: 0/5" || v.Progress.Fraction != 0 {
		t.Fatalf("Progress = %+v", v.Progress)
	}
	if v.CurrentQuestion == nil || v.CurrentQuestion.Number != 1 {
		t.Fatalf("CurrentQuestion = %+v", v.CurrentQuestion)
	}
	if v.CurrentQuestion.SelectedOption == nil || *v.CurrentQuestion.SelectedOption != 2 {
		t.Fatal("selected option should be 2")
	}
	if v.CanGoBack || v.IsLastQuestion {
		t.Fatalf("unexpected navigation flags: %+v", v)
	}

	r := "partial"
	s.Result = &r
	if s.View(questions).Result != nil {
		t.Fatal("result must be hidden until HasResult")
	}

	s.CompleteWith("done")
	if got := s.View(questions).Result; got == nil || *got != "done" {
		t.Fatalf("Result = %v", got)
	}
}
