package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/breadlab/breadquiz/internal/config"
	"github.com/breadlab/breadquiz/internal/handler"
	"github.com/breadlab/breadquiz/internal/llm"
	"github.com/breadlab/breadquiz/internal/model"
	"github.com/breadlab/breadquiz/internal/repository"
	"github.com/breadlab/breadquiz/internal/router"
	"github.com/breadlab/breadquiz/internal/service"
	"github.com/breadlab/breadquiz/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type envelope struct {
	Data struct {
		Session   model.SessionView `json:"session"`
		Questions []model.Question  `json:"questions"`
	} `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func fakeStreamer(err error, parts ...string) llm.Streamer {
	return llm.StreamFunc(func(ctx context.Context, system, user string) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			for _, p := range parts {
				if !yield(p, nil) {
					return
				}
			}
			if err != nil {
				yield("", err)
			}
		}
	})
}

func newTestRouter(t *testing.T, streamer llm.Streamer) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	questions := model.BakeryQuestions()
	validator.Setup(questions)

	repo := repository.NewQuizSessionRepository(rdb, time.Hour, time.Minute)
	svc := service.NewQuizService(repo, streamer, model.DefaultBreadCatalog(), questions, 5*time.Second, log)

	handlers := &router.Handlers{
		Quiz:   handler.NewQuizHandler(svc, log),
		WS:     handler.NewWSHandler(svc, log, nil),
		Health: handler.NewHealthHandler(rdb, streamer != nil, log),
	}
	return router.SetupRouter(svc, handlers, &config.Config{GinMode: gin.TestMode}, log)
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func startSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/quiz/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}
	return "/api/v1/quiz/sessions/" + env.Data.Session.ID.String()
}

func answerAll(t *testing.T, r http.Handler, base string) {
	t.Helper()
	for q := 0; q < 5; q++ {
		w, _ := do(t, r, http.MethodPut, base+"/answers", fmt.Sprintf(`{"question":%d,"option":%d}`, q, q%4))
		if w.Code != http.StatusOK {
			t.Fatalf("answer %d status = %d: %s", q, w.Code, w.Body.String())
		}
		if q < 4 {
			if w, _ := do(t, r, http.MethodPost, base+"/next", ""); w.Code != http.StatusOK {
				t.Fatalf("next %d status = %d", q, w.Code)
			}
		}
	}
}

func TestQuizFlow(t *testing.T) {
	r := newTestRouter(t, fakeStreamer(nil, "1. 🍞 당신의 빵 유형: ", "바게트\n", "2. 🧠 성격 요약: 단단!"))

	w, env := do(t, r, http.MethodGet, "/api/v1/quiz/questions", "")
	if w.Code != http.StatusOK || len(env.Data.Questions) != 5 {
		t.Fatalf("questions: status=%d count=%d", w.Code, len(env.Data.Questions))
	}

	base := startSession(t, r)

	t.Run("next requires an answer", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, base+"/next", "")
		if w.Code != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "ANSWER_REQUIRED" {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		if env.Error.Message != "답변을 선택해줘! 😆" {
			t.Fatalf("message = %q", env.Error.Message)
		}
		if env.Data.Session.Progress.Current != 0 {
			t.Fatal("warning should carry the unchanged session")
		}
	})

	t.Run("result before completion", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, base+"/result/stream", "")
		if w.Code != http.StatusUnprocessableEntity || env.Error.Code != "INCOMPLETE_ANSWERS" {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	})

	answerAll(t, r, base)

	w, env = do(t, r, http.MethodGet, base, "")
	if env.Data.Session.State != model.SessionStateReadyForResult || !env.Data.Session.Complete {
		t.Fatalf("session = %+v", env.Data.Session)
	}

	if w, env := do(t, r, http.MethodPost, base+"/next", ""); w.Code != http.StatusConflict || env.Error.Code != "AT_LAST_QUESTION" {
		t.Fatalf("next at last: status=%d body=%s", w.Code, w.Body.String())
	}

	if w, env := do(t, r, http.MethodGet, base+"/share", ""); w.Code != http.StatusConflict || env.Error.Code != "NO_RESULT" {
		t.Fatalf("share before result: status=%d", w.Code)
	}

	w, _ = do(t, r, http.MethodGet, base+"/result/stream", "")
	body := w.Body.String()
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream") {
		t.Fatalf("content type = %q", w.Header().Get("Content-Type"))
	}
	if strings.Count(body, "event:progress") != 3 || !strings.Contains(body, "event:result") {
		t.Fatalf("unexpected SSE body:\n%s", body)
	}
	if !strings.Contains(body, "쉽게 친해지진 않지만") {
		t.Fatalf("catchphrase missing from result:\n%s", body)
	}

	w, _ = do(t, r, http.MethodGet, base+"/share", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("share: status=%d type=%q", w.Code, w.Header().Get("Content-Type"))
	}
	share := w.Body.String()
	for _, want := range []string{"navigator.clipboard.writeText(", "console.log", "클립보드에 복사했어요!"} {
		if !strings.Contains(share, want) {
			t.Fatalf("share fragment missing %q:\n%s", want, share)
		}
	}

	_, env = do(t, r, http.MethodPost, base+"/reset", "")
	if env.Data.Session.Result != nil || env.Data.Session.Complete || env.Data.Session.Progress.Current != 0 {
		t.Fatalf("reset session = %+v", env.Data.Session)
	}
}

func TestSessionLookupErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	if w, env := do(t, r, http.MethodGet, "/api/v1/quiz/sessions/not-a-uuid", ""); w.Code != http.StatusBadRequest || env.Error.Code != "INVALID_ID" {
		t.Fatalf("bad id: status=%d", w.Code)
	}
	if w, env := do(t, r, http.MethodGet, "/api/v1/quiz/sessions/"+uuid.NewString(), ""); w.Code != http.StatusNotFound || env.Error.Code != "SESSION_NOT_FOUND" {
		t.Fatalf("unknown id: status=%d", w.Code)
	}
}

func TestSelectAnswerValidation(t *testing.T) {
	r := newTestRouter(t, nil)
	base := startSession(t, r)

	w, env := do(t, r, http.MethodPut, base+"/answers", `{"question":0,"option":7}`)
	if w.Code != http.StatusBadRequest || env.Error.Code != "VALIDATION_ERROR" || env.Error.Fields["option"] == "" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestStreamResultNotConfigured(t *testing.T) {
	r := newTestRouter(t, nil)
	base := startSession(t, r)
	answerAll(t, r, base)

	w, env := do(t, r, http.MethodGet, base+"/result/stream", "")
	if w.Code != http.StatusServiceUnavailable || env.Error.Code != "LLM_NOT_CONFIGURED" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	if w, _ := do(t, r, http.MethodPost, base+"/previous", ""); w.Code != http.StatusOK {
		t.Fatalf("navigation should keep working, status=%d", w.Code)
	}
}

func TestStreamResultFailure(t *testing.T) {
	r := newTestRouter(t, fakeStreamer(errors.New("upstream closed"), "He", "llo"))
	base := startSession(t, r)
	answerAll(t, r, base)

	w, _ := do(t, r, http.MethodGet, base+"/result/stream", "")
	body := w.Body.String()
	if !strings.Contains(body, "event:error") || !strings.Contains(body, "GENERATION_FAILED") {
		t.Fatalf("unexpected SSE body:\n%s", body)
	}
	if strings.Contains(body, "event:result") {
		t.Fatal("failed stream must not emit a result")
	}

	_, env := do(t, r, http.MethodGet, base, "")
	if env.Data.Session.Result != nil || env.Data.Session.State == model.SessionStateResultDisplayed {
		t.Fatalf("session shows a result after failure: %+v", env.Data.Session)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"llm_configured":false`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
