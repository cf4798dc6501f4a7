package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/breadlab/breadquiz/internal/model"
	"github.com/gin-gonic/gin"
)

func bindBody(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup(model.BakeryQuestions())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.SelectAnswerRequest
	return Bind(c, &req)
}

func TestBindSelectAnswer(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "valid zero indexes", body: `{"question":0,"option":0}`},
		{name: "valid last", body: `{"question":4,"option":3}`},
		{name: "missing option", body: `{"question":1}`, wantField: "option"},
		{name: "negative question", body: `{"question":-1,"option":0}`, wantField: "question"},
		{name: "question past end", body: `{"question":5,"option":0}`, wantField: "question"},
		{name: "option past end", body: `{"question":2,"option":4}`, wantField: "option"},
		{name: "malformed json", body: `{"question":`, wantField: "detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := bindBody(t, tt.body)
			if tt.wantField == "" {
				if fields != nil {
					t.Fatalf("unexpected errors: %v", fields)
				}
				return
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Fatalf("fields = %v, want key %q", fields, tt.wantField)
			}
		})
	}
}

func TestStruct(t *testing.T) {
	Setup(model.BakeryQuestions())

	q, o := 0, 9
	fields := Struct(&model.SelectAnswerRequest{Question: &q, Option: &o})
	if fields["option"] == "" {
		t.Fatalf("fields = %v", fields)
	}
}
