package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/breadlab/breadquiz/internal/middleware"
	"github.com/gin-gonic/gin"
)

const shareNotice = "클립보드에 복사했어요! 📋✨"

// shareTemplate copies the result in the browser. Copy failures are only
// logged to the console.
var shareTemplate = template.Must(template.New("share").Parse(`<div class="share-result">
<p class="share-notice">{{.Notice}}</p>
<script>
async function copyText() {
	try {
		await navigator.clipboard.writeText({{.Text}});
	} catch (err) {
		console.log("Clipboard copy failed:", err);
	}
}
copyText();
</script>
</div>
`))

// Share godoc
// GET /api/v1/quiz/sessions/:session_id/share
// Returns an HTML fragment that copies the displayed result to the clipboard.
func (h *QuizHandler) Share(c *gin.Context) {
	text, err := h.quizService.Share(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, nil)
		return
	}

	var buf bytes.Buffer
	if err := shareTemplate.Execute(&buf, struct {
		Notice string
		Text   string
	}{Notice: shareNotice, Text: text}); err != nil {
		h.fail(c, err, nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
