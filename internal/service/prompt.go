package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/breadlab/breadquiz/internal/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const systemPromptTemplate = `
너는 MZ 감성 만렙의 '빵 심리학자'야 🍞✨
사용자의 선택을 바탕으로 "나는 무슨 빵일까?" 결과를 재밌고 찰떡 비유로 알려줘.
톤은 가볍고 유쾌하게, 이모지 적극 사용!

반드시 아래 형식으로 출력해:
1. 🍞 당신의 빵 유형: [빵 이름]
2. 🧠 성격 요약: [2-3문장, 빵 비유 필수]
3. 💡 관계 팁: [1-2개]
4. 💞 궁합이 좋은 빵: [빵 이름]
5. 🔎 궁합 이유: [왜 잘 맞는지 1-2문장]

중요:
- 빵 이름은 아래 목록 중에서만 선택해:
  %s
- 궁합이 좋은 빵도 위 목록 중에서 선택해.
- 사용자의 답변 패턴을 근거로 설명해.
`

// BuildSystemPrompt embeds the catalog names, in order, as the only bread
// names the model may answer with.
func BuildSystemPrompt(catalog *model.BreadCatalog) string {
	return fmt.Sprintf(systemPromptTemplate, strings.Join(catalog.Names(), ", "))
}

// SystemPrompt is the instruction used with the default catalog.
var SystemPrompt = BuildSystemPrompt(model.DefaultBreadCatalog())

// BuildUserText renders answers as "question1: A, question2: B, ...".
func BuildUserText(answers []string) string {
	parts := make([]string, len(answers))
	for i, ans := range answers {
		parts[i] = fmt.Sprintf("question%d: %s", i+1, ans)
	}
	return strings.Join(parts, ", ")
}

// RenderedPrompt is the system/user pair handed to the streaming client.
type RenderedPrompt struct {
	System string
	User   string
}

// RenderMessages runs the prompt pair through an eino chat template. Values
// are injected as variables, so braces in answers are never interpreted.
func RenderMessages(ctx context.Context, systemPrompt, userText string) (*RenderedPrompt, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{answers}"),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system":  systemPrompt,
		"answers": userText,
	})
	if err != nil {
		return nil, fmt.Errorf("render quiz prompt: %w", err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return nil, fmt.Errorf("render quiz prompt: got %d messages", len(msgs))
	}
	return &RenderedPrompt{System: msgs[0].Content, User: msgs[1].Content}, nil
}
