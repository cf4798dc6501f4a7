package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation        ErrCode = "VALIDATION_ERROR"
	ErrInvalidID         ErrCode = "INVALID_ID"
	ErrInvalidPayload    ErrCode = "INVALID_PAYLOAD"
	ErrAnswerRequired    ErrCode = "ANSWER_REQUIRED"
	ErrIncompleteAnswers ErrCode = "INCOMPLETE_ANSWERS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"

	// ─── Quiz flow ─────────────────────────────────────────────────────
	ErrAtLastQuestion ErrCode = "AT_LAST_QUESTION"
	ErrResultInFlight ErrCode = "RESULT_IN_FLIGHT"
	ErrNoResult       ErrCode = "NO_RESULT"

	// ─── Result generation ─────────────────────────────────────────────
	ErrLLMNotConfigured ErrCode = "LLM_NOT_CONFIGURED"
	ErrGenerationFailed ErrCode = "GENERATION_FAILED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "입력값을 다시 확인해주세요."
	case ErrInvalidID:
		return "세션 ID 형식이 올바르지 않아요."
	case ErrInvalidPayload:
		return "요청 형식이 올바르지 않아요."
	case ErrAnswerRequired:
		return "답변을 선택해줘! 😆"
	case ErrIncompleteAnswers:
		return "모든 질문에 답해주세요!"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "요청한 리소스를 찾을 수 없어요."
	case ErrSessionNotFound:
		return "테스트 세션을 찾을 수 없어요. 처음부터 다시 시작해주세요."

	// ─── Quiz flow ─────────────────────────────────────────────────────
	case ErrAtLastQuestion:
		return "마지막 질문이에요. 결과 보기를 눌러주세요!"
	case ErrResultInFlight:
		return "🥐 빵 굽는 중… 잠시만 기다려주세요."
	case ErrNoResult:
		return "아직 공유할 결과가 없어요."

	// ─── Result generation ─────────────────────────────────────────────
	case ErrLLMNotConfigured:
		return "GEMINI_API_KEY를 설정해주세요."
	case ErrGenerationFailed:
		return "AI 분석 중 오류가 발생했어요."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "서버 오류가 발생했어요."
	default:
		return "알 수 없는 오류가 발생했어요."
	}
}
