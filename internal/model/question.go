package model

// Question is one static quiz item. Options are shown in order and the chosen
// label itself is what gets recorded as the answer.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// QuestionView is a question as shown to the visitor, with its 1-based number.
type QuestionView struct {
	Number         int      `json:"number"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options"`
	SelectedOption *int     `json:"selected_option"`
}

// OptionIndex returns the position of label among the options, or -1.
func (q Question) OptionIndex(label string) int {
	for i, opt := range q.Options {
		if opt == label {
			return i
		}
	}
	return -1
}

// BakeryQuestions returns the bakery-situation question set. Every call builds
// a fresh copy so callers cannot alter the shared definition.
func BakeryQuestions() []Question {
	return []Question{
		{
			Prompt: "1) 빵집에 들어가자마자 당신의 시선은?",
			Options: []string{
				"오늘의 신상/베스트 빵 👀",
				"늘 먹던 익숙한 빵 코너",
				"사람들 많이 고른 빵",
				"천천히 한 바퀴 돌며 전체 탐색",
			},
		},
		{
			Prompt: "2) 사고 싶은 빵이 딱 하나 남아 있다면?",
			Options: []string{
				"고민 없이 바로 집는다",
				"괜히 다른 빵도 비교해본다",
				"다른 사람에게 양보할까 잠깐 고민",
				"다음에 와도 되지… 하고 내려놓는다",
			},
		},
		{
			Prompt: "3) 직원이 빵을 추천해준다면?",
			Options: []string{
				"오 추천 좋아요! 그걸로 주세요",
				"참고만 하고 내 취향대로 고른다",
				"왜 추천인지 이유부터 듣는다",
				"괜히 거절 못 하고 추천받은 걸 산다",
			},
		},
		{
			Prompt: "4) 줄이 생각보다 길다. 이때 당신은?",
			Options: []string{
				"상관없음! 기다리는 김에 구경",
				"속으로 조급해지지만 참고 기다림",
				"나중에 올까 고민하다가 나간다",
				"친구랑 같이라면 수다로 버팀",
			},
		},
		{
			Prompt: "5) 계산대 앞, 마지막 선택의 순간!",
			Options: []string{
				"원래 계획한 빵만 산다",
				"하나쯤 더… 충동 추가",
				"누군가 줄 선 사람을 의식해 빠르게 결정",
				"지금 기분에 끌리는 걸 고른다",
			},
		},
	}
}

// SelectAnswerRequest is the payload for choosing an option of a question.
// Both indexes are 0-based.
type SelectAnswerRequest struct {
	Question *int `json:"question" binding:"required,min=0"`
	Option   *int `json:"option" binding:"required,min=0"`
}
