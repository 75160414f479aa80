package model

// 测验定义来自静态内容目录（content/<course>/<module>/quiz-<lesson>.json），
// 运行时只读，不入库。

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
)

type QuizOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question 正确答案的 JSON 形态由题型决定：
// multiple-choice 为选项 id（string），true-false 为 bool
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	CorrectAnswer interface{}  `json:"correctAnswer"`
	Options       []QuizOption `json:"options,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
}

type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	CourseID     string     `json:"courseId"`
	ModuleID     string     `json:"moduleId"`
	LessonID     string     `json:"lessonId"`
	PassingScore int        `json:"passingScore"` // 0-100
	Questions    []Question `json:"questions"`
}

// QuestionPublic 发给前端做题用的投影，结构上就不存在正确答案字段
type QuestionPublic struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt"`
	Options []QuizOption `json:"options,omitempty"`
}

// SubmittedAnswer Answer 经 JSON 绑定后为 bool 或 string，由校验器按题型检查
type SubmittedAnswer struct {
	QuestionID string      `json:"questionId" binding:"required"`
	Answer     interface{} `json:"answer"`
}

// QuestionResult 判分后的逐题回顾视图，这是唯一向调用方暴露正确答案的地方
type QuestionResult struct {
	QuestionID     string       `json:"questionId"`
	Prompt         string       `json:"prompt"`
	Type           QuestionType `json:"type"`
	Options        []QuizOption `json:"options,omitempty"`
	SelectedAnswer interface{}  `json:"selectedAnswer"`
	CorrectAnswer  interface{}  `json:"correctAnswer"`
	IsCorrect      bool         `json:"isCorrect"`
	Explanation    string       `json:"explanation,omitempty"`
}

// StoredAnswer 入库的精简投影，不重复测验内容
type StoredAnswer struct {
	QuestionID string      `json:"questionId"`
	Answer     interface{} `json:"answer"`
	IsCorrect  bool        `json:"isCorrect"`
}
