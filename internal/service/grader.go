package service

import (
	"elearn_backend/internal/model"
	"fmt"
	"math"
)

// 校验和判分是纯函数：不做 I/O，相同输入永远得到相同输出。

// ValidateAnswers 在判分前拒绝无法有效判分的提交。所有错误一次收集完
// 再返回，不在第一个错误上短路。允许少答：未作答的题在判分时按错误处理。
func ValidateAnswers(quiz *model.Quiz, answers []model.SubmittedAnswer) (bool, []string) {
	questions := make(map[string]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	var errs []string
	for _, answer := range answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			errs = append(errs, fmt.Sprintf("unknown question id: %s", answer.QuestionID))
			continue
		}

		switch question.Type {
		case model.TrueFalse:
			if _, ok := answer.Answer.(bool); !ok {
				errs = append(errs, fmt.Sprintf("question %s: expected a boolean answer", question.ID))
			}
		case model.MultipleChoice:
			selected, ok := answer.Answer.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("question %s: expected an option id string", question.ID))
				continue
			}
			if !hasOption(question, selected) {
				errs = append(errs, fmt.Sprintf("question %s: %q is not a valid option", question.ID, selected))
			}
		default:
			errs = append(errs, fmt.Sprintf("question %s: unsupported question type %q", question.ID, question.Type))
		}
	}

	return len(errs) == 0, errs
}

func hasOption(question *model.Question, optionID string) bool {
	for _, option := range question.Options {
		if option.ID == optionID {
			return true
		}
	}
	return false
}

type GradeResult struct {
	Score          int                    `json:"score"`
	Passed         bool                   `json:"passed"`
	CorrectAnswers int                    `json:"correctAnswers"`
	TotalQuestions int                    `json:"totalQuestions"`
	Results        []model.QuestionResult `json:"results"`
	StoredAnswers  []model.StoredAnswer   `json:"-"`
}

// GradeQuiz 按测验声明的题目顺序逐题比对。未作答的题按题型默认值
// （true-false 为 false，multiple-choice 为空串）入库和展示，但默认值
// 永远不算答对。比对是类型敏感的精确相等，不做任何类型转换。
func GradeQuiz(quiz *model.Quiz, answers []model.SubmittedAnswer) *GradeResult {
	submitted := make(map[string]interface{}, len(answers))
	for _, answer := range answers {
		submitted[answer.QuestionID] = answer.Answer
	}

	total := len(quiz.Questions)
	correct := 0
	results := make([]model.QuestionResult, 0, total)
	stored := make([]model.StoredAnswer, 0, total)

	for _, question := range quiz.Questions {
		selected, answered := submitted[question.ID]
		if !answered {
			selected = defaultAnswer(question.Type)
		}

		isCorrect := answered && answersEqual(selected, question.CorrectAnswer)
		if isCorrect {
			correct++
		}

		results = append(results, model.QuestionResult{
			QuestionID:     question.ID,
			Prompt:         question.Prompt,
			Type:           question.Type,
			Options:        question.Options,
			SelectedAnswer: selected,
			CorrectAnswer:  question.CorrectAnswer,
			IsCorrect:      isCorrect,
			Explanation:    question.Explanation,
		})
		stored = append(stored, model.StoredAnswer{
			QuestionID: question.ID,
			Answer:     selected,
			IsCorrect:  isCorrect,
		})
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return &GradeResult{
		Score:          score,
		Passed:         score >= quiz.PassingScore,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Results:        results,
		StoredAnswers:  stored,
	}
}

func defaultAnswer(t model.QuestionType) interface{} {
	if t == model.TrueFalse {
		return false
	}
	return ""
}

// answersEqual 布尔只跟布尔比，字符串只跟字符串比
func answersEqual(selected, correctAnswer interface{}) bool {
	switch want := correctAnswer.(type) {
	case bool:
		got, ok := selected.(bool)
		return ok && got == want
	case string:
		got, ok := selected.(string)
		return ok && got == want
	}
	return false
}
