package service

import (
	"elearn_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() *model.Quiz {
	return &model.Quiz{
		ID:           "quiz-go-basics",
		Title:        "Go 基础测验",
		PassingScore: 70,
		Questions: []model.Question{
			{
				ID:            "q1",
				Type:          model.MultipleChoice,
				Prompt:        "哪个关键字声明变量？",
				CorrectAnswer: "b",
				Options: []model.QuizOption{
					{ID: "a", Label: "func"},
					{ID: "b", Label: "var"},
					{ID: "c", Label: "type"},
				},
			},
			{
				ID:            "q2",
				Type:          model.TrueFalse,
				Prompt:        "Go 有异常机制",
				CorrectAnswer: false,
			},
			{
				ID:            "q3",
				Type:          model.TrueFalse,
				Prompt:        "切片是引用类型",
				CorrectAnswer: true,
				Explanation:   "切片头包含指向底层数组的指针",
			},
			{
				ID:            "q4",
				Type:          model.MultipleChoice,
				Prompt:        "哪个是内建函数？",
				CorrectAnswer: "a",
				Options: []model.QuizOption{
					{ID: "a", Label: "append"},
					{ID: "b", Label: "push"},
				},
			},
		},
	}
}

func TestGradeQuizAllCorrect(t *testing.T) {
	quiz := sampleQuiz()
	answers := []model.SubmittedAnswer{
		{QuestionID: "q1", Answer: "b"},
		{QuestionID: "q2", Answer: false},
		{QuestionID: "q3", Answer: true},
		{QuestionID: "q4", Answer: "a"},
	}

	result := GradeQuiz(quiz, answers)

	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 4, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)
	for _, r := range result.Results {
		assert.True(t, r.IsCorrect, "question %s", r.QuestionID)
	}
}

func TestGradeQuizPartial(t *testing.T) {
	quiz := sampleQuiz()
	answers := []model.SubmittedAnswer{
		{QuestionID: "q1", Answer: "b"},
		{QuestionID: "q2", Answer: true},
		{QuestionID: "q3", Answer: true},
		{QuestionID: "q4", Answer: "b"},
	}

	result := GradeQuiz(quiz, answers)

	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.CorrectAnswers)
}

func TestGradeQuizRounding(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions = quiz.Questions[:3]
	answers := []model.SubmittedAnswer{
		{QuestionID: "q1", Answer: "b"},
		{QuestionID: "q2", Answer: false},
	}

	result := GradeQuiz(quiz, answers)

	// 2/3 = 66.67 -> 67
	assert.Equal(t, 67, result.Score)
	assert.False(t, result.Passed)
}

func TestGradeQuizUnansweredNeverCorrect(t *testing.T) {
	quiz := sampleQuiz()

	// q2 的正确答案就是 false，但未作答时默认的 false 也不能算对
	result := GradeQuiz(quiz, []model.SubmittedAnswer{})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.CorrectAnswers)
	assert.False(t, result.Passed)

	for _, r := range result.Results {
		assert.False(t, r.IsCorrect)
		switch r.Type {
		case model.TrueFalse:
			assert.Equal(t, false, r.SelectedAnswer)
		case model.MultipleChoice:
			assert.Equal(t, "", r.SelectedAnswer)
		}
	}
}

func TestGradeQuizZeroQuestions(t *testing.T) {
	quiz := &model.Quiz{ID: "empty", PassingScore: 70, Questions: []model.Question{}}

	result := GradeQuiz(quiz, nil)

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.TotalQuestions)
}

func TestGradeQuizResultsFollowQuizOrder(t *testing.T) {
	quiz := sampleQuiz()
	// 提交顺序和题目顺序相反
	answers := []model.SubmittedAnswer{
		{QuestionID: "q4", Answer: "a"},
		{QuestionID: "q3", Answer: true},
		{QuestionID: "q2", Answer: false},
		{QuestionID: "q1", Answer: "b"},
	}

	result := GradeQuiz(quiz, answers)

	require.Len(t, result.Results, 4)
	assert.Equal(t, "q1", result.Results[0].QuestionID)
	assert.Equal(t, "q4", result.Results[3].QuestionID)
}

func TestGradeQuizDoesNotMutateInput(t *testing.T) {
	quiz := sampleQuiz()
	answers := []model.SubmittedAnswer{{QuestionID: "q1", Answer: "b"}}

	first := GradeQuiz(quiz, answers)
	second := GradeQuiz(quiz, answers)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, "b", quiz.Questions[0].CorrectAnswer)
	assert.Len(t, quiz.Questions, 4)
}

func TestValidateAnswersOK(t *testing.T) {
	quiz := sampleQuiz()
	valid, errs := ValidateAnswers(quiz, []model.SubmittedAnswer{
		{QuestionID: "q1", Answer: "a"},
		{QuestionID: "q2", Answer: true},
	})

	assert.True(t, valid)
	assert.Empty(t, errs)
}

func TestValidateAnswersAccumulatesErrors(t *testing.T) {
	quiz := sampleQuiz()
	valid, errs := ValidateAnswers(quiz, []model.SubmittedAnswer{
		{QuestionID: "ghost", Answer: "a"},
		{QuestionID: "q1", Answer: "z"},
		{QuestionID: "q2", Answer: "not-a-bool"},
		{QuestionID: "q4", Answer: true},
	})

	assert.False(t, valid)
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "unknown question id")
	assert.Contains(t, errs[1], "not a valid option")
	assert.Contains(t, errs[2], "expected a boolean")
	assert.Contains(t, errs[3], "expected an option id")
}

func TestPublicQuestionsOmitCorrectAnswer(t *testing.T) {
	quiz := sampleQuiz()
	store := &QuizStoreService{}

	public := store.PublicQuestions(quiz)

	require.Len(t, public, len(quiz.Questions))
	for i, q := range public {
		assert.Equal(t, quiz.Questions[i].ID, q.ID)
		assert.Equal(t, quiz.Questions[i].Prompt, q.Prompt)
	}
}
