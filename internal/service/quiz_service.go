package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/monitoring"
	"context"
	"encoding/json"

	"gorm.io/datatypes"
)

// QuizService 串起提交链路：内容库取题 -> 校验 -> 判分 -> 成绩台账
type QuizService struct {
	Store       *QuizStoreService
	AttemptRepo *repository.AttemptRepository
	Notifier    *NotificationService
}

func NewQuizService(store *QuizStoreService, attemptRepo *repository.AttemptRepository, notifier *NotificationService) *QuizService {
	return &QuizService{
		Store:       store,
		AttemptRepo: attemptRepo,
		Notifier:    notifier,
	}
}

type QuizMetadata struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
	PassingScore  int    `json:"passingScore"`
	BestScore     *int   `json:"bestScore"`
	Passed        bool   `json:"passed"`
	AttemptCount  int    `json:"attemptCount"`
}

func (s *QuizService) GetQuizMetadata(ctx context.Context, userID uint, courseID, moduleID, lessonID, locale string) (*QuizMetadata, error) {
	quiz, err := s.Store.LoadQuiz(ctx, courseID, moduleID, lessonID, locale)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}

	meta := &QuizMetadata{
		ID:            quiz.ID,
		Title:         quiz.Title,
		QuestionCount: len(quiz.Questions),
		PassingScore:  quiz.PassingScore,
	}

	best, err := s.AttemptRepo.GetBestScore(userID, quiz.ID)
	if err != nil {
		return nil, err
	}
	if best != nil {
		score := best.BestScore
		meta.BestScore = &score
		meta.Passed = best.Passed
		meta.AttemptCount = best.TotalAttempts
	}

	return meta, nil
}

type QuizQuestionsView struct {
	QuizID       string                 `json:"quizId"`
	Title        string                 `json:"title"`
	PassingScore int                    `json:"passingScore"`
	Questions    []model.QuestionPublic `json:"questions"`
}

// GetQuizQuestions 做题视图，正确答案在这一层就已经被剥掉
func (s *QuizService) GetQuizQuestions(ctx context.Context, courseID, moduleID, lessonID, locale string) (*QuizQuestionsView, error) {
	quiz, err := s.Store.LoadQuiz(ctx, courseID, moduleID, lessonID, locale)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}

	return &QuizQuestionsView{
		QuizID:       quiz.ID,
		Title:        quiz.Title,
		PassingScore: quiz.PassingScore,
		Questions:    s.Store.PublicQuestions(quiz),
	}, nil
}

type QuizSubmissionReq struct {
	Answers     []model.SubmittedAnswer `json:"answers" binding:"required"`
	TimeTakenMs int64                   `json:"timeTakenMs"`
}

type QuizSubmissionResult struct {
	AttemptID         string                 `json:"attemptId"`
	AttemptNumber     int                    `json:"attemptNumber"`
	Score             int                    `json:"score"`
	Passed            bool                   `json:"passed"`
	CorrectAnswers    int                    `json:"correctAnswers"`
	TotalQuestions    int                    `json:"totalQuestions"`
	Results           []model.QuestionResult `json:"results"`
	IsNewBestScore    bool                   `json:"isNewBestScore"`
	PreviousBestScore *int                   `json:"previousBestScore"`
}

// SubmitQuiz 校验失败时返回字段级错误列表且不产生任何写入。
// 校验通过才判分入账。
func (s *QuizService) SubmitQuiz(ctx context.Context, userID uint, courseID, moduleID, lessonID, locale string, req QuizSubmissionReq) (*QuizSubmissionResult, []string, error) {
	quiz, err := s.Store.LoadQuiz(ctx, courseID, moduleID, lessonID, locale)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, util.ErrQuizNotFound
	}

	valid, validationErrs := ValidateAnswers(quiz, req.Answers)
	if !valid {
		return nil, validationErrs, nil
	}

	grade := GradeQuiz(quiz, req.Answers)

	answersJSON, err := json.Marshal(grade.StoredAnswers)
	if err != nil {
		return nil, nil, err
	}

	attempt := &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quiz.ID,
		CourseID:       courseID,
		ModuleID:       moduleID,
		LessonID:       lessonID,
		Score:          grade.Score,
		TotalQuestions: grade.TotalQuestions,
		CorrectAnswers: grade.CorrectAnswers,
		Passed:         grade.Passed,
		Answers:        datatypes.JSON(answersJSON),
		TimeTakenMs:    req.TimeTakenMs,
	}

	outcome, err := s.AttemptRepo.RecordAttempt(attempt)
	if err != nil {
		return nil, nil, err
	}

	result := "failed"
	if grade.Passed {
		result = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(result).Inc()

	if outcome.FirstPass && s.Notifier != nil {
		// 邮件不阻塞提交链路
		go s.Notifier.QuizPassed(userID, quiz.Title, grade.Score)
	}

	return &QuizSubmissionResult{
		AttemptID:         outcome.AttemptID,
		AttemptNumber:     outcome.AttemptNumber,
		Score:             grade.Score,
		Passed:            grade.Passed,
		CorrectAnswers:    grade.CorrectAnswers,
		TotalQuestions:    grade.TotalQuestions,
		Results:           grade.Results,
		IsNewBestScore:    outcome.IsNewBestScore,
		PreviousBestScore: outcome.PreviousBestScore,
	}, nil, nil
}

// ListQuizzesForCourse 直接转发内容库的枚举结果
func (s *QuizService) ListQuizzesForCourse(ctx context.Context, courseID string) ([]QuizRef, error) {
	return s.Store.ListQuizzesForCourse(ctx, courseID)
}
