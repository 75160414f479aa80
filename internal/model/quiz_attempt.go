package model

import (
	"gorm.io/datatypes"
)

// QuizAttempt 一次判分提交，只追加不修改
type QuizAttempt struct {
	UUIDBase
	UserID         uint           `gorm:"index:idx_attempt_user_quiz,priority:1;not null" json:"userId"`
	QuizID         string         `gorm:"size:100;index:idx_attempt_user_quiz,priority:2;not null" json:"quizId"`
	CourseID       string         `gorm:"size:100;index" json:"courseId"`
	ModuleID       string         `gorm:"size:100" json:"moduleId"`
	LessonID       string         `gorm:"size:100" json:"lessonId"`
	AttemptNumber  int            `gorm:"not null" json:"attemptNumber"` // 同一 (user, quiz) 下从 1 递增
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int            `gorm:"not null" json:"correctAnswers"`
	Passed         bool           `gorm:"default:false" json:"passed"`
	Answers        datatypes.JSON `json:"answers"` // []StoredAnswer
	TimeTakenMs    int64          `gorm:"default:0" json:"timeTakenMs"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
