package model

import "time"

// QuizBestScore 每个 (user, quiz) 一行的最佳成绩聚合。
// BestScore 单调不减，Passed 一旦为 true 不再回退，TotalAttempts 每次判分 +1。
type QuizBestScore struct {
	BaseModel
	UserID        uint       `gorm:"not null;uniqueIndex:idx_best_user_quiz,priority:1" json:"userId"`
	QuizID        string     `gorm:"size:100;not null;uniqueIndex:idx_best_user_quiz,priority:2" json:"quizId"`
	CourseID      string     `gorm:"size:100;index" json:"courseId"`
	BestScore     int        `gorm:"not null" json:"bestScore"`
	TotalAttempts int        `gorm:"not null" json:"totalAttempts"`
	Passed        bool       `gorm:"default:false" json:"passed"`
	FirstPassedAt *time.Time `json:"firstPassedAt"`
}

func (QuizBestScore) TableName() string {
	return "quiz_best_scores"
}
