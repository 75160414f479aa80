package repository

import (
	"elearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// RecordOutcome RecordAttempt 的返回值
type RecordOutcome struct {
	AttemptID         string
	AttemptNumber     int
	IsNewBestScore    bool
	PreviousBestScore *int
	BestScore         int
	FirstPass         bool // 本次提交首次达到通过线
}

// RecordAttempt 在一个事务里写入尝试记录并维护最佳成绩聚合。
// 同一 (user, quiz) 的并发提交靠行锁串行化，保证 attempt_number 不丢号、
// best_score 不回退。事务失败时两条记录都不可见。
func (r *AttemptRepository) RecordAttempt(attempt *model.QuizAttempt) (*RecordOutcome, error) {
	outcome := &RecordOutcome{}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var best model.QuizBestScore
		query := tx
		// SQLite 不支持 FOR UPDATE，靠单写者串行化
		if tx.Dialector.Name() == "mysql" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.
			Where("user_id = ? AND quiz_id = ?", attempt.UserID, attempt.QuizID).
			First(&best).Error

		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		now := time.Now()

		if err == gorm.ErrRecordNotFound {
			attempt.AttemptNumber = 1

			best = model.QuizBestScore{
				UserID:        attempt.UserID,
				QuizID:        attempt.QuizID,
				CourseID:      attempt.CourseID,
				BestScore:     attempt.Score,
				TotalAttempts: 1,
				Passed:        attempt.Passed,
			}
			if attempt.Passed {
				best.FirstPassedAt = &now
				outcome.FirstPass = true
			}

			outcome.IsNewBestScore = true
			outcome.BestScore = attempt.Score

			if err := tx.Create(attempt).Error; err != nil {
				return err
			}
			return tx.Create(&best).Error
		}

		prev := best.BestScore
		outcome.PreviousBestScore = &prev
		outcome.IsNewBestScore = attempt.Score > prev

		attempt.AttemptNumber = best.TotalAttempts + 1

		if attempt.Score > best.BestScore {
			best.BestScore = attempt.Score
		}
		best.TotalAttempts++
		if attempt.Passed && !best.Passed {
			// 从未通过到通过的那一次才记录 first_passed_at
			best.Passed = true
			best.FirstPassedAt = &now
			outcome.FirstPass = true
		}
		outcome.BestScore = best.BestScore

		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		return tx.Save(&best).Error
	})

	if err != nil {
		return nil, err
	}

	outcome.AttemptID = attempt.ID
	outcome.AttemptNumber = attempt.AttemptNumber
	return outcome, nil
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.DB.Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) ListByUserAndQuiz(userID uint, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number ASC").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) GetBestScore(userID uint, quizID string) (*model.QuizBestScore, error) {
	var best model.QuizBestScore
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&best).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &best, nil
}
