package repository

import (
	"elearn_backend/internal/model"
	"elearn_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newAttempt(userID uint, quizID string, score int, passed bool) *model.QuizAttempt {
	return &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quizID,
		CourseID:       "go-course",
		ModuleID:       "basics",
		LessonID:       "intro",
		Score:          score,
		TotalQuestions: 5,
		CorrectAnswers: score / 20,
		Passed:         passed,
	}
}

func TestRecordFirstAttempt(t *testing.T) {
	repo := NewAttemptRepository(newTestDB(t))

	outcome, err := repo.RecordAttempt(newAttempt(1, "quiz-intro", 60, false))
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.AttemptID)
	assert.Equal(t, 1, outcome.AttemptNumber)
	assert.True(t, outcome.IsNewBestScore)
	assert.Nil(t, outcome.PreviousBestScore)
	assert.Equal(t, 60, outcome.BestScore)
	assert.False(t, outcome.FirstPass)

	best, err := repo.GetBestScore(1, "quiz-intro")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 60, best.BestScore)
	assert.Equal(t, 1, best.TotalAttempts)
	assert.False(t, best.Passed)
	assert.Nil(t, best.FirstPassedAt)
}

func TestRecordAttemptProgression(t *testing.T) {
	repo := NewAttemptRepository(newTestDB(t))

	// 60 分未过 -> 80 分通过 -> 70 分通过但低于最佳
	_, err := repo.RecordAttempt(newAttempt(1, "quiz-intro", 60, false))
	require.NoError(t, err)

	second, err := repo.RecordAttempt(newAttempt(1, "quiz-intro", 80, true))
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.True(t, second.IsNewBestScore)
	require.NotNil(t, second.PreviousBestScore)
	assert.Equal(t, 60, *second.PreviousBestScore)
	assert.Equal(t, 80, second.BestScore)
	assert.True(t, second.FirstPass)

	third, err := repo.RecordAttempt(newAttempt(1, "quiz-intro", 70, true))
	require.NoError(t, err)
	assert.Equal(t, 3, third.AttemptNumber)
	assert.False(t, third.IsNewBestScore)
	require.NotNil(t, third.PreviousBestScore)
	assert.Equal(t, 80, *third.PreviousBestScore)
	assert.Equal(t, 80, third.BestScore, "best score never regresses")
	assert.False(t, third.FirstPass)

	best, err := repo.GetBestScore(1, "quiz-intro")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 80, best.BestScore)
	assert.Equal(t, 3, best.TotalAttempts)
	assert.True(t, best.Passed, "passed stays true after a lower retake")
	require.NotNil(t, best.FirstPassedAt)

	firstPassedAt := *best.FirstPassedAt

	// 再提交一次也不会改写 first_passed_at
	_, err = repo.RecordAttempt(newAttempt(1, "quiz-intro", 90, true))
	require.NoError(t, err)
	best, err = repo.GetBestScore(1, "quiz-intro")
	require.NoError(t, err)
	require.NotNil(t, best.FirstPassedAt)
	assert.Equal(t, firstPassedAt.Unix(), best.FirstPassedAt.Unix())
}

func TestAttemptsAreIsolatedPerUserAndQuiz(t *testing.T) {
	repo := NewAttemptRepository(newTestDB(t))

	_, err := repo.RecordAttempt(newAttempt(1, "quiz-intro", 60, false))
	require.NoError(t, err)
	otherUser, err := repo.RecordAttempt(newAttempt(2, "quiz-intro", 90, true))
	require.NoError(t, err)
	otherQuiz, err := repo.RecordAttempt(newAttempt(1, "quiz-channels", 100, true))
	require.NoError(t, err)

	assert.Equal(t, 1, otherUser.AttemptNumber)
	assert.Equal(t, 1, otherQuiz.AttemptNumber)

	best, err := repo.GetBestScore(1, "quiz-intro")
	require.NoError(t, err)
	assert.Equal(t, 60, best.BestScore)
}

func TestListByUserAndQuiz(t *testing.T) {
	repo := NewAttemptRepository(newTestDB(t))

	_, err := repo.RecordAttempt(newAttempt(1, "quiz-intro", 40, false))
	require.NoError(t, err)
	_, err = repo.RecordAttempt(newAttempt(1, "quiz-intro", 80, true))
	require.NoError(t, err)

	attempts, err := repo.ListByUserAndQuiz(1, "quiz-intro")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].AttemptNumber)
	assert.Equal(t, 2, attempts[1].AttemptNumber)
}

func TestGetBestScoreAbsent(t *testing.T) {
	repo := NewAttemptRepository(newTestDB(t))

	best, err := repo.GetBestScore(99, "quiz-never-taken")
	require.NoError(t, err)
	assert.Nil(t, best)
}
