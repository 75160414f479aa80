package repository

import (
	"elearn_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedCourse 建一门 5 模块、每模块 2 课时的课程，并为 user 1 建选课记录
func seedCourse(t *testing.T, db *gorm.DB) (*model.Course, []model.CourseModule, []model.Lesson) {
	t.Helper()

	course := &model.Course{Slug: "go-course", Title: "Go 入门", Published: true}
	require.NoError(t, db.Create(course).Error)

	var modules []model.CourseModule
	var lessons []model.Lesson
	for m := 0; m < 5; m++ {
		module := model.CourseModule{
			CourseID: course.ID,
			Slug:     "module-" + string(rune('a'+m)),
			Title:    "Module",
			Order:    m,
		}
		require.NoError(t, db.Create(&module).Error)
		modules = append(modules, module)

		for l := 0; l < 2; l++ {
			lesson := model.Lesson{
				ModuleID: module.ID,
				CourseID: course.ID,
				Slug:     module.Slug + "-lesson-" + string(rune('1'+l)),
				Title:    "Lesson",
				Order:    l,
			}
			require.NoError(t, db.Create(&lesson).Error)
			lessons = append(lessons, lesson)
		}
	}

	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     1,
		CourseID:   course.ID,
		EnrolledAt: time.Now(),
	}).Error)

	return course, modules, lessons
}

func TestOverallPercent(t *testing.T) {
	assert.Equal(t, 0, OverallPercent(0, 5))
	assert.Equal(t, 40, OverallPercent(2, 5))
	assert.Equal(t, 100, OverallPercent(5, 5))
	// 1/3 = 33.3 -> 33, 2/3 = 66.7 -> 67
	assert.Equal(t, 33, OverallPercent(1, 3))
	assert.Equal(t, 67, OverallPercent(2, 3))
	// 没有模块的课程进度恒为 0
	assert.Equal(t, 0, OverallPercent(0, 0))
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, _, lessons := seedCourse(t, db)
	repo := NewProgressRepository(db)

	progress, newly, err := repo.MarkLessonComplete(1, &lessons[0], 5)
	require.NoError(t, err)
	assert.True(t, newly)
	assert.Equal(t, 1, progress.LessonsComplete)
	assert.Equal(t, 0, progress.ModulesComplete)

	// 重复标记不再递增
	progress, newly, err = repo.MarkLessonComplete(1, &lessons[0], 5)
	require.NoError(t, err)
	assert.False(t, newly)
	assert.Equal(t, 1, progress.LessonsComplete)
}

func TestMarkModuleCompleteCountsOnlyMissingLessons(t *testing.T) {
	db := newTestDB(t)
	_, modules, lessons := seedCourse(t, db)
	repo := NewProgressRepository(db)

	// 先单独完成第一个模块的第一课
	_, _, err := repo.MarkLessonComplete(1, &lessons[0], 5)
	require.NoError(t, err)

	// 整模块完成只补剩下的那一课
	progress, newly, err := repo.MarkModuleComplete(1, &modules[0], lessons[:2], 5)
	require.NoError(t, err)
	assert.True(t, newly)
	assert.Equal(t, 2, progress.LessonsComplete)
	assert.Equal(t, 1, progress.ModulesComplete)

	// 重复标记模块是 no-op
	progress, newly, err = repo.MarkModuleComplete(1, &modules[0], lessons[:2], 5)
	require.NoError(t, err)
	assert.False(t, newly)
	assert.Equal(t, 2, progress.LessonsComplete)
	assert.Equal(t, 1, progress.ModulesComplete)
}

func TestModuleCompletionWritesBackEnrollmentProgress(t *testing.T) {
	db := newTestDB(t)
	course, modules, lessons := seedCourse(t, db)
	repo := NewProgressRepository(db)

	_, _, err := repo.MarkModuleComplete(1, &modules[0], lessons[0:2], 5)
	require.NoError(t, err)
	_, _, err = repo.MarkModuleComplete(1, &modules[1], lessons[2:4], 5)
	require.NoError(t, err)

	// 2/5 模块 -> 40%
	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 40, enrollment.Progress)
}

func TestGetProgressAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	progress, err := repo.GetProgress(1, 999)
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestProgressIsPerUser(t *testing.T) {
	db := newTestDB(t)
	course, _, lessons := seedCourse(t, db)
	repo := NewProgressRepository(db)

	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     2,
		CourseID:   course.ID,
		EnrolledAt: time.Now(),
	}).Error)

	_, _, err := repo.MarkLessonComplete(1, &lessons[0], 5)
	require.NoError(t, err)

	other, err := repo.GetProgress(2, course.ID)
	require.NoError(t, err)
	assert.Nil(t, other, "user 2 has no progress of their own")
}
