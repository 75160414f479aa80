package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/database"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
	)
}

// seedProgressFixture 一门 2 模块、每模块 2 课时的已发布课程
func seedProgressFixture(t *testing.T, db *gorm.DB, enrollUser uint) (*model.Course, []model.CourseModule, []model.Lesson) {
	t.Helper()

	course := &model.Course{Slug: "go-course", Title: "Go 入门", Published: true}
	require.NoError(t, db.Create(course).Error)

	var modules []model.CourseModule
	var lessons []model.Lesson
	for m := 0; m < 2; m++ {
		module := model.CourseModule{
			CourseID: course.ID,
			Slug:     fmt.Sprintf("module-%d", m+1),
			Title:    "Module",
			Order:    m,
		}
		require.NoError(t, db.Create(&module).Error)
		modules = append(modules, module)

		for l := 0; l < 2; l++ {
			lesson := model.Lesson{
				ModuleID: module.ID,
				CourseID: course.ID,
				Slug:     fmt.Sprintf("module-%d-lesson-%d", m+1, l+1),
				Title:    "Lesson",
				Order:    l,
			}
			require.NoError(t, db.Create(&lesson).Error)
			lessons = append(lessons, lesson)
		}
	}

	if enrollUser != 0 {
		require.NoError(t, db.Create(&model.Enrollment{
			UserID:     enrollUser,
			CourseID:   course.ID,
			EnrolledAt: time.Now(),
		}).Error)
	}
	return course, modules, lessons
}

func TestMarkLessonCompleteRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	course, _, lessons := seedProgressFixture(t, db, 0)
	svc := newProgressService(db)

	_, err := svc.MarkLessonComplete(1, course.ID, lessons[0].ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	// 未选课时也不能有任何写入
	var count int64
	require.NoError(t, db.Model(&model.LessonCompletion{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMarkLessonCompleteUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	_, err := svc.MarkLessonComplete(1, 999, 1)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestMarkLessonCompleteRejectsForeignLesson(t *testing.T) {
	db := newTestDB(t)
	course, _, _ := seedProgressFixture(t, db, 1)
	svc := newProgressService(db)

	// 另一门课的课时
	other := &model.Course{Slug: "rust-course", Title: "Rust", Published: true}
	require.NoError(t, db.Create(other).Error)
	otherModule := model.CourseModule{CourseID: other.ID, Slug: "m1", Title: "M"}
	require.NoError(t, db.Create(&otherModule).Error)
	otherLesson := model.Lesson{ModuleID: otherModule.ID, CourseID: other.ID, Slug: "l1", Title: "L"}
	require.NoError(t, db.Create(&otherLesson).Error)

	_, err := svc.MarkLessonComplete(1, course.ID, otherLesson.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)
}

func TestMarkLessonCompleteHappyPath(t *testing.T) {
	db := newTestDB(t)
	course, _, lessons := seedProgressFixture(t, db, 1)
	svc := newProgressService(db)

	result, err := svc.MarkLessonComplete(1, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.LessonsComplete)
	assert.Equal(t, 0, result.ModulesComplete)
	assert.Equal(t, 0, result.OverallProgress)
	assert.False(t, result.AlreadyCompleted)

	// 重复标记报告幂等命中
	result, err = svc.MarkLessonComplete(1, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyCompleted)
	assert.Equal(t, 1, result.LessonsComplete)
}

func TestMarkModuleCompleteUpdatesOverallProgress(t *testing.T) {
	db := newTestDB(t)
	course, modules, _ := seedProgressFixture(t, db, 1)
	svc := newProgressService(db)

	result, err := svc.MarkModuleComplete(1, course.ID, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.LessonsComplete)
	assert.Equal(t, 1, result.ModulesComplete)
	assert.Equal(t, 50, result.OverallProgress)

	result, err = svc.MarkModuleComplete(1, course.ID, modules[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.LessonsComplete)
	assert.Equal(t, 2, result.ModulesComplete)
	assert.Equal(t, 100, result.OverallProgress)
}

func TestMarkModuleCompleteRejectsForeignModule(t *testing.T) {
	db := newTestDB(t)
	course, _, _ := seedProgressFixture(t, db, 1)
	svc := newProgressService(db)

	other := &model.Course{Slug: "rust-course", Title: "Rust", Published: true}
	require.NoError(t, db.Create(other).Error)
	otherModule := model.CourseModule{CourseID: other.ID, Slug: "m1", Title: "M"}
	require.NoError(t, db.Create(&otherModule).Error)

	_, err := svc.MarkModuleComplete(1, course.ID, otherModule.ID)
	assert.ErrorIs(t, err, util.ErrModuleNotInCourse)
}

func TestGetCourseProgressZeroState(t *testing.T) {
	db := newTestDB(t)
	course, _, _ := seedProgressFixture(t, db, 1)
	svc := newProgressService(db)

	result, err := svc.GetCourseProgress(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.LessonsComplete)
	assert.Equal(t, 0, result.ModulesComplete)
	assert.Equal(t, 0, result.OverallProgress)
}

func TestGetCourseProgressRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	course, _, _ := seedProgressFixture(t, db, 1)
	svc := newProgressService(db)

	_, err := svc.GetCourseProgress(2, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}
