package repository

import (
	"elearn_backend/internal/model"
	"math"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) GetProgress(userID, courseID uint) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

// OverallPercent 总体进度 = round(已完成模块数 / 课程模块总数 * 100)
func OverallPercent(modulesComplete int, totalModules int64) int {
	if totalModules <= 0 {
		return 0
	}
	return int(math.Round(float64(modulesComplete) / float64(totalModules) * 100))
}

// MarkLessonComplete 以 (user, lesson) 身份行做幂等：重复标记直接返回当前计数。
// 计数递增、完成行写入和选课进度回写在同一事务内完成。
func (r *ProgressRepository) MarkLessonComplete(userID uint, lesson *model.Lesson, totalModules int64) (*model.CourseProgress, bool, error) {
	var progress model.CourseProgress
	newlyCompleted := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.LessonCompletion
		err := tx.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&existing).Error
		if err == nil {
			return r.loadProgress(tx, userID, lesson.CourseID, &progress)
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		newlyCompleted = true
		completion := model.LessonCompletion{
			UserID:   userID,
			LessonID: lesson.ID,
			ModuleID: lesson.ModuleID,
			CourseID: lesson.CourseID,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}

		if err := r.bumpCounters(tx, userID, lesson.CourseID, 1, 0); err != nil {
			return err
		}
		if err := r.loadProgress(tx, userID, lesson.CourseID, &progress); err != nil {
			return err
		}
		return r.writeBackEnrollment(tx, userID, lesson.CourseID, progress.ModulesComplete, totalModules)
	})

	if err != nil {
		return nil, false, err
	}
	return &progress, newlyCompleted, nil
}

// MarkModuleComplete 标记整个模块完成。课时计数补齐时只补尚未单独完成的课时，
// 已单独完成的不会被重复计入。
func (r *ProgressRepository) MarkModuleComplete(userID uint, module *model.CourseModule, lessons []model.Lesson, totalModules int64) (*model.CourseProgress, bool, error) {
	var progress model.CourseProgress
	newlyCompleted := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.ModuleCompletion
		err := tx.Where("user_id = ? AND module_id = ?", userID, module.ID).First(&existing).Error
		if err == nil {
			return r.loadProgress(tx, userID, module.CourseID, &progress)
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		newlyCompleted = true
		if err := tx.Create(&model.ModuleCompletion{
			UserID:   userID,
			ModuleID: module.ID,
			CourseID: module.CourseID,
		}).Error; err != nil {
			return err
		}

		// 查出该模块下已单独完成的课时，剩下的批量补行
		var doneIDs []uint
		if err := tx.Model(&model.LessonCompletion{}).
			Where("user_id = ? AND module_id = ?", userID, module.ID).
			Pluck("lesson_id", &doneIDs).Error; err != nil {
			return err
		}
		doneSet := make(map[uint]bool, len(doneIDs))
		for _, id := range doneIDs {
			doneSet[id] = true
		}

		newLessons := 0
		for _, lesson := range lessons {
			if doneSet[lesson.ID] {
				continue
			}
			if err := tx.Create(&model.LessonCompletion{
				UserID:   userID,
				LessonID: lesson.ID,
				ModuleID: lesson.ModuleID,
				CourseID: lesson.CourseID,
			}).Error; err != nil {
				return err
			}
			newLessons++
		}

		if err := r.bumpCounters(tx, userID, module.CourseID, newLessons, 1); err != nil {
			return err
		}
		if err := r.loadProgress(tx, userID, module.CourseID, &progress); err != nil {
			return err
		}
		return r.writeBackEnrollment(tx, userID, module.CourseID, progress.ModulesComplete, totalModules)
	})

	if err != nil {
		return nil, false, err
	}
	return &progress, newlyCompleted, nil
}

func (r *ProgressRepository) loadProgress(tx *gorm.DB, userID, courseID uint, dst *model.CourseProgress) error {
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(dst).Error
	if err == gorm.ErrRecordNotFound {
		*dst = model.CourseProgress{UserID: userID, CourseID: courseID}
		return nil
	}
	return err
}

func (r *ProgressRepository) bumpCounters(tx *gorm.DB, userID, courseID uint, lessons, modules int) error {
	var progress model.CourseProgress
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&model.CourseProgress{
			UserID:          userID,
			CourseID:        courseID,
			LessonsComplete: lessons,
			ModulesComplete: modules,
			LastAccessedAt:  time.Now(),
		}).Error
	}
	if err != nil {
		return err
	}

	// 存储层原子递增，避免应用层读改写竞态
	return tx.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{
			"lessons_complete": gorm.Expr("lessons_complete + ?", lessons),
			"modules_complete": gorm.Expr("modules_complete + ?", modules),
			"last_accessed_at": time.Now(),
		}).Error
}

func (r *ProgressRepository) writeBackEnrollment(tx *gorm.DB, userID, courseID uint, modulesComplete int, totalModules int64) error {
	return tx.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("progress", OverallPercent(modulesComplete, totalModules)).Error
}
