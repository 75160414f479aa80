package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressService 进度聚合器：完成计数 + 选课记录上的总体百分比缓存
type ProgressService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
) *ProgressService {
	return &ProgressService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
	}
}

type CompletionResult struct {
	LessonsComplete  int  `json:"lessonsComplete"`
	ModulesComplete  int  `json:"modulesComplete"`
	OverallProgress  int  `json:"overallProgress"`
	AlreadyCompleted bool `json:"alreadyCompleted"`
}

// MarkLessonComplete 先做课程存在性、选课和归属校验，未选课是授权错误，
// 和"不存在"要区分开。重复标记是幂等的 no-op。
func (s *ProgressService) MarkLessonComplete(userID, courseID, lessonID uint) (*CompletionResult, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if err := s.requireEnrollment(userID, courseID); err != nil {
		return nil, err
	}

	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrLessonNotInCourse
	}

	totalModules, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}

	progress, newly, err := s.ProgressRepo.MarkLessonComplete(userID, lesson, totalModules)
	if err != nil {
		return nil, err
	}

	return s.completionResult(progress, totalModules, newly), nil
}

// MarkModuleComplete 整模块完成，课时数只补齐尚未单独完成的部分
func (s *ProgressService) MarkModuleComplete(userID, courseID, moduleID uint) (*CompletionResult, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if err := s.requireEnrollment(userID, courseID); err != nil {
		return nil, err
	}

	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if module.CourseID != courseID {
		return nil, util.ErrModuleNotInCourse
	}

	lessons, err := s.CourseRepo.ListLessonsByModule(moduleID)
	if err != nil {
		return nil, err
	}

	totalModules, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}

	progress, newly, err := s.ProgressRepo.MarkModuleComplete(userID, module, lessons, totalModules)
	if err != nil {
		return nil, err
	}

	return s.completionResult(progress, totalModules, newly), nil
}

// GetCourseProgress 读侧：没有进度行时返回零值计数
func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*CompletionResult, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if err := s.requireEnrollment(userID, courseID); err != nil {
		return nil, err
	}

	totalModules, err := s.CourseRepo.CountModules(courseID)
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressRepo.GetProgress(userID, courseID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &model.CourseProgress{UserID: userID, CourseID: courseID}
	}

	result := s.completionResult(progress, totalModules, true)
	result.AlreadyCompleted = false
	return result, nil
}

func (s *ProgressService) requireEnrollment(userID, courseID uint) error {
	_, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrNotEnrolled
		}
		return err
	}
	return nil
}

func (s *ProgressService) completionResult(progress *model.CourseProgress, totalModules int64, newly bool) *CompletionResult {
	return &CompletionResult{
		LessonsComplete:  progress.LessonsComplete,
		ModulesComplete:  progress.ModulesComplete,
		OverallProgress:  repository.OverallPercent(progress.ModulesComplete, totalModules),
		AlreadyCompleted: !newly,
	}
}
