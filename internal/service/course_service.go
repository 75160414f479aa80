package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *CourseService) ListCourses(page, limit int, includeUnpublished bool) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, !includeUnpublished)
}

func (s *CourseService) GetCourseDetail(slug string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlugWithModules(slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

type CourseReq struct {
	Slug        string `json:"slug" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Published   bool   `json:"published"`
}

func (s *CourseService) CreateCourse(authorID uint, req CourseReq) (*model.Course, error) {
	course := &model.Course{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
		Published:   req.Published,
		AuthorID:    authorID,
	}
	if course.Level == "" {
		course.Level = "beginner"
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

type ModuleReq struct {
	Slug  string `json:"slug" binding:"required"`
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *CourseService) AddModule(courseID uint, req ModuleReq) (*model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	module := &model.CourseModule{
		CourseID: courseID,
		Slug:     req.Slug,
		Title:    req.Title,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

type LessonReq struct {
	Slug     string `json:"slug" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

func (s *CourseService) AddLesson(moduleID uint, req LessonReq) (*model.Lesson, error) {
	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID: module.ID,
		CourseID: module.CourseID,
		Slug:     req.Slug,
		Title:    req.Title,
		Duration: req.Duration,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Enroll 重复选课返回冲突错误，不静默吞掉
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     "active",
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *CourseService) EnrollBySlug(userID uint, slug string) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.Enroll(userID, course.ID)
}

type EnrollmentView struct {
	model.Enrollment
	CourseTitle string `json:"courseTitle"`
	CourseSlug  string `json:"courseSlug"`
}

func (s *CourseService) ListMyEnrollments(userID uint) ([]EnrollmentView, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		view := EnrollmentView{Enrollment: e}
		if course, err := s.CourseRepo.FindByID(e.CourseID); err == nil {
			view.CourseTitle = course.Title
			view.CourseSlug = course.Slug
		}
		views = append(views, view)
	}
	return views, nil
}
