package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	if err := r.DB.Where("slug = ?", slug).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindBySlugWithModules 课程详情带模块和课时，按 order 排序
func (r *CourseRepository) FindBySlugWithModules(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.`order` ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.`order` ASC")
		}).
		Where("slug = ?", slug).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) CountModules(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseModule{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *CourseRepository) CreateModule(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	if err := r.DB.First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.DB.First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) ListLessonsByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).Order("`order` ASC").Find(&lessons).Error
	return lessons, err
}
