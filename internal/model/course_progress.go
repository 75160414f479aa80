package model

import "time"

// CourseProgress 每个 (user, course) 一行的完成计数，计数只增不减
type CourseProgress struct {
	BaseModel
	UserID          uint      `gorm:"not null;uniqueIndex:idx_progress_user_course,priority:1" json:"userId"`
	CourseID        uint      `gorm:"not null;uniqueIndex:idx_progress_user_course,priority:2" json:"courseId"`
	LessonsComplete int       `gorm:"default:0" json:"lessonsComplete"`
	ModulesComplete int       `gorm:"default:0" json:"modulesComplete"`
	LastAccessedAt  time.Time `json:"lastAccessedAt"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// LessonCompletion 完成事件按身份建行，唯一索引保证重复标记是幂等的
type LessonCompletion struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_lesson_done,priority:1" json:"userId"`
	LessonID uint `gorm:"not null;uniqueIndex:idx_user_lesson_done,priority:2" json:"lessonId"`
	ModuleID uint `gorm:"index" json:"moduleId"`
	CourseID uint `gorm:"index" json:"courseId"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

type ModuleCompletion struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_module_done,priority:1" json:"userId"`
	ModuleID uint `gorm:"not null;uniqueIndex:idx_user_module_done,priority:2" json:"moduleId"`
	CourseID uint `gorm:"index" json:"courseId"`
}

func (ModuleCompletion) TableName() string {
	return "module_completions"
}
