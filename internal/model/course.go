package model

// Course 课程目录条目，目录结构为 课程 -> 模块 -> 课时
type Course struct {
	BaseModel
	Slug        string         `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Level       string         `gorm:"size:20;default:'beginner'" json:"level"`
	Published   bool           `gorm:"default:false" json:"published"`
	AuthorID    uint           `gorm:"index" json:"authorId"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseModule struct {
	BaseModel
	CourseID uint     `gorm:"not null;uniqueIndex:idx_course_module_slug,priority:1" json:"courseId"`
	Slug     string   `gorm:"size:100;not null;uniqueIndex:idx_course_module_slug,priority:2" json:"slug"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Order    int      `gorm:"default:0" json:"order"`
	Lessons  []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Lesson struct {
	BaseModel
	ModuleID uint   `gorm:"index;not null" json:"moduleId"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Slug     string `gorm:"size:100;not null" json:"slug"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Duration int    `gorm:"default:0" json:"duration"` // 预计学习分钟数
	Order    int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
