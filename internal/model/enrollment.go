package model

import "time"

// Enrollment 选课记录，Progress 为进度聚合器回写的总体百分比缓存
type Enrollment struct {
	BaseModel
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_course_enroll,priority:1" json:"userId"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_user_course_enroll,priority:2" json:"courseId"`
	Status     string    `gorm:"size:20;default:'active'" json:"status"`
	Progress   int       `gorm:"default:0" json:"progress"` // 0-100
	EnrolledAt time.Time `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
