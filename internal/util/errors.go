package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrWrongCredentials = errors.New("邮箱或密码错误")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidAvatarExt = errors.New("仅支持 png/jpg/jpeg/webp 格式头像")

	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrQuizNotFound   = errors.New("quiz not found")

	// 授权失败与不存在要能被调用方区分开
	ErrNotEnrolled       = errors.New("not enrolled in course")
	ErrAlreadyEnrolled   = errors.New("already enrolled in course")
	ErrLessonNotInCourse = errors.New("lesson does not belong to course")
	ErrModuleNotInCourse = errors.New("module does not belong to course")
)
