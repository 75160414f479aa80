package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 课程列表
// @Tags 课程目录
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.ListCourses(page, limit, false)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": courses, "total": total})
}

// @Summary 课程详情（含模块和课时）
// @Tags 课程目录
// @Produce json
// @Param courseSlug path string true "课程标识"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{courseSlug} [get]
func (c *CourseController) GetCourseDetail(ctx *gin.Context) {
	slug := ctx.Param("courseSlug")

	course, err := c.CourseService.GetCourseDetail(slug)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary 选课
// @Tags 课程目录
// @Produce json
// @Security ApiKeyAuth
// @Param courseSlug path string true "课程标识"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Router /api/courses/{courseSlug}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.CourseService.EnrollBySlug(claims.UserID, ctx.Param("courseSlug"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary 我的选课列表
// @Tags 课程目录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/enrollments [get]
func (c *CourseController) ListMyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.CourseService.ListMyEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": enrollments})
}

// @Summary 创建课程
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CourseReq true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary 为课程添加模块
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param body body service.ModuleReq true "模块信息"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Router /api/teacher/courses/{courseId}/modules [post]
func (c *CourseController) AddModule(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.AddModule(courseID, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// @Summary 为模块添加课时
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "模块ID"
// @Param body body service.LessonReq true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/teacher/modules/{moduleId}/lessons [post]
func (c *CourseController) AddLesson(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("moduleId"))

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.AddLesson(moduleID, req)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}
