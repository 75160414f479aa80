package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 标记课时完成
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Router /api/progress/courses/{courseId}/lessons/{lessonId}/complete [patch]
func (c *ProgressController) MarkLessonComplete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressService.MarkLessonComplete(
		claims.UserID,
		util.MustParseUint(ctx.Param("courseId")),
		util.MustParseUint(ctx.Param("lessonId")),
	)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 标记模块完成
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Router /api/progress/courses/{courseId}/modules/{moduleId}/complete [patch]
func (c *ProgressController) MarkModuleComplete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressService.MarkModuleComplete(
		claims.UserID,
		util.MustParseUint(ctx.Param("courseId")),
		util.MustParseUint(ctx.Param("moduleId")),
	)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 查询课程进度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Router /api/progress/courses/{courseId} [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressService.GetCourseProgress(
		claims.UserID,
		util.MustParseUint(ctx.Param("courseId")),
	)
	if err != nil {
		c.mapError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// mapError 授权失败（未选课/归属不符）和"不存在"走不同状态码
func (c *ProgressController) mapError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrLessonNotInCourse),
		errors.Is(err, util.ErrModuleNotInCourse):
		util.Forbidden(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
