package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 测验元信息（含个人最佳成绩）
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param courseSlug path string true "课程标识"
// @Param moduleSlug path string true "模块标识"
// @Param lessonSlug path string true "课时标识"
// @Param locale query string false "语言"
// @Success 200 {object} util.Response{data=service.QuizMetadata}
// @Router /api/courses/{courseSlug}/modules/{moduleSlug}/lessons/{lessonSlug}/quiz [get]
func (c *QuizController) GetQuizMetadata(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	meta, err := c.QuizService.GetQuizMetadata(
		ctx.Request.Context(),
		claims.UserID,
		ctx.Param("courseSlug"),
		ctx.Param("moduleSlug"),
		ctx.Param("lessonSlug"),
		ctx.Query("locale"),
	)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, meta)
}

// @Summary 测验题目（不含正确答案）
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param courseSlug path string true "课程标识"
// @Param moduleSlug path string true "模块标识"
// @Param lessonSlug path string true "课时标识"
// @Param locale query string false "语言"
// @Success 200 {object} util.Response{data=service.QuizQuestionsView}
// @Router /api/courses/{courseSlug}/modules/{moduleSlug}/lessons/{lessonSlug}/quiz/questions [get]
func (c *QuizController) GetQuizQuestions(ctx *gin.Context) {
	view, err := c.QuizService.GetQuizQuestions(
		ctx.Request.Context(),
		ctx.Param("courseSlug"),
		ctx.Param("moduleSlug"),
		ctx.Param("lessonSlug"),
		ctx.Query("locale"),
	)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 提交测验答案并判分
// @Tags 测验模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseSlug path string true "课程标识"
// @Param moduleSlug path string true "模块标识"
// @Param lessonSlug path string true "课时标识"
// @Param body body service.QuizSubmissionReq true "答案"
// @Success 200 {object} util.Response{data=service.QuizSubmissionResult}
// @Router /api/courses/{courseSlug}/modules/{moduleSlug}/lessons/{lessonSlug}/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizSubmissionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, validationErrs, err := c.QuizService.SubmitQuiz(
		ctx.Request.Context(),
		claims.UserID,
		ctx.Param("courseSlug"),
		ctx.Param("moduleSlug"),
		ctx.Param("lessonSlug"),
		ctx.Query("locale"),
		req,
	)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if len(validationErrs) > 0 {
		util.ValidationFailed(ctx, validationErrs)
		return
	}

	util.Success(ctx, result)
}

// @Summary 枚举课程下的全部测验
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param courseSlug path string true "课程标识"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseSlug}/quizzes [get]
func (c *QuizController) ListQuizzesForCourse(ctx *gin.Context) {
	refs, err := c.QuizService.ListQuizzesForCourse(ctx.Request.Context(), ctx.Param("courseSlug"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": refs})
}
