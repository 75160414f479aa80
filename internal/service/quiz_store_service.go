package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// QuizStoreService 从内容目录解析测验定义，目录约定：
// <root>/<courseId>/<moduleId>/quiz-<lessonId>.json
// 带 locale 的变体为 quiz-<lessonId>.<locale>.json
type QuizStoreService struct {
	Cfg   *config.ContentConfig
	Redis *redis.Client // 可为 nil，此时直接读盘
}

func NewQuizStoreService(cfg *config.Config, rdb *redis.Client) *QuizStoreService {
	return &QuizStoreService{Cfg: &cfg.Content, Redis: rdb}
}

const quizCacheKeyPrefix = "quiz_def:"

// QuizRef ListQuizzesForCourse 的条目
type QuizRef struct {
	ModuleID string `json:"moduleId"`
	LessonID string `json:"lessonId"`
	QuizID   string `json:"quizId"`
}

// LoadQuiz 按 (course, module, lesson) 解析测验定义。非默认 locale 先探测
// 对应变体，任何读取/解析失败都静默落回默认源。两个源都没有时返回
// (nil, nil)：没有测验是正常情况，不是故障。
func (s *QuizStoreService) LoadQuiz(ctx context.Context, courseID, moduleID, lessonID, locale string) (*model.Quiz, error) {
	if locale != "" && locale != s.Cfg.DefaultLocale {
		if quiz := s.loadFromSource(ctx, courseID, moduleID, lessonID, locale); quiz != nil {
			return quiz, nil
		}
	}
	return s.loadFromSource(ctx, courseID, moduleID, lessonID, ""), nil
}

func (s *QuizStoreService) loadFromSource(ctx context.Context, courseID, moduleID, lessonID, locale string) *model.Quiz {
	name := "quiz-" + lessonID + ".json"
	if locale != "" {
		name = "quiz-" + lessonID + "." + locale + ".json"
	}
	path := filepath.Join(s.Cfg.Root, courseID, moduleID, name)

	if quiz := s.cacheGet(ctx, path); quiz != nil {
		return quiz
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		// 内容创作错误不应该在用户侧表现得像服务故障，降级为"无测验"并留痕
		logger.Log.Warn("malformed quiz content",
			zap.String("path", path), zap.Error(err))
		return nil
	}

	if quiz.ID == "" || quiz.Questions == nil {
		logger.Log.Warn("quiz content missing id or questions",
			zap.String("path", path))
		return nil
	}

	quiz.CourseID = courseID
	quiz.ModuleID = moduleID
	quiz.LessonID = lessonID

	s.cacheSet(ctx, path, &quiz)
	return &quiz
}

// PublicQuestions 剥掉正确答案的做题视图，全新构造，不动原测验
func (s *QuizStoreService) PublicQuestions(quiz *model.Quiz) []model.QuestionPublic {
	public := make([]model.QuestionPublic, len(quiz.Questions))
	for i, q := range quiz.Questions {
		public[i] = model.QuestionPublic{
			ID:      q.ID,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Options: q.Options,
		}
	}
	return public
}

// ListQuizzesForCourse 扫描课程内容目录枚举测验，排除 locale 变体。
// 课程没有内容目录时返回空列表。
func (s *QuizStoreService) ListQuizzesForCourse(ctx context.Context, courseID string) ([]QuizRef, error) {
	courseDir := filepath.Join(s.Cfg.Root, courseID)
	moduleEntries, err := os.ReadDir(courseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []QuizRef{}, nil
		}
		return nil, err
	}

	refs := []QuizRef{}
	for _, moduleEntry := range moduleEntries {
		if !moduleEntry.IsDir() {
			continue
		}
		moduleID := moduleEntry.Name()

		files, err := os.ReadDir(filepath.Join(courseDir, moduleID))
		if err != nil {
			continue
		}
		for _, f := range files {
			name := f.Name()
			if !strings.HasPrefix(name, "quiz-") || !strings.HasSuffix(name, ".json") {
				continue
			}
			lessonID := strings.TrimSuffix(strings.TrimPrefix(name, "quiz-"), ".json")
			// quiz-<lessonId>.<locale>.json 是翻译变体，不单独列出
			if strings.Contains(lessonID, ".") {
				continue
			}

			quiz := s.loadFromSource(ctx, courseID, moduleID, lessonID, "")
			if quiz == nil {
				continue
			}
			refs = append(refs, QuizRef{
				ModuleID: moduleID,
				LessonID: lessonID,
				QuizID:   quiz.ID,
			})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].ModuleID != refs[j].ModuleID {
			return refs[i].ModuleID < refs[j].ModuleID
		}
		return refs[i].LessonID < refs[j].LessonID
	})
	return refs, nil
}

func (s *QuizStoreService) cacheGet(ctx context.Context, path string) *model.Quiz {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(ctx, quizCacheKeyPrefix+path).Bytes()
	if err != nil {
		return nil
	}
	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil
	}
	return &quiz
}

func (s *QuizStoreService) cacheSet(ctx context.Context, path string, quiz *model.Quiz) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	ttl := time.Duration(s.Cfg.CacheTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := s.Redis.Set(ctx, quizCacheKeyPrefix+path, data, ttl).Err(); err != nil {
		logger.Log.Warn(fmt.Sprintf("quiz cache write failed: %v", err))
	}
}
