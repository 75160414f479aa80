package service

import (
	"context"
	"elearn_backend/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*QuizStoreService, string) {
	t.Helper()
	root := t.TempDir()
	store := &QuizStoreService{
		Cfg: &config.ContentConfig{Root: root, DefaultLocale: "en"},
	}
	return store, root
}

func writeQuizFile(t *testing.T, root, course, module, name, content string) {
	t.Helper()
	dir := filepath.Join(root, course, module)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const validQuizJSON = `{
	"id": "quiz-intro",
	"title": "Introduction Quiz",
	"passingScore": 70,
	"questions": [
		{"id": "q1", "type": "true-false", "prompt": "Is this a quiz?", "correctAnswer": true}
	]
}`

func TestLoadQuizDefaultLocale(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.json", validQuizJSON)

	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "intro", "")
	require.NoError(t, err)
	require.NotNil(t, quiz)

	assert.Equal(t, "quiz-intro", quiz.ID)
	assert.Equal(t, "go-course", quiz.CourseID)
	assert.Equal(t, "basics", quiz.ModuleID)
	assert.Equal(t, "intro", quiz.LessonID)
	assert.Len(t, quiz.Questions, 1)
}

func TestLoadQuizLocaleVariant(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.json", validQuizJSON)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.fr.json", `{
		"id": "quiz-intro",
		"title": "Quiz d'introduction",
		"passingScore": 70,
		"questions": [
			{"id": "q1", "type": "true-false", "prompt": "Est-ce un quiz?", "correctAnswer": true}
		]
	}`)

	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "intro", "fr")
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "Quiz d'introduction", quiz.Title)
}

func TestLoadQuizLocaleFallsBackToDefault(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.json", validQuizJSON)

	// 没有德语变体，落回默认源
	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "intro", "de")
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "Introduction Quiz", quiz.Title)
}

func TestLoadQuizMalformedLocaleFallsBack(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.json", validQuizJSON)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.fr.json", "{not json")

	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "intro", "fr")
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "Introduction Quiz", quiz.Title)
}

func TestLoadQuizMissing(t *testing.T) {
	store, _ := newTestStore(t)

	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "nope", "")
	require.NoError(t, err)
	assert.Nil(t, quiz)
}

func TestLoadQuizMalformedIsNotFound(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-broken.json", "{{{")

	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "broken", "")
	require.NoError(t, err)
	assert.Nil(t, quiz)
}

func TestLoadQuizMissingIDIsNotFound(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-noid.json", `{"title": "x", "questions": []}`)

	quiz, err := store.LoadQuiz(context.Background(), "go-course", "basics", "noid", "")
	require.NoError(t, err)
	assert.Nil(t, quiz)
}

func TestListQuizzesForCourse(t *testing.T) {
	store, root := newTestStore(t)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.json", validQuizJSON)
	writeQuizFile(t, root, "go-course", "basics", "quiz-intro.fr.json", validQuizJSON)
	writeQuizFile(t, root, "go-course", "advanced", "quiz-channels.json", `{
		"id": "quiz-channels",
		"title": "Channels",
		"passingScore": 80,
		"questions": [
			{"id": "q1", "type": "true-false", "prompt": "p", "correctAnswer": false}
		]
	}`)
	writeQuizFile(t, root, "go-course", "basics", "notes.txt", "ignore me")

	refs, err := store.ListQuizzesForCourse(context.Background(), "go-course")
	require.NoError(t, err)

	// locale 变体和非测验文件都不出现在列表里
	require.Len(t, refs, 2)
	assert.Equal(t, "advanced", refs[0].ModuleID)
	assert.Equal(t, "quiz-channels", refs[0].QuizID)
	assert.Equal(t, "basics", refs[1].ModuleID)
	assert.Equal(t, "intro", refs[1].LessonID)
}

func TestListQuizzesForUnknownCourse(t *testing.T) {
	store, _ := newTestStore(t)

	refs, err := store.ListQuizzesForCourse(context.Background(), "ghost-course")
	require.NoError(t, err)
	assert.Empty(t, refs)
}
