// 把内容目录同步成课程目录数据库记录
//
// 测验定义按 slug 存放在 content/<course>/<module>/quiz-<lesson>.json，
// 而选课和进度需要对应的 courses/course_modules/lessons 行。
// 首次部署或新增课程内容后手动执行一次。
//
// 用法: go run scripts/seed_catalog.go

package main

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/database"
	"elearn_backend/pkg/logger"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	courseDirs, err := os.ReadDir(cfg.Content.Root)
	if err != nil {
		log.Fatalf("无法读取内容目录 %s: %v", cfg.Content.Root, err)
	}

	for _, courseDir := range courseDirs {
		if !courseDir.IsDir() {
			continue
		}
		if err := seedCourse(db, cfg.Content.Root, courseDir.Name()); err != nil {
			log.Fatalf("同步课程 %s 失败: %v", courseDir.Name(), err)
		}
	}

	log.Println("课程目录同步完成")
}

func seedCourse(db *gorm.DB, root, courseSlug string) error {
	var course model.Course
	err := db.Where("slug = ?", courseSlug).First(&course).Error
	if err == gorm.ErrRecordNotFound {
		course = model.Course{
			Slug:      courseSlug,
			Title:     titleFromSlug(courseSlug),
			Published: true,
		}
		if err := db.Create(&course).Error; err != nil {
			return err
		}
		log.Printf("新建课程 %s (id=%d)", courseSlug, course.ID)
	} else if err != nil {
		return err
	}

	moduleDirs, err := os.ReadDir(filepath.Join(root, courseSlug))
	if err != nil {
		return err
	}

	for order, moduleDir := range moduleDirs {
		if !moduleDir.IsDir() {
			continue
		}
		if err := seedModule(db, root, &course, moduleDir.Name(), order); err != nil {
			return err
		}
	}
	return nil
}

func seedModule(db *gorm.DB, root string, course *model.Course, moduleSlug string, order int) error {
	var module model.CourseModule
	err := db.Where("course_id = ? AND slug = ?", course.ID, moduleSlug).First(&module).Error
	if err == gorm.ErrRecordNotFound {
		module = model.CourseModule{
			CourseID: course.ID,
			Slug:     moduleSlug,
			Title:    titleFromSlug(moduleSlug),
			Order:    order,
		}
		if err := db.Create(&module).Error; err != nil {
			return err
		}
		log.Printf("  新建模块 %s/%s", course.Slug, moduleSlug)
	} else if err != nil {
		return err
	}

	files, err := os.ReadDir(filepath.Join(root, course.Slug, moduleSlug))
	if err != nil {
		return err
	}

	order = 0
	for _, f := range files {
		name := f.Name()
		if !strings.HasPrefix(name, "quiz-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		lessonSlug := strings.TrimSuffix(strings.TrimPrefix(name, "quiz-"), ".json")
		if strings.Contains(lessonSlug, ".") {
			continue // locale 变体
		}

		var lesson model.Lesson
		err := db.Where("module_id = ? AND slug = ?", module.ID, lessonSlug).First(&lesson).Error
		if err == gorm.ErrRecordNotFound {
			lesson = model.Lesson{
				ModuleID: module.ID,
				CourseID: course.ID,
				Slug:     lessonSlug,
				Title:    titleFromSlug(lessonSlug),
				Order:    order,
			}
			if err := db.Create(&lesson).Error; err != nil {
				return err
			}
			log.Printf("    新建课时 %s/%s/%s", course.Slug, moduleSlug, lessonSlug)
		} else if err != nil {
			return err
		}
		order++
	}
	return nil
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
