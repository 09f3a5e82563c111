package service

import (
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试用独立的命名内存库，cache=shared 防止
// 连接池里的第二条连接拿到一个空库。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.ExamTemplate{},
		&model.ExamTemplateQuestion{},
		&model.ExamTemplateQuestionResponse{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamQuestionResponse{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		Name:  name,
		Email: email,
		Role:  role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func newTemplateService(db *gorm.DB) *ExamTemplateService {
	return NewExamTemplateService(repository.NewExamTemplateRepository(db))
}

func newExamService(db *gorm.DB) *ExamService {
	return NewExamService(
		repository.NewExamRepository(db),
		repository.NewExamTemplateRepository(db),
		repository.NewUserRepository(db),
	)
}
