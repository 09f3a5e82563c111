package database

import (
	"errors"
	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if shouldMigrate(cfg) {
		if err := Migrate(db); err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		seedAdminUser(db)
	}

	return db, nil
}

// shouldMigrate release 模式默认跳过自动迁移，-migrate 强制执行
func shouldMigrate(cfg *config.Config) bool {
	return cfg.ForceMigrate || cfg.Server.Mode != "release"
}

// Migrate 建表/迁移全部实体
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.ExamTemplate{},
		&model.ExamTemplateQuestion{},
		&model.ExamTemplateQuestionResponse{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamQuestionResponse{},
	)
}

// seedAdminUser 首次启动时创建默认管理员，方便开箱即用
func seedAdminUser(db *gorm.DB) {
	var admin model.User
	err := db.Where("role = ?", model.Admin).First(&admin).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	admin = model.User{
		Name:     "Administrator",
		Email:    "admin@example.com",
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(&admin).Error; err == nil {
		log.Println("Seeded default admin user admin@example.com")
	}
}
