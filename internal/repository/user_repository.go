package repository

import (
	"exam_platform_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// FindByNameAndEmail 会话中的姓名+邮箱唯一定位一个用户
func (r *UserRepository) FindByNameAndEmail(name, email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("name = ? AND email = ?", name, email).First(&user).Error
	return &user, err
}

func (r *UserRepository) List(page, limit int, search string) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", term, term)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// Delete 删除用户时级联删除其名下的考试树
func (r *UserRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.First(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		var examIDs []string
		if err := tx.Model(&model.Exam{}).Where("user_id = ?", id).Pluck("id", &examIDs).Error; err != nil {
			return err
		}
		if len(examIDs) > 0 {
			var questionIDs []string
			if err := tx.Model(&model.ExamQuestion{}).Where("exam_id IN ?", examIDs).Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("exam_question_id IN ?", questionIDs).Delete(&model.ExamQuestionResponse{}).Error; err != nil {
					return err
				}
				if err := tx.Where("exam_id IN ?", examIDs).Delete(&model.ExamQuestion{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("user_id = ?", id).Delete(&model.Exam{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}

func (r *UserRepository) UpdateLastSeen(userID string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_seen", time.Now()).Error
}

func (r *UserRepository) UpdateLastLogin(userID string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_login", time.Now()).Error
}
