package repository

import (
	"exam_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ExamTemplateRepository struct {
	DB *gorm.DB
}

func NewExamTemplateRepository(db *gorm.DB) *ExamTemplateRepository {
	return &ExamTemplateRepository{DB: db}
}

func (r *ExamTemplateRepository) CreateTemplate(t *model.ExamTemplate) error {
	return r.DB.Create(t).Error
}

// FindTemplateByID 预取是显式的：withChildren 为 true 时一并加载两级子树。
func (r *ExamTemplateRepository) FindTemplateByID(id string, withChildren bool) (*model.ExamTemplate, error) {
	var t model.ExamTemplate
	query := r.DB
	if withChildren {
		query = query.
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at asc")
			}).
			Preload("Questions.Responses", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at asc")
			})
	}
	err := query.First(&t, "id = ?", id).Error
	return &t, err
}

func (r *ExamTemplateRepository) UpdateTemplate(t *model.ExamTemplate) error {
	return r.DB.Save(t).Error
}

// TouchTemplate 只更新编辑审计字段，不触碰已加载的子树
func (r *ExamTemplateRepository) TouchTemplate(id, actorID string) error {
	return r.DB.Model(&model.ExamTemplate{}).Where("id = ?", id).Update("updated_by_id", actorID).Error
}

// DeleteTemplate 级联删除：先响应项，再题目，最后模板本身。
func (r *ExamTemplateRepository) DeleteTemplate(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.First(&model.ExamTemplate{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		var questionIDs []string
		if err := tx.Model(&model.ExamTemplateQuestion{}).Where("exam_template_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("exam_template_question_id IN ?", questionIDs).Delete(&model.ExamTemplateQuestionResponse{}).Error; err != nil {
				return err
			}
			if err := tx.Where("exam_template_id = ?", id).Delete(&model.ExamTemplateQuestion{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.ExamTemplate{}, "id = ?", id).Error
	})
}

type ExamTemplateListRow struct {
	model.ExamTemplate
	QuestionCount int `json:"questionCount"`
}

func (r *ExamTemplateRepository) ListTemplates(page, limit int) ([]ExamTemplateListRow, int64, error) {
	var total int64
	if err := r.DB.Model(&model.ExamTemplate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ExamTemplateListRow
	offset := (page - 1) * limit
	err := r.DB.Table("exam_templates t").
		Select("t.*, " +
			"(SELECT COUNT(*) FROM exam_template_questions q WHERE q.exam_template_id = t.id AND q.deleted_at IS NULL) as question_count").
		Where("t.deleted_at IS NULL").
		Order("t.created_at desc").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

func (r *ExamTemplateRepository) CreateQuestion(q *model.ExamTemplateQuestion) error {
	return r.DB.Create(q).Error
}

func (r *ExamTemplateRepository) FindQuestionByID(id string, withResponses bool) (*model.ExamTemplateQuestion, error) {
	var q model.ExamTemplateQuestion
	query := r.DB
	if withResponses {
		query = query.Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		})
	}
	err := query.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *ExamTemplateRepository) ListQuestions(templateID string) ([]model.ExamTemplateQuestion, error) {
	var qs []model.ExamTemplateQuestion
	err := r.DB.Where("exam_template_id = ?", templateID).Order("created_at asc").Find(&qs).Error
	return qs, err
}

func (r *ExamTemplateRepository) UpdateQuestion(q *model.ExamTemplateQuestion) error {
	return r.DB.Save(q).Error
}

// DeleteQuestion 先删响应项再删题目
func (r *ExamTemplateRepository) DeleteQuestion(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.First(&model.ExamTemplateQuestion{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("exam_template_question_id = ?", id).Delete(&model.ExamTemplateQuestionResponse{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ExamTemplateQuestion{}, "id = ?", id).Error
	})
}

func (r *ExamTemplateRepository) CreateResponse(resp *model.ExamTemplateQuestionResponse) error {
	return r.DB.Create(resp).Error
}

func (r *ExamTemplateRepository) FindResponseByID(id string) (*model.ExamTemplateQuestionResponse, error) {
	var resp model.ExamTemplateQuestionResponse
	err := r.DB.First(&resp, "id = ?", id).Error
	return &resp, err
}

func (r *ExamTemplateRepository) ListResponses(questionID string) ([]model.ExamTemplateQuestionResponse, error) {
	var rs []model.ExamTemplateQuestionResponse
	err := r.DB.Where("exam_template_question_id = ?", questionID).Order("created_at asc").Find(&rs).Error
	return rs, err
}

func (r *ExamTemplateRepository) UpdateResponse(resp *model.ExamTemplateQuestionResponse) error {
	return r.DB.Save(resp).Error
}

func (r *ExamTemplateRepository) DeleteResponse(id string) error {
	res := r.DB.First(&model.ExamTemplateQuestionResponse{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	return r.DB.Delete(&model.ExamTemplateQuestionResponse{}, "id = ?", id).Error
}
