package repository

import (
	"exam_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) CreateExam(e *model.Exam) error {
	return r.DB.Create(e).Error
}

func (r *ExamRepository) FindExamByID(id string, withChildren bool) (*model.Exam, error) {
	var e model.Exam
	query := r.DB.Preload("User")
	if withChildren {
		query = query.
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at asc")
			}).
			Preload("Questions.Response")
	}
	err := query.First(&e, "id = ?", id).Error
	return &e, err
}

func (r *ExamRepository) UpdateExam(e *model.Exam) error {
	return r.DB.Save(e).Error
}

// DeleteExam 级联删除：提交记录、题目、考试
func (r *ExamRepository) DeleteExam(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.First(&model.Exam{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		var questionIDs []string
		if err := tx.Model(&model.ExamQuestion{}).Where("exam_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("exam_question_id IN ?", questionIDs).Delete(&model.ExamQuestionResponse{}).Error; err != nil {
				return err
			}
			if err := tx.Where("exam_id = ?", id).Delete(&model.ExamQuestion{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Exam{}, "id = ?", id).Error
	})
}

// ListActiveExams 未完成的考试，带题目和被分配的用户
func (r *ExamRepository) ListActiveExams() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Where("is_complete = ?", false).
		Preload("User").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Order("created_at desc").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) ListExamsByUser(userID string) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Questions.Response").
		Order("created_at desc").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) CreateQuestion(q *model.ExamQuestion) error {
	return r.DB.Create(q).Error
}

func (r *ExamRepository) FindQuestionByID(id string, withResponse bool) (*model.ExamQuestion, error) {
	var q model.ExamQuestion
	query := r.DB
	if withResponse {
		query = query.Preload("Response")
	}
	err := query.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *ExamRepository) CreateSubmission(resp *model.ExamQuestionResponse) error {
	return r.DB.Create(resp).Error
}

func (r *ExamRepository) CountSubmissions(examID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ExamQuestionResponse{}).
		Joins("JOIN exam_questions ON exam_questions.id = exam_question_responses.exam_question_id").
		Where("exam_questions.exam_id = ?", examID).
		Count(&n).Error
	return n, err
}

func (r *ExamRepository) CountQuestions(examID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ExamQuestion{}).Where("exam_id = ?", examID).Count(&n).Error
	return n, err
}
