package service

import (
	"errors"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// ExamService 负责把模板实例化为分配给用户的考试，以及考试作答流程。
type ExamService struct {
	Repo         *repository.ExamRepository
	TemplateRepo *repository.ExamTemplateRepository
	UserRepo     *repository.UserRepository
}

func NewExamService(repo *repository.ExamRepository, templateRepo *repository.ExamTemplateRepository, userRepo *repository.UserRepository) *ExamService {
	return &ExamService{Repo: repo, TemplateRepo: templateRepo, UserRepo: userRepo}
}

// AssignExam 把模板派生为某个用户的独立考试实例。
// 只复制题目的类型和题干，模板上的候选响应项和正确性标记不复制；
// 重复分配同一模板给同一用户会产生多个相互独立的考试。
func (s *ExamService) AssignExam(templateID, userID string) (*model.Exam, error) {
	template, err := s.TemplateRepo.FindTemplateByID(templateID, true)
	if err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		UserID:     user.ID,
		Name:       template.Name,
		IsComplete: false,
	}
	if err := s.Repo.CreateExam(exam); err != nil {
		return nil, err
	}

	for _, tq := range template.Questions {
		q := &model.ExamQuestion{
			ExamID: exam.ID,
			Type:   tq.Type,
			Body:   tq.Body,
		}
		if err := s.Repo.CreateQuestion(q); err != nil {
			return nil, err
		}
		exam.Questions = append(exam.Questions, *q)
	}

	return exam, nil
}

func (s *ExamService) GetExam(id string, withChildren bool) (*model.Exam, error) {
	return s.Repo.FindExamByID(id, withChildren)
}

func (s *ExamService) ListActiveExams() ([]model.Exam, error) {
	return s.Repo.ListActiveExams()
}

func (s *ExamService) ListUserExams(userID string) ([]model.Exam, error) {
	return s.Repo.ListExamsByUser(userID)
}

// CancelExam 取消即删除，连同题目和提交记录一起。
// TODO: 评估是否改为标记 cancelled 而保留作答历史
func (s *ExamService) CancelExam(id string) error {
	return s.Repo.DeleteExam(id)
}

// GetExamQuestion 取考试中的一道题目，校验归属关系
func (s *ExamService) GetExamQuestion(examID, questionID string) (*model.ExamQuestion, error) {
	q, err := s.Repo.FindQuestionByID(questionID, true)
	if err != nil {
		return nil, err
	}
	if q.ExamID != examID {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

// SubmitAnswer 为一道考题写入唯一的提交记录。每题至多一次提交，
// 全部题目都有提交后考试标记为完成。
func (s *ExamService) SubmitAnswer(userID, examID, questionID, answer string) (*model.ExamQuestionResponse, error) {
	exam, err := s.Repo.FindExamByID(examID, false)
	if err != nil {
		return nil, err
	}
	if exam.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	q, err := s.GetExamQuestion(examID, questionID)
	if err != nil {
		return nil, err
	}
	if q.Response != nil {
		return nil, util.ErrAnswerAlreadySubmitted
	}

	resp := &model.ExamQuestionResponse{
		ExamQuestionID: q.ID,
		Answer:         answer,
		IsSubmitted:    true,
		SubmittedAt:    time.Now(),
	}
	if err := s.Repo.CreateSubmission(resp); err != nil {
		return nil, err
	}

	total, err := s.Repo.CountQuestions(examID)
	if err != nil {
		return nil, err
	}
	submitted, err := s.Repo.CountSubmissions(examID)
	if err != nil {
		return nil, err
	}
	if submitted >= total {
		exam.IsComplete = true
		if err := s.Repo.UpdateExam(exam); err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// IsNotFound 把底层存储的未找到错误归一成一个判断
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
