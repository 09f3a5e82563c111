package service

import (
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/util"

	"gorm.io/gorm"
)

// ExamTemplateService 把模板及其题目/响应子树当作一个聚合来维护，
// 每次逻辑编辑都立刻写回存储，没有草稿暂存。
type ExamTemplateService struct {
	Repo *repository.ExamTemplateRepository
}

func NewExamTemplateService(repo *repository.ExamTemplateRepository) *ExamTemplateService {
	return &ExamTemplateService{Repo: repo}
}

// TemplateAggregate 内存中的模板树。Selection 指向当前选中的题目 id，
// 目标被删除时清空（而不是重置到固定下标），下一步选什么由表现层决定。
type TemplateAggregate struct {
	Template  *model.ExamTemplate `json:"template"`
	Selection *string             `json:"selection,omitempty"`
}

// Select 选中聚合内的一道题目；题目不在聚合内时不生效
func (a *TemplateAggregate) Select(questionID string) {
	for i := range a.Template.Questions {
		if a.Template.Questions[i].ID == questionID {
			a.Selection = &questionID
			return
		}
	}
}

// removeQuestion 从内存树中摘除题目并修正选中游标
func (a *TemplateAggregate) removeQuestion(questionID string) {
	qs := a.Template.Questions
	for i := range qs {
		if qs[i].ID == questionID {
			a.Template.Questions = append(qs[:i], qs[i+1:]...)
			break
		}
	}
	if a.Selection != nil && *a.Selection == questionID {
		a.Selection = nil
	}
}

type ResponseDraft struct {
	Value string `json:"value"`
}

func (s *ExamTemplateService) CreateTemplate(actorID, name string) (*model.ExamTemplate, error) {
	t := &model.ExamTemplate{
		Name:        name,
		AuthorID:    actorID,
		UpdatedByID: actorID,
	}
	if err := s.Repo.CreateTemplate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ExamTemplateService) RenameTemplate(actorID, id, name string) (*model.ExamTemplate, error) {
	t, err := s.Repo.FindTemplateByID(id, false)
	if err != nil {
		return nil, err
	}
	t.Name = name
	t.UpdatedByID = actorID
	if err := s.Repo.UpdateTemplate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTemplate 两级预取后重建内存树，是所有编辑操作的反序列化对应物
func (s *ExamTemplateService) LoadTemplate(id string) (*TemplateAggregate, error) {
	t, err := s.Repo.FindTemplateByID(id, true)
	if err != nil {
		return nil, err
	}
	return &TemplateAggregate{Template: t}, nil
}

func (s *ExamTemplateService) ListTemplates(page, limit int) ([]repository.ExamTemplateListRow, int64, error) {
	return s.Repo.ListTemplates(page, limit)
}

func (s *ExamTemplateService) DeleteTemplate(id string) error {
	return s.Repo.DeleteTemplate(id)
}

// AddQuestion 追加一道题目；随题目一起起草的响应项在题目拿到 id 之后创建并挂接。
// 空题干在这一层是允许的，校验属于表现层。
func (s *ExamTemplateService) AddQuestion(actorID, templateID string, qType model.QuestionType, body string, drafts []ResponseDraft) (*model.ExamTemplateQuestion, error) {
	if !qType.Valid() {
		return nil, util.ErrInvalidQuestionType
	}
	t, err := s.Repo.FindTemplateByID(templateID, false)
	if err != nil {
		return nil, err
	}

	q := &model.ExamTemplateQuestion{
		ExamTemplateID: t.ID,
		Type:           qType,
		Body:           body,
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}

	for _, draft := range drafts {
		resp := &model.ExamTemplateQuestionResponse{
			ExamTemplateQuestionID: q.ID,
			Value:                  draft.Value,
			IsCorrect:              false,
		}
		if err := s.Repo.CreateResponse(resp); err != nil {
			return nil, err
		}
		q.Responses = append(q.Responses, *resp)
	}

	if err := s.Repo.TouchTemplate(t.ID, actorID); err != nil {
		return nil, err
	}
	return q, nil
}

type QuestionUpdateReq struct {
	Type      *model.QuestionType                  `json:"type"`
	Body      *string                              `json:"body"`
	Responses []model.ExamTemplateQuestionResponse `json:"responses"`
}

// UpdateQuestion 部分更新题目字段；请求携带的响应项无条件写穿，
// 不判断是否真的变脏。
func (s *ExamTemplateService) UpdateQuestion(questionID string, req QuestionUpdateReq) (*model.ExamTemplateQuestion, error) {
	q, err := s.Repo.FindQuestionByID(questionID, true)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, util.ErrInvalidQuestionType
		}
		q.Type = *req.Type
	}
	if req.Body != nil {
		q.Body = *req.Body
	}
	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}

	for i := range req.Responses {
		resp, err := s.Repo.FindResponseByID(req.Responses[i].ID)
		if err != nil {
			return nil, err
		}
		// 只写穿挂在这道题目下的响应项，挂在别处的视作未找到
		if resp.ExamTemplateQuestionID != questionID {
			return nil, gorm.ErrRecordNotFound
		}
		resp.Value = req.Responses[i].Value
		resp.IsCorrect = req.Responses[i].IsCorrect
		if err := s.Repo.UpdateResponse(resp); err != nil {
			return nil, err
		}
	}

	return s.Repo.FindQuestionByID(questionID, true)
}

// DeleteQuestion 先级联删掉响应项再删题目，并同步内存树和选中游标。
// 题目不属于该聚合的模板时视作未找到，不触碰任何数据。
func (s *ExamTemplateService) DeleteQuestion(actorID string, agg *TemplateAggregate, questionID string) error {
	q, err := s.Repo.FindQuestionByID(questionID, false)
	if err != nil {
		return err
	}
	if agg != nil && q.ExamTemplateID != agg.Template.ID {
		return gorm.ErrRecordNotFound
	}
	if err := s.Repo.DeleteQuestion(questionID); err != nil {
		return err
	}
	if agg != nil {
		agg.removeQuestion(questionID)
		if err := s.Repo.TouchTemplate(agg.Template.ID, actorID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExamTemplateService) AddResponse(questionID, value string) (*model.ExamTemplateQuestionResponse, error) {
	q, err := s.Repo.FindQuestionByID(questionID, false)
	if err != nil {
		return nil, err
	}
	resp := &model.ExamTemplateQuestionResponse{
		ExamTemplateQuestionID: q.ID,
		Value:                  value,
		IsCorrect:              false,
	}
	if err := s.Repo.CreateResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ExamTemplateService) DeleteResponse(id string) error {
	return s.Repo.DeleteResponse(id)
}

// ToggleResponseCorrect 翻转正确标记并持久化，连续调用两次恢复原状
func (s *ExamTemplateService) ToggleResponseCorrect(id string) (*model.ExamTemplateQuestionResponse, error) {
	resp, err := s.Repo.FindResponseByID(id)
	if err != nil {
		return nil, err
	}
	resp.IsCorrect = !resp.IsCorrect
	if err := s.Repo.UpdateResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
