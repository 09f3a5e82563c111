package service

import (
	"errors"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func TestCreateAndLoadTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	created, err := svc.CreateTemplate(admin.ID, "Routing Basics")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated template id")
	}
	if created.AuthorID != admin.ID || created.UpdatedByID != admin.ID {
		t.Errorf("audit fields not set: author=%q updatedBy=%q", created.AuthorID, created.UpdatedByID)
	}

	agg, err := svc.LoadTemplate(created.ID)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if agg.Template.Name != "Routing Basics" {
		t.Errorf("expected name %q, got %q", "Routing Basics", agg.Template.Name)
	}
	if agg.Template.NumQuestions() != 0 {
		t.Errorf("new template should have no questions, got %d", agg.Template.NumQuestions())
	}
	if agg.Selection != nil {
		t.Error("new aggregate should have no selection")
	}
}

func TestLoadTemplateNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)

	_, err := svc.LoadTemplate(model.GenerateUUID())
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAddQuestionWithDraftedResponses(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, err := svc.CreateTemplate(admin.ID, "Switching")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	q, err := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "What does VLAN stand for?", []ResponseDraft{
		{Value: "Virtual Local Area Network"},
		{Value: "Very Large Access Node"},
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if len(q.Responses) != 2 {
		t.Fatalf("expected 2 drafted responses, got %d", len(q.Responses))
	}
	for _, resp := range q.Responses {
		if resp.IsCorrect {
			t.Error("drafted responses must start as not correct")
		}
		if resp.ExamTemplateQuestionID != q.ID {
			t.Errorf("response not attached to question: %q != %q", resp.ExamTemplateQuestionID, q.ID)
		}
	}

	agg, err := svc.LoadTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if agg.Template.NumQuestions() != 1 {
		t.Fatalf("expected 1 question after reload, got %d", agg.Template.NumQuestions())
	}
	if len(agg.Template.Questions[0].Responses) != 2 {
		t.Errorf("expected 2 responses after reload, got %d", len(agg.Template.Questions[0].Responses))
	}
}

func TestAddQuestionRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "Broken")
	_, err := svc.AddQuestion(admin.ID, tpl.ID, model.QuestionType(99), "bad", nil)
	if !errors.Is(err, util.ErrInvalidQuestionType) {
		t.Fatalf("expected ErrInvalidQuestionType, got %v", err)
	}
}

func TestUpdateQuestionWritesThroughResponses(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "OSPF")
	q, err := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Old body", []ResponseDraft{
		{Value: "Area 0"},
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	newBody := "Which area is the OSPF backbone?"
	newType := model.MultipleChoiceMultiSelect
	edited := q.Responses[0]
	edited.Value = "Area 0 (backbone)"
	edited.IsCorrect = true

	updated, err := svc.UpdateQuestion(q.ID, QuestionUpdateReq{
		Type:      &newType,
		Body:      &newBody,
		Responses: []model.ExamTemplateQuestionResponse{edited},
	})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.Body != newBody {
		t.Errorf("body not updated: %q", updated.Body)
	}
	if updated.Type != model.MultipleChoiceMultiSelect {
		t.Errorf("type not updated: %v", updated.Type)
	}
	if len(updated.Responses) != 1 || updated.Responses[0].Value != "Area 0 (backbone)" || !updated.Responses[0].IsCorrect {
		t.Errorf("response not written through: %+v", updated.Responses)
	}
}

func TestDeleteQuestionCascadesAndClearsSelection(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "BGP")
	q1, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q1", []ResponseDraft{{Value: "a"}, {Value: "b"}})
	q2, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q2", nil)

	agg, err := svc.LoadTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	agg.Select(q1.ID)
	if agg.Selection == nil || *agg.Selection != q1.ID {
		t.Fatal("selection not applied")
	}

	if err := svc.DeleteQuestion(admin.ID, agg, q1.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	// 选中目标被删除后游标清空
	if agg.Selection != nil {
		t.Errorf("selection should be cleared, got %q", *agg.Selection)
	}
	if agg.Template.NumQuestions() != 1 || agg.Template.Questions[0].ID != q2.ID {
		t.Errorf("in-memory tree not pruned: %+v", agg.Template.Questions)
	}

	// 响应项随题目一起消失
	var respCount int64
	if err := db.Model(&model.ExamTemplateQuestionResponse{}).Where("exam_template_question_id = ?", q1.ID).Count(&respCount).Error; err != nil {
		t.Fatalf("count responses: %v", err)
	}
	if respCount != 0 {
		t.Errorf("expected orphaned responses to be deleted, found %d", respCount)
	}
}

func TestDeleteQuestionRejectsForeignTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	author := createTestUser(t, db, "Author", "author@test.local", model.Admin)
	editor := createTestUser(t, db, "Editor", "editor@test.local", model.Admin)

	tplA, _ := svc.CreateTemplate(author.ID, "Template A")
	tplB, _ := svc.CreateTemplate(author.ID, "Template B")
	qB, _ := svc.AddQuestion(author.ID, tplB.ID, model.MultipleChoiceSingleSelect, "belongs to B", []ResponseDraft{{Value: "x"}})

	aggA, err := svc.LoadTemplate(tplA.ID)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}

	// 通过 A 的聚合删 B 的题目：未找到，B 的子树完好
	if err := svc.DeleteQuestion(editor.ID, aggA, qB.ID); !IsNotFound(err) {
		t.Fatalf("cross-template delete should be not found, got %v", err)
	}

	if _, err := svc.Repo.FindQuestionByID(qB.ID, false); err != nil {
		t.Errorf("foreign question must survive: %v", err)
	}
	var respCount int64
	db.Model(&model.ExamTemplateQuestionResponse{}).Where("exam_template_question_id = ?", qB.ID).Count(&respCount)
	if respCount != 1 {
		t.Errorf("foreign responses must survive, found %d", respCount)
	}

	// 被拒绝的删除不得在 A 上留下编辑痕迹
	reloadedA, err := svc.Repo.FindTemplateByID(tplA.ID, false)
	if err != nil {
		t.Fatalf("FindTemplateByID: %v", err)
	}
	if reloadedA.UpdatedByID != author.ID {
		t.Errorf("rejected delete must not stamp the audit field, updated_by=%q", reloadedA.UpdatedByID)
	}
}

func TestUpdateQuestionRejectsForeignResponses(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "Boundaries")
	q1, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q1", nil)
	q2, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q2", []ResponseDraft{{Value: "original"}})

	foreign := q2.Responses[0]
	foreign.Value = "hijacked"
	foreign.IsCorrect = true

	// 写穿只覆盖挂在目标题目下的响应项
	_, err := svc.UpdateQuestion(q1.ID, QuestionUpdateReq{
		Responses: []model.ExamTemplateQuestionResponse{foreign},
	})
	if !IsNotFound(err) {
		t.Fatalf("foreign response write-through should be not found, got %v", err)
	}

	stored, err := svc.Repo.FindResponseByID(q2.Responses[0].ID)
	if err != nil {
		t.Fatalf("FindResponseByID: %v", err)
	}
	if stored.Value != "original" || stored.IsCorrect {
		t.Errorf("foreign response must stay untouched: %+v", stored)
	}
}

func TestDeleteQuestionKeepsSelectionOnOtherTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "IS-IS")
	q1, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q1", nil)
	q2, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q2", nil)

	agg, _ := svc.LoadTemplate(tpl.ID)
	agg.Select(q2.ID)

	if err := svc.DeleteQuestion(admin.ID, agg, q1.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if agg.Selection == nil || *agg.Selection != q2.ID {
		t.Error("selection on surviving question should be preserved")
	}
}

func TestToggleResponseCorrectIsSelfInverse(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "QoS")
	q, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q", []ResponseDraft{{Value: "x"}})
	respID := q.Responses[0].ID

	first, err := svc.ToggleResponseCorrect(respID)
	if err != nil {
		t.Fatalf("ToggleResponseCorrect: %v", err)
	}
	if !first.IsCorrect {
		t.Error("first toggle should mark correct")
	}

	second, err := svc.ToggleResponseCorrect(respID)
	if err != nil {
		t.Fatalf("ToggleResponseCorrect: %v", err)
	}
	if second.IsCorrect {
		t.Error("second toggle should restore original state")
	}

	stored, err := svc.Repo.FindResponseByID(respID)
	if err != nil {
		t.Fatalf("FindResponseByID: %v", err)
	}
	if stored.IsCorrect {
		t.Error("persisted state should match after double toggle")
	}
}

func TestDeleteTemplateCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "MPLS Fundamentals")
	q, _ := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "What does MPLS stand for?", []ResponseDraft{
		{Value: "Multiprotocol Label Switching"},
		{Value: "Multiple Path Link Selection"},
	})

	if err := svc.DeleteTemplate(tpl.ID); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}

	if _, err := svc.LoadTemplate(tpl.ID); !IsNotFound(err) {
		t.Errorf("template should be gone, got %v", err)
	}

	var qCount, rCount int64
	db.Model(&model.ExamTemplateQuestion{}).Where("exam_template_id = ?", tpl.ID).Count(&qCount)
	db.Model(&model.ExamTemplateQuestionResponse{}).Where("exam_template_question_id = ?", q.ID).Count(&rCount)
	if qCount != 0 || rCount != 0 {
		t.Errorf("cascade incomplete: questions=%d responses=%d", qCount, rCount)
	}

	// 删除不是幂等的：目标已消失时返回未找到
	if err := svc.DeleteTemplate(tpl.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestRenameTemplateUpdatesAudit(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	author := createTestUser(t, db, "Author", "author@test.local", model.Admin)
	editor := createTestUser(t, db, "Editor", "editor@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(author.ID, "Draft name")
	renamed, err := svc.RenameTemplate(editor.ID, tpl.ID, "Final name")
	if err != nil {
		t.Fatalf("RenameTemplate: %v", err)
	}
	if renamed.Name != "Final name" {
		t.Errorf("name not updated: %q", renamed.Name)
	}
	if renamed.AuthorID != author.ID {
		t.Error("author must not change on rename")
	}
	if renamed.UpdatedByID != editor.ID {
		t.Error("updated-by should track the last editor")
	}
}

func TestListTemplatesReportsQuestionCount(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, _ := svc.CreateTemplate(admin.ID, "Counted")
	svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "Q1", nil)
	svc.AddQuestion(admin.ID, tpl.ID, model.DragAndDropOrdered, "Q2", nil)

	rows, total, err := svc.ListTemplates(1, 10)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected one template, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].QuestionCount != 2 {
		t.Errorf("expected question count 2, got %d", rows[0].QuestionCount)
	}
}

// 模板编辑的端到端流程：建模板、出题、挂答案、标记正确项、
// 最后重新加载验证整棵树落了库。
func TestTemplateAuthoringFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	admin := createTestUser(t, db, "Admin", "admin@test.local", model.Admin)

	tpl, err := svc.CreateTemplate(admin.ID, "MPLS Fundamentals")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	q, err := svc.AddQuestion(admin.ID, tpl.ID, model.MultipleChoiceSingleSelect, "What is an LSP?", nil)
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	right, err := svc.AddResponse(q.ID, "Label Switched Path")
	if err != nil {
		t.Fatalf("AddResponse: %v", err)
	}
	wrong, err := svc.AddResponse(q.ID, "Link State Packet")
	if err != nil {
		t.Fatalf("AddResponse: %v", err)
	}

	if _, err := svc.ToggleResponseCorrect(right.ID); err != nil {
		t.Fatalf("ToggleResponseCorrect: %v", err)
	}

	agg, err := svc.LoadTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if agg.Template.NumQuestions() != 1 {
		t.Fatalf("expected 1 question, got %d", agg.Template.NumQuestions())
	}
	responses := agg.Template.Questions[0].Responses
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	for _, resp := range responses {
		switch resp.ID {
		case right.ID:
			if !resp.IsCorrect {
				t.Error("marked response should persist as correct")
			}
		case wrong.ID:
			if resp.IsCorrect {
				t.Error("unmarked response should stay incorrect")
			}
		}
	}
}
