package model

// swagger:model ExamTemplate
type ExamTemplate struct {
	UUIDBase
	Name        string                 `gorm:"size:255;not null" json:"name"`
	AuthorID    string                 `gorm:"index;type:varchar(36)" json:"authorId"`
	Author      *User                  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	UpdatedByID string                 `gorm:"type:varchar(36)" json:"updatedById"`
	UpdatedBy   *User                  `gorm:"foreignKey:UpdatedByID" json:"updatedBy,omitempty"`
	Questions   []ExamTemplateQuestion `gorm:"foreignKey:ExamTemplateID" json:"questions,omitempty"`
}

func (ExamTemplate) TableName() string {
	return "exam_templates"
}

func (t *ExamTemplate) NumQuestions() int {
	return len(t.Questions)
}

// swagger:model ExamTemplateQuestion
type ExamTemplateQuestion struct {
	UUIDBase
	ExamTemplateID string                         `gorm:"index;type:varchar(36)" json:"examTemplateId"`
	Type           QuestionType                   `gorm:"not null" json:"type"`
	Body           string                         `gorm:"type:text" json:"body"` // 富文本题干
	Responses      []ExamTemplateQuestionResponse `gorm:"foreignKey:ExamTemplateQuestionID" json:"responses,omitempty"`
}

func (ExamTemplateQuestion) TableName() string {
	return "exam_template_questions"
}

// swagger:model ExamTemplateQuestionResponse
type ExamTemplateQuestionResponse struct {
	UUIDBase
	ExamTemplateQuestionID string `gorm:"index;type:varchar(36)" json:"examTemplateQuestionId"`
	Value                  string `gorm:"type:text" json:"value"`
	IsCorrect              bool   `gorm:"default:false" json:"isCorrect"`
}

func (ExamTemplateQuestionResponse) TableName() string {
	return "exam_template_question_responses"
}
