package model

import "time"

// Exam 由模板实例化产生，是分配给单个用户的独立副本，
// 模板后续的修改不会影响已分配的考试。
// swagger:model Exam
type Exam struct {
	UUIDBase
	UserID     string         `gorm:"index;type:varchar(36)" json:"userId"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	IsComplete bool           `gorm:"default:false" json:"isComplete"`
	Questions  []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

func (e *Exam) NumQuestions() int {
	return len(e.Questions)
}

// swagger:model ExamQuestion
type ExamQuestion struct {
	UUIDBase
	ExamID   string                `gorm:"index;type:varchar(36)" json:"examId"`
	Type     QuestionType          `gorm:"not null" json:"type"`
	Body     string                `gorm:"type:text" json:"body"`
	Response *ExamQuestionResponse `gorm:"foreignKey:ExamQuestionID" json:"response,omitempty"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// IsComplete 已有提交记录即视为作答完成
func (q *ExamQuestion) IsComplete() bool {
	return q.Response != nil
}

// swagger:model ExamQuestionResponse
type ExamQuestionResponse struct {
	UUIDBase
	ExamQuestionID string    `gorm:"uniqueIndex;type:varchar(36)" json:"examQuestionId"`
	Answer         string    `gorm:"type:text" json:"answer"`
	IsSubmitted    bool      `gorm:"default:false" json:"isSubmitted"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

func (ExamQuestionResponse) TableName() string {
	return "exam_question_responses"
}
