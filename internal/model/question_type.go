package model

// QuestionType 题目类型
type QuestionType int

const (
	MultipleChoiceSingleSelect QuestionType = 1
	MultipleChoiceMultiSelect  QuestionType = 2
	DragAndDropOrdered         QuestionType = 3
)

func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoiceSingleSelect, MultipleChoiceMultiSelect, DragAndDropOrdered:
		return true
	}
	return false
}

func (t QuestionType) String() string {
	switch t {
	case MultipleChoiceSingleSelect:
		return "multiple_choice_single_select"
	case MultipleChoiceMultiSelect:
		return "multiple_choice_multiple_select"
	case DragAndDropOrdered:
		return "drag_and_drop_ordered"
	}
	return "unknown"
}
