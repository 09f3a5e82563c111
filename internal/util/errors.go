package util

import "errors"

var (
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrInvalidQuestionType    = errors.New("invalid question type")
	ErrAnswerAlreadySubmitted = errors.New("answer already submitted")
	ErrIdentityUnresolved     = errors.New("no active user for session")
	ErrSessionNotFound        = errors.New("session not found or expired")
)
