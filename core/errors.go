package core

import "errors"

// DomainError 是各模块返回给调用方的错误：Module 标明出处，Code 决定调用方如何处理
// （HTTP 层据此映射 400 / 503 / 500）。判断用 IsXXX，可穿透 fmt.Errorf("%w") 包装。
type DomainError struct {
	Code    string
	Message string
	Module  string
}

func (e *DomainError) Error() string { return e.Message }

// Is 让 errors.Is 按 Module + Code 匹配哨兵错误，与 Message 无关。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Module == t.Module && e.Code == t.Code
}

func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// GetDomainError 取出错误链中的 DomainError，没有则返回 nil。
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

const (
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeUnavailable   = "UNAVAILABLE"
	ErrorCodeInvalidInput  = "INVALID_INPUT"
	ErrorCodeUninitialized = "UNINITIALIZED" // 数据尚未加载
)

const (
	ModuleStore  = "store"
	ModuleEngine = "engine"
)

var (
	// ErrUninitialized 表示在 Load 完成前调用了查询操作。
	ErrUninitialized = NewDomainError(ModuleEngine, ErrorCodeUninitialized, "engine: dataset not loaded")

	ErrInvalidN      = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "engine: n must not be negative")
	ErrInvalidUserID = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "engine: user id must be positive")
)

func hasCode(err error, code string) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == code
}

func IsUnavailable(err error) bool   { return hasCode(err, ErrorCodeUnavailable) }
func IsInvalidInput(err error) bool  { return hasCode(err, ErrorCodeInvalidInput) }
func IsUninitialized(err error) bool { return hasCode(err, ErrorCodeUninitialized) }
