package apperr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Code 错误分类
type Code int

const (
	CodeInternal Code = iota
	CodeBadRequest
	CodeUnauthorized
	CodeForbidden
	CodeNotFound
	CodeMethodNotAllowed
	CodeTooManyRequests
)

// HTTPStatus 返回错误分类对应的 HTTP 状态码
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// StatusLine 返回旧版 API 使用的状态行，例如 "404 Not Found"
func (c Code) StatusLine() string {
	status := c.HTTPStatus()
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}

// Error 业务错误（在 Dispatcher 边界统一转换为错误信封）
type Error struct {
	Code    Code
	Message string // 面向客户端的提示信息，为空时使用 HTTP 状态描述
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Cause == nil:
		return e.Message
	case e.Message == "":
		return e.Cause.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误分类比较
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// PublicMessage 返回可以序列化给客户端的提示信息
func (e *Error) PublicMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code.HTTPStatus())
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap 包装底层错误，并附带调用栈
func Wrap(code Code, message string, cause error) *Error {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// 常用错误快捷方法

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func BadRequest(message string) *Error {
	return New(CodeBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func MethodNotAllowed(message string) *Error {
	return New(CodeMethodNotAllowed, message)
}

func TooManyRequests(message string) *Error {
	return New(CodeTooManyRequests, message)
}

func Internal(message string, cause error) *Error {
	return Wrap(CodeInternal, message, cause)
}

// From 提取业务错误；非业务错误统一视为内部错误，且不暴露原始信息
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Code: CodeInternal, Cause: err}
}

// IsCode 判断错误链中是否存在指定分类的业务错误
func IsCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
