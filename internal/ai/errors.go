package ai

import (
	"errors"
	"fmt"
)

// Kind 标识生成管线中一次失败的类别，供路由层选择 HTTP 状态码、
// 供日志与指标区分“模型违约”“凭证问题”和“服务商故障”。
type Kind string

const (
	KindNotConfigured     Kind = "not_configured"
	KindInvalidCredential Kind = "invalid_credential"
	KindRateLimited       Kind = "rate_limited"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedResponse Kind = "malformed_response"
	KindProviderError     Kind = "provider_error"
	KindValidation        Kind = "validation"
)

// Error 将底层错误与 Kind 绑定；Message 面向调用方，底层细节只进日志。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// newError 构造不带底层错误的分类错误。
func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// wrapError 保留底层错误链。
func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 提取错误的 Kind；非本包错误一律归为 provider_error。
func KindOf(err error) Kind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindProviderError
}

// UserMessage 返回适合写入响应体的一句话描述。
func UserMessage(err error) string {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Message
	}
	return "generation failed"
}
