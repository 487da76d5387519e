package main

import (
	"errors"
	"fmt"
)

// ============================================================================
// 错误分类：本地校验错误 / 远端请求错误
// 校验错误在发起请求前就地拦截；远端错误统一交给 classifyRemoteError 归类
// ============================================================================

// ValidationError 本地前置校验失败，不触发任何网络请求与状态变更
type ValidationError struct {
	Field  string // 违反约束的字段名
	Reason string // 具体原因（i18n key 或直述文本）
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// RemoteError 上游服务或网络失败，携带原始响应体供分类器探测
type RemoteError struct {
	Op         string // 触发请求的操作名，如 "scan_sectors"
	StatusCode int    // HTTP 状态码，网络层失败时为 0
	Payload    []byte // 原始响应体（可能不是合法 JSON）
	Err        error  // 底层传输错误
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: 请求失败: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: 上游返回异常 (HTTP %d)", e.Op, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// errRequestInFlight 同一控制器已有请求在途，调用方应忽略本次触发
var errRequestInFlight = errors.New("request already in flight")

// asValidationError 判定并取出校验错误
func asValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// asRemoteError 判定并取出远端错误
func asRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
