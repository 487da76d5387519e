package main

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ============================================================================
// 上游错误分类器
// 上游返回的失败体形态不一：FastAPI 风格 {"detail": "..."}、
// 旧版 {"success": false, "error": "..."}、纯文本、甚至空体。
// 这里用 gjson 做宽松探测，按固定优先级归入四类，保证全覆盖不抛错
// ============================================================================

// ErrorCategory 错误类别
type ErrorCategory int

const (
	CategoryUnknown              ErrorCategory = iota
	CategoryQuotaExceeded                      // 配额 / 限流
	CategoryDataSourcePermission               // 数据源权限不足
	CategoryGenericUpstream                    // 其他上游错误
)

// AlertSeverity 告警级别
type AlertSeverity int

const (
	AlertInfo AlertSeverity = iota
	AlertWarning
	AlertError
)

// AlertDescriptor 面向用户的告警描述
type AlertDescriptor struct {
	Category ErrorCategory
	Severity AlertSeverity
	Title    string
	Message  string
	Details  string // 可选，原始错误细节
}

// 消息截断上限
const (
	genericMessageLimit = 200
	quotaDetailsLimit   = 500
)

// 配额/限流标记（小写匹配）
var quotaMarkers = []string{
	"429",
	"quota",
	"exceeded",
	"每分钟最多访问",
	"积分不足",
}

// 数据源权限标记
var permissionMarkers = []string{
	"没有接口访问权限",
	"没有访问该接口的权限",
	"tushare.pro",
}

// classifyRemoteError 把原始失败响应体映射为告警描述
// 永不失败：任何输入最终都落到 Unknown 兜底
func classifyRemoteError(payload []byte, defaultMsg string) AlertDescriptor {
	detail := extractDetail(payload)

	if detail != "" {
		lower := strings.ToLower(detail)

		if containsAny(lower, quotaMarkers) {
			return AlertDescriptor{
				Category: CategoryQuotaExceeded,
				Severity: AlertError,
				Title:    "API 配额超限",
				Message:  "请求频率或配额已达上限，请稍后重试，或在后端切换 LLM 提供商。",
				Details:  detail,
			}
		}

		if containsAny(lower, permissionMarkers) {
			return AlertDescriptor{
				Category: CategoryDataSourcePermission,
				Severity: AlertError,
				Title:    "数据源权限不足",
				Message:  "当前数据源账号无权访问该接口，请检查 Token 权限或升级套餐。",
				Details:  detail,
			}
		}

		// 其他上游错误：消息截断到上限，超出部分完整保留在 Details
		msg := detail
		details := ""
		if len([]rune(msg)) > genericMessageLimit {
			msg = string([]rune(msg)[:genericMessageLimit]) + "..."
			details = detail
		}
		return AlertDescriptor{
			Category: CategoryGenericUpstream,
			Severity: AlertError,
			Title:    "分析服务异常",
			Message:  msg,
			Details:  details,
		}
	}

	// success:false 的旧版失败体：叙述文本里再探一次配额标记
	if res := gjson.GetBytes(payload, "success"); res.Exists() && !res.Bool() {
		narrative := firstNonEmpty(
			gjson.GetBytes(payload, "error").String(),
			gjson.GetBytes(payload, "message").String(),
			gjson.GetBytes(payload, "diagnosis").String(),
		)
		if narrative != "" && containsAny(strings.ToLower(narrative), quotaMarkers) {
			if len([]rune(narrative)) > quotaDetailsLimit {
				narrative = string([]rune(narrative)[:quotaDetailsLimit])
			}
			return AlertDescriptor{
				Category: CategoryQuotaExceeded,
				Severity: AlertError,
				Title:    "API 配额超限",
				Message:  "请求频率或配额已达上限，请稍后重试，或在后端切换 LLM 提供商。",
				Details:  narrative,
			}
		}
	}

	return AlertDescriptor{
		Category: CategoryUnknown,
		Severity: AlertError,
		Title:    "请求失败",
		Message:  defaultMsg,
	}
}

// classifyError 统一入口：校验错误直接透出，远端错误走分类器
func classifyError(err error, defaultMsg string) AlertDescriptor {
	if ve, ok := asValidationError(err); ok {
		return AlertDescriptor{
			Category: CategoryUnknown,
			Severity: AlertWarning,
			Title:    "输入有误",
			Message:  ve.Reason,
		}
	}
	if re, ok := asRemoteError(err); ok {
		msg := defaultMsg
		if msg == "" {
			msg = re.Error()
		}
		return classifyRemoteError(re.Payload, msg)
	}
	if err != nil && defaultMsg == "" {
		defaultMsg = err.Error()
	}
	return classifyRemoteError(nil, defaultMsg)
}

// extractDetail 从失败体中取文本细节
// 优先 JSON 的 detail 字段；非 JSON 的纯文本体整体当作细节
func extractDetail(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	if gjson.ValidBytes(payload) {
		return strings.TrimSpace(gjson.GetBytes(payload, "detail").String())
	}
	return strings.TrimSpace(string(payload))
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}
