package main

import (
	"strings"
	"testing"
)

func TestClassifyRemoteErrorQuota(t *testing.T) {
	tests := []struct {
		payload string
		desc    string
	}{
		{`{"detail": "Error code: 429 - rate limit"}`, "detail 含 429"},
		{`{"detail": "API quota exceeded for this key"}`, "detail 含 quota"},
		{`{"detail": "抱歉，您每分钟最多访问该接口5次"}`, "tushare 限流中文提示"},
		{`{"detail": "您的积分不足，无法调用该接口"}`, "tushare 积分提示"},
	}

	for _, tt := range tests {
		desc := classifyRemoteError([]byte(tt.payload), "默认消息")
		if desc.Category != CategoryQuotaExceeded {
			t.Errorf("%s: category = %d, expected CategoryQuotaExceeded", tt.desc, desc.Category)
		}
		if desc.Severity != AlertError {
			t.Errorf("%s: severity = %d, expected AlertError", tt.desc, desc.Severity)
		}
		if desc.Details == "" {
			t.Errorf("%s: Details 不应为空", tt.desc)
		}
	}
}

func TestClassifyRemoteErrorPermission(t *testing.T) {
	tests := []struct {
		payload string
		desc    string
	}{
		{`{"detail": "抱歉，您没有接口访问权限"}`, "权限提示一"},
		{`{"detail": "抱歉，您没有访问该接口的权限，请到 tushare.pro 升级"}`, "权限提示二"},
	}

	for _, tt := range tests {
		desc := classifyRemoteError([]byte(tt.payload), "默认消息")
		if desc.Category != CategoryDataSourcePermission {
			t.Errorf("%s: category = %d, expected CategoryDataSourcePermission", tt.desc, desc.Category)
		}
	}
}

func TestClassifyRemoteErrorGenericTruncation(t *testing.T) {
	long := strings.Repeat("异常", 300)
	desc := classifyRemoteError([]byte(`{"detail": "`+long+`"}`), "默认消息")

	if desc.Category != CategoryGenericUpstream {
		t.Fatalf("category = %d, expected CategoryGenericUpstream", desc.Category)
	}
	if len([]rune(desc.Message)) > genericMessageLimit+3 {
		t.Errorf("消息未截断: len=%d", len([]rune(desc.Message)))
	}
	if desc.Details != long {
		t.Errorf("截断后 Details 应保留完整原文")
	}
}

func TestClassifyRemoteErrorGenericShort(t *testing.T) {
	desc := classifyRemoteError([]byte(`{"detail": "数据库连接失败"}`), "默认消息")

	if desc.Category != CategoryGenericUpstream {
		t.Fatalf("category = %d, expected CategoryGenericUpstream", desc.Category)
	}
	if desc.Message != "数据库连接失败" {
		t.Errorf("短消息不应截断: %q", desc.Message)
	}
	if desc.Details != "" {
		t.Errorf("未截断时 Details 应为空: %q", desc.Details)
	}
}

func TestClassifyRemoteErrorSuccessFalse(t *testing.T) {
	payload := `{"success": false, "error": "调用失败: 每分钟最多访问该接口8000次"}`
	desc := classifyRemoteError([]byte(payload), "默认消息")

	if desc.Category != CategoryQuotaExceeded {
		t.Errorf("success:false 叙述中的配额标记应归为配额类, got %d", desc.Category)
	}
	if len([]rune(desc.Details)) > quotaDetailsLimit {
		t.Errorf("Details 超过上限: %d", len([]rune(desc.Details)))
	}
}

func TestClassifyRemoteErrorFallback(t *testing.T) {
	tests := []struct {
		payload string
		desc    string
	}{
		{``, "空响应体"},
		{`{"success": true}`, "success true 无错误字段"},
		{`{"unrelated": 1}`, "无已知字段的 JSON"},
	}

	for _, tt := range tests {
		desc := classifyRemoteError([]byte(tt.payload), "连接分析服务失败")
		if desc.Category != CategoryUnknown {
			t.Errorf("%s: category = %d, expected CategoryUnknown", tt.desc, desc.Category)
		}
		if desc.Message != "连接分析服务失败" {
			t.Errorf("%s: 兜底消息不匹配: %q", tt.desc, desc.Message)
		}
	}
}

func TestClassifyRemoteErrorPlainText(t *testing.T) {
	// 非 JSON 纯文本体整体当作细节
	desc := classifyRemoteError([]byte("Internal Server Error"), "默认消息")
	if desc.Category != CategoryGenericUpstream {
		t.Errorf("纯文本体应归为通用上游错误, got %d", desc.Category)
	}
	if desc.Message != "Internal Server Error" {
		t.Errorf("消息应为原始文本: %q", desc.Message)
	}
}

func TestClassifyErrorValidation(t *testing.T) {
	err := &ValidationError{Field: "quantity", Reason: "数量必须为 100 的整数倍"}
	desc := classifyError(err, "默认消息")

	if desc.Severity != AlertWarning {
		t.Errorf("校验错误应为警告级别, got %d", desc.Severity)
	}
	if desc.Message != "数量必须为 100 的整数倍" {
		t.Errorf("消息应为校验原因: %q", desc.Message)
	}
}

func TestClassifyErrorRemoteWrapped(t *testing.T) {
	err := &RemoteError{
		Op:         "scan_sectors",
		StatusCode: 429,
		Payload:    []byte(`{"detail": "quota exceeded"}`),
	}
	desc := classifyError(err, "板块扫描失败")

	if desc.Category != CategoryQuotaExceeded {
		t.Errorf("远端错误应走分类器, got %d", desc.Category)
	}
}
