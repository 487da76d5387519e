package main

import (
	"math"
	"testing"
)

func TestNormalizeTsCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		desc     string
	}{
		{"600519", "600519.SH", "沪市6开头纯数字"},
		{"000858", "000858.SZ", "深市0开头纯数字"},
		{"300750", "300750.SZ", "创业板3开头纯数字"},
		{"600519.sh", "600519.SH", "小写后缀规整为大写"},
		{"sh600519", "600519.SH", "sh前缀格式"},
		{"SZ000858", "000858.SZ", "SZ前缀格式"},
		{" 600519 ", "600519.SH", "前后空白"},
		{"600519.SH", "600519.SH", "已是标准格式"},
	}

	for _, tt := range tests {
		if got := normalizeTsCode(tt.input); got != tt.expected {
			t.Errorf("%s: normalizeTsCode(%q) = %q, expected %q", tt.desc, tt.input, got, tt.expected)
		}
	}
}

func TestConvertTsCodeForTencent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		desc     string
	}{
		{"600519.SH", "sh600519", "沪市标准格式"},
		{"000858.SZ", "sz000858", "深市标准格式"},
		{"600519", "", "非标准格式返回空"},
		{"600519.XX", "", "未知市场后缀返回空"},
		{"60051.SH", "", "代码位数不足返回空"},
	}

	for _, tt := range tests {
		if got := convertTsCodeForTencent(tt.input); got != tt.expected {
			t.Errorf("%s: convertTsCodeForTencent(%q) = %q, expected %q", tt.desc, tt.input, got, tt.expected)
		}
	}
}

func TestParseTencentQuote(t *testing.T) {
	content := `v_sh600519="1~贵州茅台~600519~1700.00~1688.00~1690.00~..."`

	quote, err := parseTencentQuote("600519.SH", content)
	if err != nil {
		t.Fatalf("parseTencentQuote 返回错误: %v", err)
	}

	if quote.Name != "贵州茅台" {
		t.Errorf("名称 = %q, expected 贵州茅台", quote.Name)
	}
	if quote.Price != 1700.00 {
		t.Errorf("现价 = %.2f, expected 1700.00", quote.Price)
	}
	if quote.PrevClose != 1688.00 {
		t.Errorf("昨收 = %.2f, expected 1688.00", quote.PrevClose)
	}

	expectedPct := (1700.00 - 1688.00) / 1688.00 * 100
	if math.Abs(quote.ChangePct-expectedPct) > 1e-9 {
		t.Errorf("涨跌幅 = %f, expected %f", quote.ChangePct, expectedPct)
	}
}

func TestParseTencentQuoteInvalid(t *testing.T) {
	tests := []struct {
		content string
		desc    string
	}{
		{"v_pv_none=1", "无分隔符"},
		{`v_sh600519="1~贵州茅台~600519"`, "字段不足"},
		{`v_sh600519="1~贵州茅台~600519~0.00~1688.00"`, "现价为零"},
		{`v_sh600519="1~贵州茅台~600519~abc~1688.00"`, "现价非数字"},
	}

	for _, tt := range tests {
		if _, err := parseTencentQuote("600519.SH", tt.content); err == nil {
			t.Errorf("%s: 应返回解析错误", tt.desc)
		}
	}
}

func TestParseSinaQuote(t *testing.T) {
	content := `var hq_str_sh600519="贵州茅台,1690.00,1688.00,1700.00,1705.00,1685.00";`

	quote, err := parseSinaQuote("600519.SH", content)
	if err != nil {
		t.Fatalf("parseSinaQuote 返回错误: %v", err)
	}

	if quote.Name != "贵州茅台" {
		t.Errorf("名称 = %q, expected 贵州茅台", quote.Name)
	}
	// 新浪字段: [2]昨收 [3]现价
	if quote.PrevClose != 1688.00 {
		t.Errorf("昨收 = %.2f, expected 1688.00", quote.PrevClose)
	}
	if quote.Price != 1700.00 {
		t.Errorf("现价 = %.2f, expected 1700.00", quote.Price)
	}
}

func TestParseSinaQuoteInvalid(t *testing.T) {
	tests := []struct {
		content string
		desc    string
	}{
		{"var hq_str_sh600519=;", "无引号"},
		{`var hq_str_sh600519="贵州茅台,1690.00";`, "字段不足"},
		{`var hq_str_sh600519="";`, "空数据（停牌或代码无效）"},
	}

	for _, tt := range tests {
		if _, err := parseSinaQuote("600519.SH", tt.content); err == nil {
			t.Errorf("%s: 应返回解析错误", tt.desc)
		}
	}
}

func TestFetchQuoteIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("跳过集成测试（需要网络）")
	}

	quote, err := fetchQuote("600519.SH")
	if err != nil {
		t.Fatalf("fetchQuote 返回错误: %v", err)
	}
	if quote.Price <= 0 {
		t.Errorf("现价异常: %.2f", quote.Price)
	}
	t.Logf("✅ %s (%s): 现价=%.2f 涨跌=%.2f%%", quote.Name, quote.TsCode, quote.Price, quote.ChangePct)
}
