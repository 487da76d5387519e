package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ============================================================================
// 实时行情获取
// 主源腾讯 qt.gtimg.cn，失败降级新浪 hq.sinajs.cn
// 两个源都返回 GBK 编码的 ~ / , 分隔文本，解析函数保持纯函数便于测试
// ============================================================================

var quoteClient = resty.New().
	SetTimeout(8 * time.Second).
	SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

// fetchQuote 获取单只股票的实时行情（带降级策略）
func fetchQuote(tsCode string) (*Quote, error) {
	code := normalizeTsCode(tsCode)

	quote, tencentErr := fetchTencentQuote(code)
	if tencentErr == nil {
		return quote, nil
	}
	logger.Warnf("腾讯行情获取失败，降级新浪: code=%s err=%v", code, tencentErr)

	quote, sinaErr := fetchSinaQuote(code)
	if sinaErr == nil {
		return quote, nil
	}

	return nil, fmt.Errorf("行情获取失败: 腾讯: %v; 新浪: %w", tencentErr, sinaErr)
}

// fetchTencentQuote 腾讯行情接口
func fetchTencentQuote(tsCode string) (*Quote, error) {
	symbol := convertTsCodeForTencent(tsCode)
	if symbol == "" {
		return nil, fmt.Errorf("无法识别的股票代码: %s", tsCode)
	}

	resp, err := quoteClient.R().
		SetHeader("Referer", "https://stockapp.finance.qq.com/").
		Get("https://qt.gtimg.cn/q=" + symbol)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("腾讯行情接口状态码异常: %d", resp.StatusCode())
	}

	content, err := gbkToUtf8(resp.Body())
	if err != nil {
		content = string(resp.Body())
	}

	return parseTencentQuote(tsCode, content)
}

// parseTencentQuote 解析腾讯行情响应
// 格式: v_sh600519="1~贵州茅台~600519~1700.00~1688.00~..."
// 字段位置: [1]名称 [3]现价 [4]昨收
func parseTencentQuote(tsCode, content string) (*Quote, error) {
	if !strings.Contains(content, "~") {
		return nil, fmt.Errorf("腾讯行情响应格式错误: %s", truncateForLog(content, 80))
	}

	fields := strings.Split(content, "~")
	if len(fields) < 5 {
		return nil, fmt.Errorf("腾讯行情字段不足: %d", len(fields))
	}

	name := strings.TrimSpace(fields[1])

	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("腾讯行情价格无效: %q", fields[3])
	}

	prevClose, err := strconv.ParseFloat(fields[4], 64)
	if err != nil || prevClose <= 0 {
		return nil, fmt.Errorf("腾讯行情昨收价无效: %q", fields[4])
	}

	return &Quote{
		TsCode:    tsCode,
		Name:      name,
		Price:     price,
		PrevClose: prevClose,
		ChangePct: (price - prevClose) / prevClose * 100,
	}, nil
}

// fetchSinaQuote 新浪行情接口（要求 Referer 头）
func fetchSinaQuote(tsCode string) (*Quote, error) {
	symbol := convertTsCodeForSina(tsCode)
	if symbol == "" {
		return nil, fmt.Errorf("无法识别的股票代码: %s", tsCode)
	}

	resp, err := quoteClient.R().
		SetHeader("Referer", "https://finance.sina.com.cn/").
		Get("https://hq.sinajs.cn/list=" + symbol)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("新浪行情接口状态码异常: %d", resp.StatusCode())
	}

	content, err := gbkToUtf8(resp.Body())
	if err != nil {
		content = string(resp.Body())
	}

	return parseSinaQuote(tsCode, content)
}

// parseSinaQuote 解析新浪行情响应
// 格式: var hq_str_sh600519="贵州茅台,1690.00,1688.00,1700.00,..."
// 字段位置: [0]名称 [2]昨收 [3]现价
func parseSinaQuote(tsCode, content string) (*Quote, error) {
	start := strings.Index(content, "\"")
	end := strings.LastIndex(content, "\"")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("新浪行情响应格式错误: %s", truncateForLog(content, 80))
	}

	fields := strings.Split(content[start+1:end], ",")
	if len(fields) < 4 {
		return nil, fmt.Errorf("新浪行情字段不足: %d", len(fields))
	}

	name := strings.TrimSpace(fields[0])

	prevClose, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || prevClose <= 0 {
		return nil, fmt.Errorf("新浪行情昨收价无效: %q", fields[2])
	}

	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("新浪行情价格无效: %q", fields[3])
	}

	return &Quote{
		TsCode:    tsCode,
		Name:      name,
		Price:     price,
		PrevClose: prevClose,
		ChangePct: (price - prevClose) / prevClose * 100,
	}, nil
}

// ============================================================================
// 代码格式转换
// 内部统一使用 tushare 风格 600519.SH；行情源各有自己的前缀格式
// ============================================================================

// normalizeTsCode 规整用户输入的股票代码为标准格式
// 支持 600519、600519.sh、sh600519 三种输入
func normalizeTsCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))

	if strings.HasPrefix(code, "SH") && !strings.Contains(code, ".") {
		return strings.TrimPrefix(code, "SH") + ".SH"
	}
	if strings.HasPrefix(code, "SZ") && !strings.Contains(code, ".") {
		return strings.TrimPrefix(code, "SZ") + ".SZ"
	}

	if strings.Contains(code, ".") {
		return code
	}

	// 6 位纯数字：按首位推断市场
	if len(code) == 6 {
		switch {
		case strings.HasPrefix(code, "6"):
			return code + ".SH"
		case strings.HasPrefix(code, "0"), strings.HasPrefix(code, "3"):
			return code + ".SZ"
		}
	}

	return code
}

// convertTsCodeForTencent 600519.SH -> sh600519
func convertTsCodeForTencent(tsCode string) string {
	code, market, ok := splitTsCode(tsCode)
	if !ok {
		return ""
	}
	return strings.ToLower(market) + code
}

// convertTsCodeForSina 600519.SH -> sh600519（与腾讯同格式）
func convertTsCodeForSina(tsCode string) string {
	return convertTsCodeForTencent(tsCode)
}

// splitTsCode 拆分标准代码为数字部分和市场后缀
func splitTsCode(tsCode string) (code, market string, ok bool) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(tsCode)), ".")
	if len(parts) != 2 || len(parts[0]) != 6 {
		return "", "", false
	}
	if parts[1] != "SH" && parts[1] != "SZ" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// gbkToUtf8 GBK 编码转 UTF-8
func gbkToUtf8(data []byte) (string, error) {
	reader := transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// truncateForLog 截断长文本，避免日志爆量
func truncateForLog(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
