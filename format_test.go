package main

import (
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
		desc     string
	}{
		{1234.5, "1234.50", "万以下原样"},
		{56789, "5.68万", "万级"},
		{123456789, "1.23亿", "亿级"},
		{-56789, "-5.68万", "负数万级"},
		{0, "0.00", "零"},
	}

	for _, tt := range tests {
		if got := formatMoney(tt.input); got != tt.expected {
			t.Errorf("%s: formatMoney(%v) = %q, expected %q", tt.desc, tt.input, got, tt.expected)
		}
	}
}

func TestFormatProfitColorByLanguage(t *testing.T) {
	zh := &Model{language: Chinese}
	en := &Model{language: English}

	// 中文红涨绿跌，英文绿涨红跌，通过 ANSI 颜色码区分
	zhProfit := zh.formatProfitWithColorLang(100)
	enProfit := en.formatProfitWithColorLang(100)

	if !strings.Contains(zhProfit, "\x1b[31m") {
		t.Errorf("中文盈利应为红色: %q", zhProfit)
	}
	if !strings.Contains(enProfit, "\x1b[32m") {
		t.Errorf("英文盈利应为绿色: %q", enProfit)
	}

	zhLoss := zh.formatProfitWithColorLang(-100)
	if !strings.Contains(zhLoss, "\x1b[32m") {
		t.Errorf("中文亏损应为绿色: %q", zhLoss)
	}
}

func TestFormatProfitZeroNoColor(t *testing.T) {
	m := &Model{language: Chinese}
	got := m.formatProfitWithColorZeroLang(0)
	if strings.Contains(got, "\x1b[") {
		t.Errorf("零值不应带颜色: %q", got)
	}
}

func TestFormatPriceDecimalPlaces(t *testing.T) {
	m := &Model{config: Config{Display: DisplayConfig{DecimalPlaces: 3}}}
	if got := m.formatPrice(1700.5); got != "1700.500" {
		t.Errorf("formatPrice = %q, expected 1700.500", got)
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		input    string
		limit    int
		expected string
		desc     string
	}{
		{"短文本", 10, "短文本", "未超限原样"},
		{"一二三四五", 3, "一二三...", "中文按字符截断"},
		{"abcdef", 4, "abcd...", "英文截断"},
	}

	for _, tt := range tests {
		if got := truncateForLog(tt.input, tt.limit); got != tt.expected {
			t.Errorf("%s: truncateForLog(%q, %d) = %q, expected %q", tt.desc, tt.input, tt.limit, got, tt.expected)
		}
	}
}

func TestHighlightColorHelpers(t *testing.T) {
	if got := highlightColorOrDefault("", "yellow"); got != "yellow" {
		t.Errorf("空配置应退回默认色, got %q", got)
	}
	if got := highlightColorOrDefault("purple", "yellow"); got != "yellow" {
		t.Errorf("无效色名应退回默认色, got %q", got)
	}
	if got := highlightColorOrDefault("CYAN", "yellow"); got != "CYAN" {
		t.Errorf("合法色名应原样返回, got %q", got)
	}

	if out := highlightText("半导体", "red"); !strings.Contains(out, "\x1b[31m") {
		t.Errorf("红色高亮应包含红色控制码: %q", out)
	}
	if out := highlightText("半导体", "unknown"); !strings.Contains(out, "\x1b[33m") {
		t.Errorf("未知色名应退到黄色控制码: %q", out)
	}
}
