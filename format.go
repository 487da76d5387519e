package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
)

// ============================================================================
// 盈亏格式化函数 - 支持多语言颜色方案
// 中文：红涨绿跌 | 英文：绿涨红跌
// ============================================================================

// formatProfitWithColorLang 格式化盈亏金额（带颜色）
func (m *Model) formatProfitWithColorLang(profit float64) string {
	if m.language == English {
		// 英文：绿色盈利，红色亏损
		if profit >= 0 {
			return text.FgGreen.Sprintf("+%.2f", profit)
		}
		return text.FgRed.Sprintf("%.2f", profit)
	}
	// 中文：红色盈利，绿色亏损
	if profit >= 0 {
		return text.FgRed.Sprintf("+%.2f", profit)
	}
	return text.FgGreen.Sprintf("%.2f", profit)
}

// formatProfitRateWithColorLang 格式化盈亏比例（带颜色）
func (m *Model) formatProfitRateWithColorLang(rate float64) string {
	if m.language == English {
		if rate >= 0 {
			return text.FgGreen.Sprintf("+%.2f%%", rate)
		}
		return text.FgRed.Sprintf("%.2f%%", rate)
	}
	if rate >= 0 {
		return text.FgRed.Sprintf("+%.2f%%", rate)
	}
	return text.FgGreen.Sprintf("%.2f%%", rate)
}

// formatProfitWithColorZeroLang 格式化盈亏金额（零值显示白色）
func (m *Model) formatProfitWithColorZeroLang(profit float64) string {
	// 数值接近0时（考虑浮点数精度）不加颜色
	if abs(profit) < 0.001 {
		return fmt.Sprintf("%.2f", profit)
	}
	return m.formatProfitWithColorLang(profit)
}

// formatProfitRateWithColorZeroLang 格式化盈亏比例（零值显示白色）
func (m *Model) formatProfitRateWithColorZeroLang(rate float64) string {
	if abs(rate) < 0.001 {
		return fmt.Sprintf("%.2f%%", rate)
	}
	return m.formatProfitRateWithColorLang(rate)
}

// formatChangePctWithColorLang 格式化板块/行情涨跌幅（带颜色）
func (m *Model) formatChangePctWithColorLang(pct float64) string {
	return m.formatProfitRateWithColorZeroLang(pct)
}

// formatPrice 按配置精度格式化价格
func (m *Model) formatPrice(price float64) string {
	return fmt.Sprintf("%.*f", m.config.Display.DecimalPlaces, price)
}

// ============================================================================
// 其他格式化函数
// ============================================================================

// formatMoney 格式化金额（万/亿）
func formatMoney(amount float64) string {
	a := abs(amount)
	switch {
	case a >= 100000000:
		return fmt.Sprintf("%.2f亿", amount/100000000)
	case a >= 10000:
		return fmt.Sprintf("%.2f万", amount/10000)
	default:
		return fmt.Sprintf("%.2f", amount)
	}
}

// formatMoneyFlow 格式化板块资金净流入（亿元，带方向颜色）
func (m *Model) formatMoneyFlow(flow float64) string {
	s := fmt.Sprintf("%.2f亿", flow)
	if abs(flow) < 0.001 {
		return s
	}
	if m.language == English {
		if flow > 0 {
			return text.FgGreen.Sprint(s)
		}
		return text.FgRed.Sprint(s)
	}
	if flow > 0 {
		return text.FgRed.Sprint(s)
	}
	return text.FgGreen.Sprint(s)
}

// formatSectorNameWithSelection 格式化板块名称（已勾选板块背景高亮）
func (m *Model) formatSectorNameWithSelection(name string) string {
	if m.flow != nil && m.flow.IsSelected(name) {
		colorName := highlightColorOrDefault(m.config.Display.SelectionHighlight, "yellow")
		return highlightText(name, colorName)
	}
	return name
}

// ============================================================================
// 辅助函数
// ============================================================================

// abs 返回浮点数的绝对值
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
