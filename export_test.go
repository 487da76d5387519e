package main

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPortfolioMarkdown(t *testing.T) {
	snapshot := PortfolioSnapshot{
		TotalCapital: 1000000,
		Positions: []Position{
			{TsCode: "600519.SH", Name: "贵州茅台", Quantity: 200, CostPrice: 1680, CurrentPrice: 1700, Profit: 4000, ProfitPct: 1.19, Weight: 33.6},
			{TsCode: "000858.SZ", Name: "五粮液", Quantity: 500, CostPrice: 150, Profit: 0, ProfitPct: 0, Weight: 7.5},
		},
	}
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, cstZone)

	md := buildPortfolioMarkdown(snapshot, "仓位集中度偏高，建议分散。", now)

	checks := []struct {
		substr string
		desc   string
	}{
		{"# 持仓报告 2026-08-28", "标题含日期"},
		{"100.00万", "总资金人性化显示"},
		{"| 600519.SH | 贵州茅台 | 200 |", "持仓行"},
		{"| - |", "无现价显示横杠"},
		{"合计盈亏: +4000.00", "合计行"},
		{"## AI 诊断", "诊断小节"},
		{"仓位集中度偏高", "诊断正文"},
	}

	for _, c := range checks {
		if !strings.Contains(md, c.substr) {
			t.Errorf("%s: 导出内容缺少 %q\n%s", c.desc, c.substr, md)
		}
	}
}

func TestBuildPortfolioMarkdownEmpty(t *testing.T) {
	md := buildPortfolioMarkdown(PortfolioSnapshot{}, "", time.Now())

	if !strings.Contains(md, "当前无持仓") {
		t.Errorf("空仓导出应有提示\n%s", md)
	}
	if strings.Contains(md, "## AI 诊断") {
		t.Errorf("无诊断文本时不应有诊断小节")
	}
}
