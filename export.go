package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ============================================================================
// Markdown 导出
// 把持仓快照和诊断报告导出为 export/portfolio_YYYY-MM-DD.md
// ============================================================================

// buildPortfolioMarkdown 生成持仓快照的 Markdown 文本
func buildPortfolioMarkdown(snapshot PortfolioSnapshot, diagnosis string, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# 持仓报告 %s\n\n", now.In(cstZone).Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("总资金: %s\n\n", formatMoney(snapshot.TotalCapital)))

	if len(snapshot.Positions) == 0 {
		b.WriteString("当前无持仓。\n")
	} else {
		b.WriteString("| 代码 | 名称 | 数量 | 成本价 | 现价 | 盈亏 | 盈亏率 | 仓位 |\n")
		b.WriteString("| --- | --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")

		var totalProfit float64
		for _, p := range snapshot.Positions {
			price := "-"
			if p.CurrentPrice > 0 {
				price = fmt.Sprintf("%.2f", p.CurrentPrice)
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %.2f | %s | %+.2f | %+.2f%% | %.2f%% |\n",
				p.TsCode, p.Name, p.Quantity, p.CostPrice, price, p.Profit, p.ProfitPct, p.Weight))
			totalProfit += p.Profit
		}

		b.WriteString(fmt.Sprintf("\n合计盈亏: %+.2f\n", totalProfit))
	}

	if diagnosis != "" {
		b.WriteString("\n## AI 诊断\n\n")
		b.WriteString(diagnosis)
		if !strings.HasSuffix(diagnosis, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// exportPortfolioMarkdown 导出持仓报告，返回生成的文件路径
func exportPortfolioMarkdown(snapshot PortfolioSnapshot, diagnosis string) (string, error) {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", err
	}

	now := time.Now()
	path := filepath.Join(exportDir, fmt.Sprintf("portfolio_%s.md", now.In(cstZone).Format("2006-01-02")))
	content := buildPortfolioMarkdown(snapshot, diagnosis, now)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}

	logger.Infof("持仓报告已导出: %s", path)
	return path, nil
}
