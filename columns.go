package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ============================================================================
// 表格渲染
// 三张核心表：板块扫描结果、个股推荐、持仓列表
// ============================================================================

// tableStyleFromConfig 按配置选择表格样式
func (m *Model) tableStyleFromConfig() table.Style {
	switch m.config.Display.TableStyle {
	case "bold":
		return table.StyleBold
	case "simple":
		return table.StyleDefault
	default:
		return table.StyleLight
	}
}

// renderSectorTable 渲染板块扫描结果表
// 勾选阶段带光标列和选中标记
func (m *Model) renderSectorTable(analysis *SectorAnalysis, withCursor bool) string {
	t := table.NewWriter()
	t.SetStyle(m.tableStyleFromConfig())

	header := table.Row{
		m.getText("col.sector"),
		m.getText("col.changePct"),
		m.getText("col.moneyFlow"),
		m.getText("col.hotLevel"),
		m.getText("col.signal"),
		m.getText("col.reason"),
	}
	if withCursor {
		header = append(table.Row{"", ""}, header...)
	}
	t.AppendHeader(header)

	for i, sector := range analysis.Sectors {
		row := table.Row{
			m.formatSectorNameWithSelection(sector.Name),
			m.formatChangePctWithColorLang(sector.ChangePct),
			m.formatMoneyFlow(sector.MoneyFlow),
			sector.HotLevel,
			sector.Signal,
			truncateForLog(sector.Reason, 30),
		}
		if withCursor {
			cursor := " "
			if i == m.cursor {
				cursor = ">"
			}
			checked := "[ ]"
			if m.flow.IsSelected(sector.Name) {
				checked = "[x]"
			}
			row = append(table.Row{cursor, checked}, row...)
		}
		t.AppendRow(row)
	}

	return t.Render()
}

// renderRecommendationTable 渲染个股推荐表
func (m *Model) renderRecommendationTable(recs *RecommendationSet) string {
	t := table.NewWriter()
	t.SetStyle(m.tableStyleFromConfig())
	t.AppendHeader(table.Row{
		"",
		m.getText("col.rank"),
		m.getText("col.code"),
		m.getText("col.name"),
		m.getText("col.sector"),
		m.getText("col.signal"),
		m.getText("col.score"),
		m.getText("col.price"),
		m.getText("col.targetPrice"),
		m.getText("col.stopLoss"),
		m.getText("col.positionPct"),
	})

	for i, rec := range recs.Recommendations {
		cursor := " "
		if i == m.recommendCursor {
			cursor = ">"
		}
		t.AppendRow(table.Row{
			cursor,
			rec.Rank,
			rec.TsCode,
			rec.Name,
			rec.Sector,
			rec.Signal,
			fmt.Sprintf("%.1f", rec.Score),
			m.formatPrice(rec.CurrentPrice),
			m.formatPrice(rec.TargetPrice),
			m.formatPrice(rec.StopLossPrice),
			fmt.Sprintf("%.0f%%", rec.PositionPct),
		})
	}

	return t.Render()
}

// renderRecommendationDetail 渲染推荐个股的理由和风险明细
func (m *Model) renderRecommendationDetail(rec StockRecommendation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s (%s)\n", m.getText("recommend.detail"), rec.Name, rec.TsCode))
	b.WriteString(fmt.Sprintf("  %s: %s | %s: %s\n",
		m.getText("col.holdPeriod"), rec.HoldPeriod,
		m.getText("col.entryTiming"), rec.EntryTiming))

	if len(rec.Reasons) > 0 {
		b.WriteString(m.getText("recommend.reasons") + "\n")
		for _, r := range rec.Reasons {
			b.WriteString("  · " + r + "\n")
		}
	}
	if len(rec.RiskFactors) > 0 {
		b.WriteString(m.getText("recommend.risks") + "\n")
		for _, r := range rec.RiskFactors {
			b.WriteString("  · " + r + "\n")
		}
	}

	return b.String()
}

// renderPortfolioTable 渲染持仓列表表
func (m *Model) renderPortfolioTable(positions []Position) string {
	t := table.NewWriter()
	t.SetStyle(m.tableStyleFromConfig())
	t.AppendHeader(table.Row{
		"",
		m.getText("col.code"),
		m.getText("col.name"),
		m.getText("col.quantity"),
		m.getText("col.costPrice"),
		m.getText("col.price"),
		m.getText("col.profit"),
		m.getText("col.profitPct"),
		m.getText("col.weight"),
	})

	start, end := m.visiblePositionRange(len(positions))
	for i := start; i < end; i++ {
		p := positions[i]
		cursor := " "
		if i == m.portfolioCursor {
			cursor = ">"
		}

		price := "-"
		if p.CurrentPrice > 0 {
			price = m.formatPrice(p.CurrentPrice)
		}

		t.AppendRow(table.Row{
			cursor,
			p.TsCode,
			p.Name,
			p.Quantity,
			m.formatPrice(p.CostPrice),
			price,
			m.formatProfitWithColorZeroLang(p.Profit),
			m.formatProfitRateWithColorZeroLang(p.ProfitPct),
			fmt.Sprintf("%.2f%%", p.Weight),
		})
	}

	return t.Render()
}

// renderPortfolioSummary 渲染持仓汇总行（总市值、总盈亏、总资金）
func (m *Model) renderPortfolioSummary(positions []Position) string {
	var totalCost, totalProfit float64
	for _, p := range positions {
		totalCost += float64(p.Quantity) * p.CostPrice
		totalProfit += p.Profit
	}

	return fmt.Sprintf("%s: %s | %s: %s | %s: %s",
		m.getText("portfolio.totalCost"), formatMoney(totalCost),
		m.getText("portfolio.totalProfit"), m.formatProfitWithColorZeroLang(totalProfit),
		m.getText("portfolio.totalCapital"), formatMoney(m.engine.TotalCapital()))
}
