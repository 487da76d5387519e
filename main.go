package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ============================================================================
// 程序入口
// ============================================================================

func main() {
	loadI18nFiles()

	config := loadConfig()

	logLevel := LogInfo
	if config.System.DebugMode {
		logLevel = LogDebug
	}
	if err := InitLogger("logs", logLevel); err != nil {
		fmt.Printf("Warning: logger init failed: %v\n", err)
	}

	prefs := loadPreferences()

	backend := NewBackendClient(config.Backend.BaseURL, time.Duration(config.Backend.TimeoutSeconds)*time.Second)
	engine := NewPortfolioEngine(fetchQuote, backend)
	engine.Restore(loadPortfolio())
	flow := NewFlowController(backend)

	language := Chinese
	if config.System.Language == "en" {
		language = English
	}

	m := Model{
		state:    MainMenu,
		language: language,
		config:   config,
		menuItems: []string{
			"menu.analyze",
			"menu.portfolio",
			"menu.addPosition",
			"menu.capital",
			"menu.diagnose",
			"menu.risk",
			"menu.export",
			"menu.language",
			"menu.quit",
		},
		flow:           flow,
		engine:         engine,
		backend:        backend,
		riskPreference: prefs.RiskPreference,
	}

	logger.Infof("启动: backend=%s lang=%s risk=%s", config.Backend.BaseURL, language, prefs.RiskPreference)

	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func (m *Model) Init() tea.Cmd {
	if m.config.Update.AutoRefresh {
		return m.tickCmd()
	}
	return nil
}

// ============================================================================
// Update 分发
// ============================================================================

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case MainMenu:
			return m.handleMainMenu(msg)
		case SectorScanning, StockRecommending, Diagnosing:
			return m.handleWaiting(msg)
		case SectorSelecting:
			return m.handleSectorSelecting(msg)
		case RecommendViewing:
			return m.handleRecommendViewing(msg)
		case PortfolioViewing:
			return m.handlePortfolioViewing(msg)
		case PositionAdding:
			return m.handlePositionAdding(msg)
		case PositionEditing:
			return m.handlePositionEditing(msg)
		case PositionRemoving:
			return m.handlePositionRemoving(msg)
		case CapitalInput:
			return m.handleCapitalInput(msg)
		case PortfolioSorting:
			return m.handlePortfolioSorting(msg)
		case DiagnosisViewing:
			return m.handleDiagnosisViewing(msg)
		case RiskSelecting:
			return m.handleRiskSelecting(msg)
		case LanguageSelection:
			return m.handleLanguageSelection(msg)
		}

	case tickMsg:
		return m.handleTick()

	case scanDoneMsg:
		if msg.err != nil {
			// 重扫失败时旧结果仍在，退回勾选界面继续用
			if m.flow.Analysis() != nil {
				m.state = SectorSelecting
			} else {
				m.state = MainMenu
			}
			return m, m.showAlert(classifyError(msg.err, m.getText("alert.scanFailed")))
		}
		m.state = SectorSelecting
		m.cursor = 0
		return m, nil

	case recommendDoneMsg:
		if msg.err != nil {
			m.state = SectorSelecting
			return m, m.showAlert(classifyError(msg.err, m.getText("alert.recommendFailed")))
		}
		m.state = RecommendViewing
		m.recommendCursor = 0
		return m, nil

	case refreshDoneMsg:
		if !msg.skipped {
			m.lastRefresh = time.Now()
			savePortfolio(m.engine.Snapshot())
			if msg.failed > 0 {
				// 单只失败不打断用户，只在状态行提示
				m.message = fmt.Sprintf(m.getText("portfolio.refreshPartial"), msg.updated, msg.failed)
			} else if msg.updated > 0 {
				m.message = fmt.Sprintf(m.getText("portfolio.refreshDone"), msg.updated)
			}
		}
		return m, nil

	case diagnoseDoneMsg:
		if msg.err != nil {
			m.state = PortfolioViewing
			return m, m.showAlert(classifyError(msg.err, m.getText("alert.diagnoseFailed")))
		}
		m.diagnosisText = msg.text
		m.state = DiagnosisViewing
		return m, nil

	case lookupDoneMsg:
		// 检索是 best-effort，失败时名称留给行情刷新补全
		if msg.err == nil && msg.info != nil {
			m.lookupInfo = msg.info
		}
		return m, nil

	case alertExpireMsg:
		if m.alert != nil && m.alert.seq == msg.seq {
			m.alert = nil
		}
		return m, nil
	}

	return m, nil
}

// handleTick 自动刷新：仅在交易时段内、到达间隔后触发
func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.tickCmd()}

	if m.config.Update.AutoRefresh && isTradingSession(time.Now()) {
		interval := time.Duration(m.config.Update.RefreshIntervalMinutes) * time.Minute
		if time.Since(m.lastRefresh) >= interval && len(m.engine.Positions()) > 0 {
			cmds = append(cmds, m.refreshCmd())
		}
	}

	return m, tea.Batch(cmds...)
}

// ============================================================================
// View 分发
// ============================================================================

func (m *Model) View() string {
	var s string
	switch m.state {
	case MainMenu:
		s = m.viewMainMenu()
	case SectorScanning:
		s = m.viewWaiting("scan.inProgress")
	case SectorSelecting:
		s = m.viewSectorSelecting()
	case StockRecommending:
		s = m.viewWaiting("recommend.inProgress")
	case RecommendViewing:
		s = m.viewRecommendViewing()
	case PortfolioViewing:
		s = m.viewPortfolioViewing()
	case PositionAdding:
		s = m.viewPositionAdding()
	case PositionEditing:
		s = m.viewPositionEditing()
	case PositionRemoving:
		s = m.viewPositionRemoving()
	case CapitalInput:
		s = m.viewCapitalInput()
	case PortfolioSorting:
		s = m.viewPortfolioSorting()
	case Diagnosing:
		s = m.viewWaiting("diagnose.inProgress")
	case DiagnosisViewing:
		s = m.viewDiagnosisViewing()
	case RiskSelecting:
		s = m.viewRiskSelecting()
	case LanguageSelection:
		s = m.viewLanguageSelection()
	}

	if banner := m.renderAlert(); banner != "" {
		s += "\n" + banner + "\n"
	}
	return s
}

// ============================================================================
// 告警条
// ============================================================================

var (
	alertErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1")).
			Padding(0, 1)
	alertWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("3")).
				Padding(0, 1)
	alertInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Padding(0, 1)
)

// showAlert 展示告警并注册到期消息，旧告警直接被替换
func (m *Model) showAlert(desc AlertDescriptor) tea.Cmd {
	m.alertSeq++
	m.alert = &activeAlert{desc: desc, seq: m.alertSeq}
	seq := m.alertSeq

	logger.Warnf("告警: category=%d title=%s msg=%s", desc.Category, desc.Title, desc.Message)

	return tea.Tick(alertTimeout, func(time.Time) tea.Msg {
		return alertExpireMsg{seq: seq}
	})
}

// renderAlert 渲染当前告警条
func (m *Model) renderAlert() string {
	if m.alert == nil {
		return ""
	}

	desc := m.alert.desc
	content := desc.Title + ": " + desc.Message
	if desc.Details != "" {
		content += "\n" + truncateForLog(desc.Details, 120)
	}

	switch desc.Severity {
	case AlertError:
		return alertErrorStyle.Render(content)
	case AlertWarning:
		return alertWarningStyle.Render(content)
	default:
		return alertInfoStyle.Render(content)
	}
}

// ============================================================================
// 后台命令
// ============================================================================

// tickCmd 每分钟触发一次的定时器，刷新门控在 handleTick 做
func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *Model) scanCmd() tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		return scanDoneMsg{err: flow.RequestScan(context.Background())}
	}
}

func (m *Model) recommendCmd() tea.Cmd {
	flow := m.flow
	risk := m.riskPreference
	return func() tea.Msg {
		return recommendDoneMsg{err: flow.RequestRecommendations(context.Background(), risk)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		res := engine.RefreshQuotes(context.Background())
		return refreshDoneMsg{updated: res.Updated, failed: len(res.Failed), skipped: res.Skipped}
	}
}

func (m *Model) diagnoseCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		text, err := engine.Diagnose(context.Background())
		return diagnoseDoneMsg{text: text, err: err}
	}
}

func (m *Model) lookupCmd(tsCode string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		info, err := backend.LookupStockInfo(context.Background(), tsCode)
		return lookupDoneMsg{info: info, err: err}
	}
}

// ============================================================================
// 主菜单
// ============================================================================

func (m *Model) handleMainMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "w":
		if m.currentMenuItem > 0 {
			m.currentMenuItem--
		}
	case "down", "j", "s":
		if m.currentMenuItem < len(m.menuItems)-1 {
			m.currentMenuItem++
		}
	case "enter", " ":
		return m.executeMenuItem()
	case "q", "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) executeMenuItem() (tea.Model, tea.Cmd) {
	m.message = ""

	switch m.menuItems[m.currentMenuItem] {
	case "menu.analyze":
		if m.flow.Busy() {
			return m, m.showAlert(AlertDescriptor{
				Severity: AlertWarning,
				Title:    m.getText("alert.busyTitle"),
				Message:  m.getText("alert.busyMessage"),
			})
		}
		// 已有中间结果时直接回到对应界面
		switch m.flow.State() {
		case FlowSelecting:
			m.state = SectorSelecting
			m.cursor = 0
			return m, nil
		case FlowRecommending:
			m.state = RecommendViewing
			return m, nil
		}
		m.state = SectorScanning
		return m, m.scanCmd()

	case "menu.portfolio":
		m.state = PortfolioViewing
		m.portfolioCursor = 0
		m.portfolioScrollPos = 0
		return m, nil

	case "menu.addPosition":
		m.startAddingPosition()
		return m, nil

	case "menu.capital":
		m.state = CapitalInput
		m.capitalInput = ""
		m.capitalInputCursor = 0
		return m, nil

	case "menu.diagnose":
		if len(m.engine.Positions()) == 0 {
			return m, m.showAlert(AlertDescriptor{
				Severity: AlertWarning,
				Title:    m.getText("alert.emptyPortfolioTitle"),
				Message:  m.getText("alert.emptyPortfolioMessage"),
			})
		}
		m.state = Diagnosing
		return m, m.diagnoseCmd()

	case "menu.risk":
		m.state = RiskSelecting
		m.riskCursor = riskCursorFor(m.riskPreference)
		return m, nil

	case "menu.export":
		path, err := exportPortfolioMarkdown(m.engine.Snapshot(), m.diagnosisText)
		if err != nil {
			return m, m.showAlert(AlertDescriptor{
				Severity: AlertError,
				Title:    m.getText("alert.exportFailedTitle"),
				Message:  err.Error(),
			})
		}
		m.message = fmt.Sprintf(m.getText("export.done"), path)
		return m, nil

	case "menu.language":
		m.state = LanguageSelection
		m.languageCursor = 0
		if m.language == English {
			m.languageCursor = 1
		}
		return m, nil

	case "menu.quit":
		m.saveAll()
		return m, tea.Quit
	}

	return m, nil
}

// saveAll 退出前落盘
func (m *Model) saveAll() {
	savePortfolio(m.engine.Snapshot())
	savePreferences(Preferences{RiskPreference: m.riskPreference})
	saveConfig(m.config)
}

func (m *Model) viewMainMenu() string {
	s := "=== " + m.getText("app.title") + " ===\n\n"

	for i, key := range m.menuItems {
		prefix := "  "
		if i == m.currentMenuItem {
			prefix = "► "
		}
		line := m.getText(key)
		if key == "menu.risk" {
			line += ": " + m.getText("risk."+string(m.riskPreference))
		}
		s += prefix + line + "\n"
	}

	s += "\n" + m.getText("menu.help") + "\n"
	s += "=========================\n"

	if m.message != "" {
		s += "\n" + m.message + "\n"
	}
	return s
}

// ============================================================================
// 请求等待界面（扫描 / 推荐 / 诊断共用）
// ============================================================================

func (m *Model) handleWaiting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// 请求在途期间只响应退出
	if msg.String() == "ctrl+c" {
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewWaiting(key string) string {
	return "\n  " + m.getText(key) + "\n\n  " + m.getText("waiting.hint") + "\n"
}

// ============================================================================
// 板块勾选界面
// ============================================================================

func (m *Model) handleSectorSelecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	analysis := m.flow.Analysis()
	if analysis == nil {
		m.state = MainMenu
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(analysis.Sectors)-1 {
			m.cursor++
		}
	case " ":
		if m.cursor < len(analysis.Sectors) {
			m.flow.ToggleSector(analysis.Sectors[m.cursor].Name)
		}
	case "r":
		// 重新扫描，成功后替换当前结果，失败时保留原结果供重试
		if !m.flow.Busy() {
			m.state = SectorScanning
			return m, m.scanCmd()
		}
	case "enter":
		if m.flow.Busy() {
			return m, nil
		}
		if len(m.flow.SelectedSectors()) == 0 {
			return m, m.showAlert(AlertDescriptor{
				Severity: AlertWarning,
				Title:    m.getText("alert.noSelectionTitle"),
				Message:  m.getText("alert.noSelectionMessage"),
			})
		}
		m.state = StockRecommending
		return m, m.recommendCmd()
	case "esc", "q":
		m.flow.GoBack()
		m.state = MainMenu
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewSectorSelecting() string {
	analysis := m.flow.Analysis()
	if analysis == nil {
		return ""
	}

	s := "=== " + m.getText("scan.title") + " (" + analysis.TradeDate + ") ===\n\n"
	s += m.getText("scan.marketSummary") + ": " + analysis.MarketSummary + "\n"
	s += m.getText("scan.marketDirection") + ": " + analysis.MarketDirection + "\n\n"
	s += m.renderSectorTable(analysis, true) + "\n"

	if analysis.RiskWarning != "" {
		s += "\n" + m.getText("scan.riskWarning") + ": " + analysis.RiskWarning + "\n"
	}

	selected := m.flow.SelectedSectors()
	s += "\n" + fmt.Sprintf(m.getText("select.count"), len(selected)) + "\n"
	s += m.getText("select.help") + "\n"
	return s
}

// ============================================================================
// 推荐结果界面
// ============================================================================

func (m *Model) handleRecommendViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recs := m.flow.Recommendations()
	if recs == nil {
		m.state = MainMenu
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.scrollRecommendUp()
	case "down", "j":
		m.scrollRecommendDown(len(recs.Recommendations))
	case "b", "esc":
		// 回到勾选界面，保留已勾选集合
		m.flow.GoBack()
		m.state = SectorSelecting
	case "q":
		m.state = MainMenu
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewRecommendViewing() string {
	recs := m.flow.Recommendations()
	if recs == nil {
		return ""
	}

	s := "=== " + m.getText("recommend.title") + " (" + recs.TradeDate + ") ===\n\n"
	if recs.AnalysisSummary != "" {
		s += recs.AnalysisSummary + "\n\n"
	}
	s += m.renderRecommendationTable(recs) + "\n"

	if m.recommendCursor < len(recs.Recommendations) {
		s += "\n" + m.renderRecommendationDetail(recs.Recommendations[m.recommendCursor])
	}
	if recs.RiskWarning != "" {
		s += "\n" + m.getText("scan.riskWarning") + ": " + recs.RiskWarning + "\n"
	}
	s += "\n" + m.getText("recommend.help") + "\n"
	return s
}

// ============================================================================
// 持仓列表界面
// ============================================================================

func (m *Model) handlePortfolioViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	positions := m.engine.Positions()

	switch msg.String() {
	case "up", "k":
		m.scrollPortfolioUp()
	case "down", "j":
		m.scrollPortfolioDown()
	case "a":
		m.startAddingPosition()
	case "e":
		if idx := m.engineIndexForCursor(); idx >= 0 {
			m.state = PositionEditing
			m.editingStep = 0
			m.selectedIndex = idx
			m.tempQuantity = ""
			m.tempQuantityCursor = 0
			m.tempCost = ""
			m.tempCostCursor = 0
		}
	case "d":
		if idx := m.engineIndexForCursor(); idx >= 0 {
			m.state = PositionRemoving
			m.selectedIndex = idx
		}
	case "r":
		m.message = m.getText("portfolio.refreshing")
		return m, m.refreshCmd()
	case "s":
		m.state = PortfolioSorting
		m.sortCursor = 0
	case "c":
		m.state = CapitalInput
		m.capitalInput = ""
		m.capitalInputCursor = 0
	case "g":
		if len(positions) == 0 {
			return m, m.showAlert(AlertDescriptor{
				Severity: AlertWarning,
				Title:    m.getText("alert.emptyPortfolioTitle"),
				Message:  m.getText("alert.emptyPortfolioMessage"),
			})
		}
		m.state = Diagnosing
		return m, m.diagnoseCmd()
	case "esc", "q":
		m.state = MainMenu
		m.message = ""
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewPortfolioViewing() string {
	positions := m.sortedPositions()

	s := "=== " + m.getText("portfolio.title") + " ===\n\n"

	if len(positions) == 0 {
		s += m.getText("portfolio.empty") + "\n"
	} else {
		s += m.renderPortfolioTable(positions) + "\n"
		s += m.renderPortfolioSummary(positions) + "\n"
	}

	if !m.lastRefresh.IsZero() {
		s += fmt.Sprintf(m.getText("portfolio.lastRefresh"), m.lastRefresh.In(cstZone).Format("15:04:05")) + "\n"
	}
	if !isTradingSession(time.Now()) {
		s += m.getText("portfolio.offSession") + "\n"
	}

	s += "\n" + m.getText("portfolio.help") + "\n"
	if m.message != "" {
		s += "\n" + m.message + "\n"
	}
	return s
}

// ============================================================================
// 新增持仓（分步输入：代码 -> 数量 -> 成本价）
// ============================================================================

func (m *Model) startAddingPosition() {
	m.state = PositionAdding
	m.addingStep = 0
	m.tempCode = ""
	m.tempCodeCursor = 0
	m.tempQuantity = ""
	m.tempQuantityCursor = 0
	m.tempCost = ""
	m.tempCostCursor = 0
	m.lookupInfo = nil
	m.message = ""
}

func (m *Model) handlePositionAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = PortfolioViewing
		m.message = ""
		return m, nil
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	case "enter":
		return m.processAddingStep()
	}

	switch m.addingStep {
	case 0:
		handleTextInput(msg, &m.tempCode, &m.tempCodeCursor)
	case 1:
		handleTextInput(msg, &m.tempQuantity, &m.tempQuantityCursor)
	case 2:
		handleTextInput(msg, &m.tempCost, &m.tempCostCursor)
	}
	return m, nil
}

func (m *Model) processAddingStep() (tea.Model, tea.Cmd) {
	switch m.addingStep {
	case 0:
		code := normalizeTsCode(m.tempCode)
		if _, _, ok := splitTsCode(code); !ok {
			m.message = m.getText("add.invalidCode")
			return m, nil
		}
		m.tempCode = code
		m.addingStep = 1
		m.message = ""
		// 名称检索异步进行，不阻塞输入
		return m, m.lookupCmd(code)

	case 1:
		qty, err := strconv.Atoi(strings.TrimSpace(m.tempQuantity))
		if err != nil || qty <= 0 {
			m.message = m.getText("add.invalidQuantity")
			return m, nil
		}
		// 非整手输入自动贴齐并提示
		snapped := snapQuantity(qty)
		if snapped != qty {
			m.message = fmt.Sprintf(m.getText("add.quantitySnapped"), qty, snapped)
		} else {
			m.message = ""
		}
		m.tempQuantity = strconv.Itoa(snapped)
		m.addingStep = 2
		return m, nil

	case 2:
		cost, err := strconv.ParseFloat(strings.TrimSpace(m.tempCost), 64)
		if err != nil || cost <= 0 {
			m.message = m.getText("add.invalidCost")
			return m, nil
		}

		qty, _ := strconv.Atoi(m.tempQuantity)
		draft := Position{
			TsCode:    m.tempCode,
			Quantity:  qty,
			CostPrice: cost,
		}
		if m.lookupInfo != nil && m.lookupInfo.TsCode == m.tempCode {
			draft.Name = m.lookupInfo.Name
		}

		if err := m.engine.AddOrUpdate(draft, -1); err != nil {
			m.state = PortfolioViewing
			return m, m.showAlert(classifyError(err, m.getText("alert.addFailed")))
		}

		savePortfolio(m.engine.Snapshot())
		m.state = PortfolioViewing
		m.message = m.getText("add.success")
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m *Model) viewPositionAdding() string {
	s := "=== " + m.getText("add.title") + " ===\n\n"

	switch m.addingStep {
	case 0:
		s += m.getText("add.codePrompt") + "\n"
		s += "> " + formatTextWithCursor(m.tempCode, m.tempCodeCursor) + "\n"
	case 1:
		s += m.getText("add.codeLabel") + ": " + m.tempCode + "\n\n"
		s += m.getText("add.quantityPrompt") + "\n"
		s += "> " + formatTextWithCursor(m.tempQuantity, m.tempQuantityCursor) + "\n"
	case 2:
		s += m.getText("add.codeLabel") + ": " + m.tempCode + "\n"
		s += m.getText("add.quantityLabel") + ": " + m.tempQuantity + "\n\n"
		s += m.getText("add.costPrompt") + "\n"
		s += "> " + formatTextWithCursor(m.tempCost, m.tempCostCursor) + "\n"
	}

	s += "\n" + m.getText("input.help") + "\n"
	if m.message != "" {
		s += "\n" + m.message + "\n"
	}
	return s
}

// ============================================================================
// 修改持仓（数量 -> 成本价，代码不可改）
// ============================================================================

func (m *Model) handlePositionEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = PortfolioViewing
		m.message = ""
		return m, nil
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	case "enter":
		return m.processEditingStep()
	}

	switch m.editingStep {
	case 0:
		handleTextInput(msg, &m.tempQuantity, &m.tempQuantityCursor)
	case 1:
		handleTextInput(msg, &m.tempCost, &m.tempCostCursor)
	}
	return m, nil
}

func (m *Model) processEditingStep() (tea.Model, tea.Cmd) {
	positions := m.engine.Positions()
	if m.selectedIndex < 0 || m.selectedIndex >= len(positions) {
		m.state = PortfolioViewing
		return m, nil
	}
	current := positions[m.selectedIndex]

	switch m.editingStep {
	case 0:
		// 空输入保留原数量
		input := strings.TrimSpace(m.tempQuantity)
		if input == "" {
			m.tempQuantity = strconv.Itoa(current.Quantity)
		} else {
			qty, err := strconv.Atoi(input)
			if err != nil || qty <= 0 {
				m.message = m.getText("add.invalidQuantity")
				return m, nil
			}
			m.tempQuantity = strconv.Itoa(snapQuantity(qty))
		}
		m.editingStep = 1
		m.message = ""
		return m, nil

	case 1:
		input := strings.TrimSpace(m.tempCost)
		cost := current.CostPrice
		if input != "" {
			parsed, err := strconv.ParseFloat(input, 64)
			if err != nil || parsed <= 0 {
				m.message = m.getText("add.invalidCost")
				return m, nil
			}
			cost = parsed
		}

		qty, _ := strconv.Atoi(m.tempQuantity)
		draft := Position{
			TsCode:    current.TsCode,
			Name:      current.Name,
			Quantity:  qty,
			CostPrice: cost,
		}

		if err := m.engine.AddOrUpdate(draft, m.selectedIndex); err != nil {
			m.state = PortfolioViewing
			return m, m.showAlert(classifyError(err, m.getText("alert.editFailed")))
		}

		savePortfolio(m.engine.Snapshot())
		m.state = PortfolioViewing
		m.message = m.getText("edit.success")
		return m, nil
	}
	return m, nil
}

func (m *Model) viewPositionEditing() string {
	positions := m.engine.Positions()
	if m.selectedIndex < 0 || m.selectedIndex >= len(positions) {
		return ""
	}
	current := positions[m.selectedIndex]

	s := "=== " + m.getText("edit.title") + " ===\n\n"
	s += fmt.Sprintf("%s: %s %s\n\n", m.getText("add.codeLabel"), current.TsCode, current.Name)

	switch m.editingStep {
	case 0:
		s += fmt.Sprintf(m.getText("edit.quantityPrompt"), current.Quantity) + "\n"
		s += "> " + formatTextWithCursor(m.tempQuantity, m.tempQuantityCursor) + "\n"
	case 1:
		s += m.getText("add.quantityLabel") + ": " + m.tempQuantity + "\n\n"
		s += fmt.Sprintf(m.getText("edit.costPrompt"), current.CostPrice) + "\n"
		s += "> " + formatTextWithCursor(m.tempCost, m.tempCostCursor) + "\n"
	}

	s += "\n" + m.getText("input.help") + "\n"
	if m.message != "" {
		s += "\n" + m.message + "\n"
	}
	return s
}

// ============================================================================
// 删除持仓确认
// ============================================================================

func (m *Model) handlePositionRemoving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	positions := m.engine.Positions()
	if m.selectedIndex < 0 || m.selectedIndex >= len(positions) {
		m.state = PortfolioViewing
		return m, nil
	}
	target := positions[m.selectedIndex]

	switch msg.String() {
	case "y", "enter":
		m.engine.Remove(target.ID, target.TsCode)
		savePortfolio(m.engine.Snapshot())
		m.state = PortfolioViewing
		if m.portfolioCursor > 0 {
			m.portfolioCursor--
		}
		m.message = fmt.Sprintf(m.getText("remove.success"), target.TsCode)
	case "n", "esc", "q":
		m.state = PortfolioViewing
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewPositionRemoving() string {
	positions := m.engine.Positions()
	if m.selectedIndex < 0 || m.selectedIndex >= len(positions) {
		return ""
	}
	target := positions[m.selectedIndex]

	s := "=== " + m.getText("remove.title") + " ===\n\n"
	s += fmt.Sprintf(m.getText("remove.confirm"), target.TsCode, target.Name, target.Quantity) + "\n\n"
	s += m.getText("remove.help") + "\n"
	return s
}

// ============================================================================
// 总资金输入
// ============================================================================

func (m *Model) handleCapitalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = PortfolioViewing
		return m, nil
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	case "enter":
		capital, err := strconv.ParseFloat(strings.TrimSpace(m.capitalInput), 64)
		if err != nil || capital < 0 {
			m.message = m.getText("capital.invalid")
			return m, nil
		}
		if err := m.engine.SetTotalCapital(capital); err != nil {
			return m, m.showAlert(classifyError(err, m.getText("capital.invalid")))
		}
		savePortfolio(m.engine.Snapshot())
		m.state = PortfolioViewing
		m.message = fmt.Sprintf(m.getText("capital.success"), formatMoney(capital))
		return m, nil
	}

	handleTextInput(msg, &m.capitalInput, &m.capitalInputCursor)
	return m, nil
}

func (m *Model) viewCapitalInput() string {
	s := "=== " + m.getText("capital.title") + " ===\n\n"
	s += fmt.Sprintf(m.getText("capital.current"), formatMoney(m.engine.TotalCapital())) + "\n\n"
	s += m.getText("capital.prompt") + "\n"
	s += "> " + formatTextWithCursor(m.capitalInput, m.capitalInputCursor) + "\n"
	s += "\n" + m.getText("input.help") + "\n"
	if m.message != "" {
		s += "\n" + m.message + "\n"
	}
	return s
}

// ============================================================================
// 持仓排序菜单
// ============================================================================

var sortFieldKeys = []struct {
	field SortField
	key   string
}{
	{SortByTsCode, "col.code"},
	{SortByName, "col.name"},
	{SortByQuantity, "col.quantity"},
	{SortByCostPrice, "col.costPrice"},
	{SortByProfit, "col.profit"},
	{SortByProfitPct, "col.profitPct"},
	{SortByWeight, "col.weight"},
}

func (m *Model) handlePortfolioSorting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.sortCursor > 0 {
			m.sortCursor--
		}
	case "down", "j":
		if m.sortCursor < len(sortFieldKeys)-1 {
			m.sortCursor++
		}
	case "enter", " ":
		field := sortFieldKeys[m.sortCursor].field
		if m.isSorted && m.sortField == field {
			// 同字段再次选择时翻转方向
			if m.sortDirection == SortAsc {
				m.sortDirection = SortDesc
			} else {
				m.sortDirection = SortAsc
			}
		} else {
			m.sortField = field
			m.sortDirection = SortAsc
		}
		m.isSorted = true
		m.state = PortfolioViewing
	case "x":
		m.isSorted = false
		m.state = PortfolioViewing
	case "esc", "q":
		m.state = PortfolioViewing
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewPortfolioSorting() string {
	s := "=== " + m.getText("sort.title") + " ===\n\n"

	for i, item := range sortFieldKeys {
		prefix := "  "
		if i == m.sortCursor {
			prefix = "► "
		}
		line := m.getText(item.key)
		if m.isSorted && m.sortField == item.field {
			if m.sortDirection == SortAsc {
				line += " ↑"
			} else {
				line += " ↓"
			}
		}
		s += prefix + line + "\n"
	}

	s += "\n" + m.getText("sort.help") + "\n"
	return s
}

// ============================================================================
// 诊断报告界面
// ============================================================================

func (m *Model) handleDiagnosisViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		path, err := exportPortfolioMarkdown(m.engine.Snapshot(), m.diagnosisText)
		if err != nil {
			return m, m.showAlert(AlertDescriptor{
				Severity: AlertError,
				Title:    m.getText("alert.exportFailedTitle"),
				Message:  err.Error(),
			})
		}
		m.message = fmt.Sprintf(m.getText("export.done"), path)
	case "esc", "q", "b":
		m.state = PortfolioViewing
		m.message = ""
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewDiagnosisViewing() string {
	s := "=== " + m.getText("diagnose.title") + " ===\n\n"
	s += m.diagnosisText + "\n"
	s += "\n" + m.getText("diagnose.help") + "\n"
	if m.message != "" {
		s += "\n" + m.message + "\n"
	}
	return s
}

// ============================================================================
// 风险偏好选择
// ============================================================================

var riskOptions = []RiskPreference{RiskAggressive, RiskBalanced, RiskConservative}

func riskCursorFor(r RiskPreference) int {
	for i, opt := range riskOptions {
		if opt == r {
			return i
		}
	}
	return 1
}

func (m *Model) handleRiskSelecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.riskCursor > 0 {
			m.riskCursor--
		}
	case "down", "j":
		if m.riskCursor < len(riskOptions)-1 {
			m.riskCursor++
		}
	case "enter", " ":
		m.riskPreference = riskOptions[m.riskCursor]
		savePreferences(Preferences{RiskPreference: m.riskPreference})
		logger.Infof("风险偏好已更新: %s", m.riskPreference)
		m.state = MainMenu
	case "esc", "q":
		m.state = MainMenu
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewRiskSelecting() string {
	s := "=== " + m.getText("risk.title") + " ===\n\n"

	for i, opt := range riskOptions {
		prefix := "  "
		if i == m.riskCursor {
			prefix = "► "
		}
		line := m.getText("risk." + string(opt))
		if opt == m.riskPreference {
			line += " " + m.getText("risk.current")
		}
		s += prefix + line + "\n"
		s += "    " + m.getText("risk."+string(opt)+".desc") + "\n"
	}

	s += "\n" + m.getText("menu.backHelp") + "\n"
	return s
}

// ============================================================================
// 语言选择
// ============================================================================

func (m *Model) handleLanguageSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		m.languageCursor = 1 - m.languageCursor
	case "enter", " ":
		if m.languageCursor == 0 {
			m.language = Chinese
			m.config.System.Language = "zh"
		} else {
			m.language = English
			m.config.System.Language = "en"
		}
		saveConfig(m.config)
		m.state = MainMenu
	case "esc", "q":
		m.state = MainMenu
	case "ctrl+c":
		m.saveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) viewLanguageSelection() string {
	s := "=== " + m.getText("language.title") + " ===\n\n"

	options := []string{"中文", "English"}
	for i, opt := range options {
		prefix := "  "
		if i == m.languageCursor {
			prefix = "► "
		}
		s += prefix + opt + "\n"
	}

	s += "\n" + m.getText("menu.backHelp") + "\n"
	return s
}
