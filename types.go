package main

import (
	"context"
	"time"
)

// ============================================================================
// 板块分析数据结构（来自后端 /api/analyze/sectors）
// ============================================================================

// Sector 单个热门板块
type Sector struct {
	Name      string  `json:"name"`       // 板块名称（同一次分析内唯一）
	ChangePct float64 `json:"change_pct"` // 当日涨跌幅 %
	MoneyFlow float64 `json:"money_flow"` // 资金净流入（亿元，负数为流出）
	HotLevel  string  `json:"hot_level"`  // 热度：高/中/低
	Signal    string  `json:"signal"`     // 信号：利多/中性/利空
	Reason    string  `json:"reason"`     // 推荐理由
}

// SectorAnalysis 一次全市场扫描的结果，整体替换，不做增量合并
type SectorAnalysis struct {
	MarketSummary   string   `json:"market_summary"`
	MarketDirection string   `json:"market_direction"`
	Sectors         []Sector `json:"sectors"`
	RiskWarning     string   `json:"risk_warning"`
	TradeDate       string   `json:"trade_date"`
}

// hasSector 检查板块名是否属于本次分析结果
func (a *SectorAnalysis) hasSector(name string) bool {
	if a == nil {
		return false
	}
	for _, s := range a.Sectors {
		if s.Name == name {
			return true
		}
	}
	return false
}

// ============================================================================
// 股票推荐数据结构（来自后端 /api/analyze/stocks）
// ============================================================================

// StockRecommendation 单只推荐股票
type StockRecommendation struct {
	Rank          int      `json:"rank"`
	TsCode        string   `json:"ts_code"` // 股票代码，如 600519.SH
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Signal        string   `json:"signal"`
	Score         float64  `json:"score"`
	CurrentPrice  float64  `json:"current_price"`
	TargetPrice   float64  `json:"target_price"`
	StopLossPrice float64  `json:"stop_loss_price"`
	PositionPct   float64  `json:"position_pct"` // 建议仓位 %
	HoldPeriod    string   `json:"hold_period"`
	EntryTiming   string   `json:"entry_timing"`
	Reasons       []string `json:"reasons"`
	RiskFactors   []string `json:"risk_factors"`
}

// RecommendationSet 一次推荐请求的完整结果
type RecommendationSet struct {
	AnalysisSummary string                `json:"analysis_summary"`
	Recommendations []StockRecommendation `json:"recommendations"`
	RiskWarning     string                `json:"risk_warning"`
	TradeDate       string                `json:"trade_date"`
	SelectedSectors []string              `json:"selected_sectors,omitempty"`
}

// ============================================================================
// 持仓数据结构
// ============================================================================

// Position 单笔持仓。Profit/ProfitPct/Weight 为派生字段，
// 只允许由引擎重算，任何路径都不得单独赋值
type Position struct {
	ID           int     `json:"id,omitempty"` // 引擎分配的自增序号，草稿为 0
	TsCode       string  `json:"ts_code"`      // 业务主键，组合内唯一
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`   // 必须为 100 的正整数倍
	CostPrice    float64 `json:"cost_price"` // 必须 > 0
	CurrentPrice float64 `json:"current_price,omitempty"`
	Profit       float64 `json:"profit,omitempty"`
	ProfitPct    float64 `json:"profit_pct,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
}

// PortfolioSnapshot 持仓组合快照，用于持久化与诊断请求
type PortfolioSnapshot struct {
	TotalCapital float64    `json:"total_capital"`
	Positions    []Position `json:"positions"`
}

// Quote 单只股票的实时行情
type Quote struct {
	TsCode    string
	Name      string
	Price     float64
	PrevClose float64
	ChangePct float64
}

// QuoteFetcher 行情获取契约，按股票代码独立取价
type QuoteFetcher func(tsCode string) (*Quote, error)

// StockInfo 代码检索结果（后端 best-effort 名称解析）
type StockInfo struct {
	TsCode string `json:"ts_code"`
	Name   string `json:"name"`
}

// AnalysisBackend 上游分析服务契约（传输细节由实现负责）
type AnalysisBackend interface {
	ScanSectors(ctx context.Context) (*SectorAnalysis, error)
	RecommendStocks(ctx context.Context, sectors []string, risk RiskPreference) (*RecommendationSet, error)
	DiagnosePortfolio(ctx context.Context, snapshot PortfolioSnapshot) (string, error)
	LookupStockInfo(ctx context.Context, code string) (*StockInfo, error)
}

// ============================================================================
// 配置结构
// ============================================================================

// Config 系统配置
type Config struct {
	System  SystemConfig  `yaml:"system"`
	Backend BackendConfig `yaml:"backend"`
	Update  UpdateConfig  `yaml:"update"`
	Display DisplayConfig `yaml:"display"`
}

// SystemConfig 系统设置
type SystemConfig struct {
	Language  string `yaml:"language"`   // "zh" 或 "en"
	DebugMode bool   `yaml:"debug_mode"` // 调试日志开关
}

// BackendConfig 分析后端设置
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// UpdateConfig 行情刷新设置
type UpdateConfig struct {
	AutoRefresh            bool `yaml:"auto_refresh"`             // 交易时段内自动刷新
	RefreshIntervalMinutes int  `yaml:"refresh_interval_minutes"` // 自动刷新间隔
}

// DisplayConfig 显示设置
type DisplayConfig struct {
	DecimalPlaces      int    `yaml:"decimal_places"`      // 价格小数位数
	TableStyle         string `yaml:"table_style"`         // "light", "bold", "simple"
	MaxLines           int    `yaml:"max_lines"`           // 列表每页最大行数
	SelectionHighlight string `yaml:"selection_highlight"` // 已选板块的背景高亮颜色
}

// Preferences 用户偏好（启动时读取一次）
type Preferences struct {
	RiskPreference RiskPreference `json:"risk_preference"`
}

// TextMap 文本映射结构（用于 i18n）
type TextMap map[string]string

// ============================================================================
// TUI 模型与消息
// ============================================================================

// activeAlert 当前展示的告警，seq 用于过期消息配对
type activeAlert struct {
	desc AlertDescriptor
	seq  int
}

// Model 应用程序主模型
type Model struct {
	state           AppState
	currentMenuItem int
	menuItems       []string
	cursor          int
	message         string
	language        Language
	config          Config

	// 核心组件
	flow    *FlowController
	engine  *PortfolioEngine
	backend AnalysisBackend

	// 风险偏好
	riskPreference RiskPreference
	riskCursor     int

	// 告警展示
	alert    *activeAlert
	alertSeq int

	// 持仓输入（分步）
	addingStep         int
	tempCode           string
	tempCodeCursor     int
	tempCost           string
	tempCostCursor     int
	tempQuantity       string
	tempQuantityCursor int
	lookupInfo         *StockInfo
	editingStep        int
	selectedIndex      int // 正在编辑/删除的持仓下标

	// 总资金输入
	capitalInput       string
	capitalInputCursor int

	// 持仓列表滚动与排序
	portfolioScrollPos int
	portfolioCursor    int
	sortField          SortField
	sortDirection      SortDirection
	sortCursor         int
	isSorted           bool

	// 推荐结果滚动
	recommendCursor int

	// 诊断报告
	diagnosisText string

	// 语言选择
	languageCursor int

	lastRefresh time.Time
}

// tickMsg 自动刷新定时消息
type tickMsg struct{}

// scanDoneMsg 板块扫描完成
type scanDoneMsg struct {
	err error
}

// recommendDoneMsg 股票推荐完成
type recommendDoneMsg struct {
	err error
}

// refreshDoneMsg 行情刷新批次完成
type refreshDoneMsg struct {
	updated int
	failed  int
	skipped bool
}

// diagnoseDoneMsg 持仓诊断完成
type diagnoseDoneMsg struct {
	text string
	err  error
}

// lookupDoneMsg 代码检索完成
type lookupDoneMsg struct {
	info *StockInfo
	err  error
}

// alertExpireMsg 告警到期
type alertExpireMsg struct {
	seq int
}
