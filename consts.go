package main

import "time"

// 文件路径常量
const (
	portfolioFile   = "data/portfolio.json"
	preferencesFile = "data/preferences.json"
	configFile      = "conf/config.yml"
	exportDir       = "export"
)

// 告警自动消失时间
const alertTimeout = 10 * time.Second

// 自动刷新行情的默认间隔（分钟）
const defaultRefreshIntervalMinutes = 30

// 语言常量
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// 风险偏好枚举
type RiskPreference string

const (
	RiskAggressive   RiskPreference = "aggressive"
	RiskBalanced     RiskPreference = "balanced"
	RiskConservative RiskPreference = "conservative"
)

// isValidRiskPreference 校验风险偏好取值
func isValidRiskPreference(r RiskPreference) bool {
	switch r {
	case RiskAggressive, RiskBalanced, RiskConservative:
		return true
	}
	return false
}

// 应用状态常量
type AppState int

const (
	MainMenu AppState = iota
	SectorScanning       // 板块扫描请求进行中
	SectorSelecting      // 板块列表展示与勾选
	StockRecommending    // 推荐请求进行中
	RecommendViewing     // 推荐结果展示
	PortfolioViewing     // 持仓列表
	PositionAdding       // 新增持仓（分步输入）
	PositionEditing      // 修改持仓
	PositionRemoving     // 删除持仓确认
	CapitalInput         // 总资金输入
	PortfolioSorting     // 持仓排序菜单
	Diagnosing           // 持仓诊断请求进行中
	DiagnosisViewing     // 诊断报告展示
	RiskSelecting        // 风险偏好选择
	LanguageSelection    // 语言选择
)

// 持仓排序字段枚举
type SortField int

const (
	SortByTsCode    SortField = iota // 股票代码
	SortByName                       // 股票名称
	SortByQuantity                   // 持仓数量
	SortByCostPrice                  // 成本价
	SortByProfit                     // 持仓盈亏
	SortByProfitPct                  // 盈亏率
	SortByWeight                     // 仓位占比
)

// 排序方向枚举
type SortDirection int

const (
	SortAsc  SortDirection = iota // 升序
	SortDesc                      // 降序
)
