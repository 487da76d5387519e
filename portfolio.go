package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ============================================================================
// 持仓引擎
// 持有持仓台账和总资金，派生字段（盈亏、权重）只在这里统一重算，
// 外部拿到的都是拷贝。行情刷新并发抓取，单只失败不影响其他持仓
// ============================================================================

// PortfolioEngine 持仓引擎
type PortfolioEngine struct {
	mu           sync.Mutex
	totalCapital float64
	positions    []Position
	nextID       int

	fetchQuote QuoteFetcher
	backend    AnalysisBackend
	refreshing atomic.Bool
}

// NewPortfolioEngine 创建持仓引擎
func NewPortfolioEngine(fetcher QuoteFetcher, backend AnalysisBackend) *PortfolioEngine {
	return &PortfolioEngine{
		fetchQuote: fetcher,
		backend:    backend,
		nextID:     1,
	}
}

// ============================================================================
// 持仓增删改
// ============================================================================

// validateDraft 校验持仓草稿
func validateDraft(draft Position) error {
	if _, _, ok := splitTsCode(draft.TsCode); !ok {
		return &ValidationError{Field: "ts_code", Reason: fmt.Sprintf("股票代码格式无效: %s", draft.TsCode)}
	}
	if draft.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "持仓数量必须为正"}
	}
	if draft.Quantity%100 != 0 {
		return &ValidationError{Field: "quantity", Reason: "持仓数量必须为 100 的整数倍"}
	}
	if draft.CostPrice <= 0 {
		return &ValidationError{Field: "cost_price", Reason: "成本价必须为正"}
	}
	return nil
}

// snapQuantity 把任意数量贴齐到 100 的整数倍，向下取整，下限 100
func snapQuantity(qty int) int {
	if qty < 100 {
		return 100
	}
	return qty / 100 * 100
}

// AddOrUpdate 新增或编辑持仓
// editIndex 为 -1 表示新增；同一 ts_code 只允许一条持仓
func (e *PortfolioEngine) AddOrUpdate(draft Position, editIndex int) error {
	draft.TsCode = normalizeTsCode(draft.TsCode)

	if err := validateDraft(draft); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, p := range e.positions {
		if p.TsCode == draft.TsCode && i != editIndex {
			return &ValidationError{Field: "ts_code", Reason: fmt.Sprintf("持仓已存在: %s", draft.TsCode)}
		}
	}

	if editIndex >= 0 && editIndex < len(e.positions) {
		old := e.positions[editIndex]
		draft.ID = old.ID
		if draft.Name == "" {
			draft.Name = old.Name
		}
		if draft.CurrentPrice == 0 {
			draft.CurrentPrice = old.CurrentPrice
		}
		e.positions[editIndex] = draft
		logger.Infof("编辑持仓: code=%s qty=%d cost=%.2f", draft.TsCode, draft.Quantity, draft.CostPrice)
	} else {
		draft.ID = e.nextID
		e.nextID++
		e.positions = append(e.positions, draft)
		logger.Infof("新增持仓: code=%s qty=%d cost=%.2f", draft.TsCode, draft.Quantity, draft.CostPrice)
	}

	e.recomputeLocked()
	return nil
}

// Remove 删除持仓，优先按 ID 匹配，其次按 ts_code
func (e *PortfolioEngine) Remove(id int, tsCode string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, p := range e.positions {
		if p.ID == id || (tsCode != "" && p.TsCode == normalizeTsCode(tsCode)) {
			e.positions = append(e.positions[:i], e.positions[i+1:]...)
			e.recomputeLocked()
			logger.Infof("删除持仓: code=%s", p.TsCode)
			return true
		}
	}
	return false
}

// SetTotalCapital 设置总资金并重算权重
func (e *PortfolioEngine) SetTotalCapital(capital float64) error {
	if capital < 0 {
		return &ValidationError{Field: "total_capital", Reason: "总资金不能为负"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalCapital = capital
	e.recomputeLocked()
	return nil
}

// TotalCapital 当前总资金
func (e *PortfolioEngine) TotalCapital() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalCapital
}

// Positions 持仓列表的拷贝
func (e *PortfolioEngine) Positions() []Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Position(nil), e.positions...)
}

// Snapshot 当前台账快照（用于持久化和诊断）
func (e *PortfolioEngine) Snapshot() PortfolioSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PortfolioSnapshot{
		TotalCapital: e.totalCapital,
		Positions:    append([]Position(nil), e.positions...),
	}
}

// Restore 从持久化快照恢复台账
func (e *PortfolioEngine) Restore(snapshot PortfolioSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.totalCapital = snapshot.TotalCapital
	e.positions = append([]Position(nil), snapshot.Positions...)
	for i := range e.positions {
		if e.positions[i].ID >= e.nextID {
			e.nextID = e.positions[i].ID + 1
		}
		if e.positions[i].ID == 0 {
			e.positions[i].ID = e.nextID
			e.nextID++
		}
	}
	e.recomputeLocked()
}

// ============================================================================
// 行情刷新
// ============================================================================

// RefreshResult 一轮刷新的结算
type RefreshResult struct {
	Updated int
	Failed  []string // 失败的 ts_code
	Skipped bool     // 已有刷新在途，本轮跳过
}

// RefreshQuotes 并发刷新全部持仓的行情
// 单只失败只记日志不告警；全部结算后统一重算派生字段
func (e *PortfolioEngine) RefreshQuotes(ctx context.Context) RefreshResult {
	if !e.refreshing.CompareAndSwap(false, true) {
		logger.Debugf("行情刷新在途，跳过本轮")
		return RefreshResult{Skipped: true}
	}
	defer e.refreshing.Store(false)

	e.mu.Lock()
	codes := make([]string, len(e.positions))
	for i, p := range e.positions {
		codes[i] = p.TsCode
	}
	e.mu.Unlock()

	if len(codes) == 0 {
		return RefreshResult{}
	}

	type fetched struct {
		tsCode string
		quote  *Quote
		err    error
	}

	results := make([]fetched, len(codes))
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			if ctx.Err() != nil {
				results[i] = fetched{tsCode: code, err: ctx.Err()}
				return
			}
			quote, err := e.fetchQuote(code)
			results[i] = fetched{tsCode: code, quote: quote, err: err}
		}(i, code)
	}
	wg.Wait()

	var res RefreshResult
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range results {
		if r.err != nil {
			res.Failed = append(res.Failed, r.tsCode)
			logger.Warnf("行情刷新失败: code=%s err=%v", r.tsCode, r.err)
			continue
		}
		for i := range e.positions {
			if e.positions[i].TsCode == r.tsCode {
				e.positions[i].CurrentPrice = r.quote.Price
				if r.quote.Name != "" {
					e.positions[i].Name = r.quote.Name
				}
				res.Updated++
				break
			}
		}
	}

	e.recomputeLocked()
	logger.Infof("行情刷新完成: updated=%d failed=%d", res.Updated, len(res.Failed))
	return res
}

// recomputeLocked 统一重算派生字段，调用方必须已持锁
// 现价缺失时用成本价顶替，避免盈亏出现假亏损
func (e *PortfolioEngine) recomputeLocked() {
	for i := range e.positions {
		p := &e.positions[i]

		eff := p.CurrentPrice
		if eff <= 0 {
			eff = p.CostPrice
		}

		p.Profit = (eff - p.CostPrice) * float64(p.Quantity)
		if p.CostPrice > 0 {
			p.ProfitPct = (eff/p.CostPrice - 1) * 100
		} else {
			p.ProfitPct = 0
		}

		if e.totalCapital > 0 {
			p.Weight = float64(p.Quantity) * p.CostPrice / e.totalCapital * 100
		} else {
			p.Weight = 0
		}
	}
}

// ============================================================================
// 持仓诊断
// ============================================================================

// Diagnose 把当前台账交给后端做 AI 诊断
// 空仓直接拒绝，不发请求
func (e *PortfolioEngine) Diagnose(ctx context.Context) (string, error) {
	snapshot := e.Snapshot()
	if len(snapshot.Positions) == 0 {
		return "", &RemoteError{Op: "diagnose_portfolio", Err: errors.New("当前无持仓，无法诊断")}
	}

	text, err := e.backend.DiagnosePortfolio(ctx, snapshot)
	if err != nil {
		logger.Errorf("持仓诊断失败: %v", err)
		return "", err
	}
	return text, nil
}
