package main

import (
	"context"
	"sync"
)

// ============================================================================
// 分析流程控制器
// 三段式流程：板块扫描 -> 板块勾选 -> 个股推荐
// 状态只进不跳：必须先有扫描结果才能勾选，必须有勾选才能推荐
// ============================================================================

// FlowState 分析流程所处阶段
type FlowState int

const (
	FlowIdle         FlowState = iota // 未开始或已重置
	FlowSelecting                     // 有扫描结果，等待勾选板块
	FlowRecommending                  // 已生成推荐
)

// FlowController 分析流程控制器
type FlowController struct {
	mu    sync.Mutex
	state FlowState
	busy  bool

	analysis        *SectorAnalysis
	selection       map[string]struct{}
	recommendations *RecommendationSet

	backend AnalysisBackend
}

// NewFlowController 创建流程控制器
func NewFlowController(backend AnalysisBackend) *FlowController {
	return &FlowController{
		state:     FlowIdle,
		selection: make(map[string]struct{}),
		backend:   backend,
	}
}

// State 当前阶段
func (f *FlowController) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Busy 是否有请求在途
func (f *FlowController) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// RequestScan 发起板块扫描
// 成功后进入勾选阶段并清空旧勾选；在途请求期间重复调用返回 errRequestInFlight
func (f *FlowController) RequestScan(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return errRequestInFlight
	}
	f.busy = true
	f.mu.Unlock()

	analysis, err := f.backend.ScanSectors(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		logger.Errorf("板块扫描失败: %v", err)
		return err
	}

	f.analysis = analysis
	f.selection = make(map[string]struct{})
	f.recommendations = nil
	f.state = FlowSelecting
	logger.Infof("板块扫描完成: sectors=%d date=%s", len(analysis.Sectors), analysis.TradeDate)
	return nil
}

// ToggleSector 勾选或取消勾选板块
// 仅在勾选阶段有效；未知板块名是无操作
func (f *FlowController) ToggleSector(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != FlowSelecting || f.analysis == nil {
		return
	}
	if !f.analysis.hasSector(name) {
		return
	}

	if _, ok := f.selection[name]; ok {
		delete(f.selection, name)
	} else {
		f.selection[name] = struct{}{}
	}
}

// SelectedSectors 已勾选板块，按扫描结果顺序返回
func (f *FlowController) SelectedSectors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedLocked()
}

func (f *FlowController) selectedLocked() []string {
	if f.analysis == nil {
		return nil
	}
	var names []string
	for _, s := range f.analysis.Sectors {
		if _, ok := f.selection[s.Name]; ok {
			names = append(names, s.Name)
		}
	}
	return names
}

// IsSelected 板块是否已勾选
func (f *FlowController) IsSelected(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.selection[name]
	return ok
}

// RequestRecommendations 基于勾选板块发起个股推荐
// 空勾选直接拒绝，不发请求
func (f *FlowController) RequestRecommendations(ctx context.Context, risk RiskPreference) error {
	f.mu.Lock()
	if f.state != FlowSelecting {
		f.mu.Unlock()
		return &ValidationError{Field: "flow", Reason: "请先完成板块扫描"}
	}
	selected := f.selectedLocked()
	if len(selected) == 0 {
		f.mu.Unlock()
		return &ValidationError{Field: "sectors", Reason: "请至少勾选一个板块"}
	}
	if f.busy {
		f.mu.Unlock()
		return errRequestInFlight
	}
	f.busy = true
	f.mu.Unlock()

	recs, err := f.backend.RecommendStocks(ctx, selected, risk)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		logger.Errorf("个股推荐失败: sectors=%v err=%v", selected, err)
		return err
	}

	f.recommendations = recs
	f.state = FlowRecommending
	logger.Infof("个股推荐完成: sectors=%v stocks=%d", selected, len(recs.Recommendations))
	return nil
}

// Analysis 扫描结果的拷贝
func (f *FlowController) Analysis() *SectorAnalysis {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.analysis == nil {
		return nil
	}
	cp := *f.analysis
	cp.Sectors = append([]Sector(nil), f.analysis.Sectors...)
	return &cp
}

// Recommendations 推荐结果的拷贝
func (f *FlowController) Recommendations() *RecommendationSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recommendations == nil {
		return nil
	}
	cp := *f.recommendations
	cp.Recommendations = append([]StockRecommendation(nil), f.recommendations.Recommendations...)
	return &cp
}

// GoBack 回退一个阶段：推荐 -> 勾选（保留勾选），勾选 -> 空闲
func (f *FlowController) GoBack() {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case FlowRecommending:
		f.recommendations = nil
		f.state = FlowSelecting
	case FlowSelecting:
		f.analysis = nil
		f.selection = make(map[string]struct{})
		f.state = FlowIdle
	}
}

// Reset 回到初始状态，丢弃所有中间结果
func (f *FlowController) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.analysis = nil
	f.selection = make(map[string]struct{})
	f.recommendations = nil
	f.state = FlowIdle
}
