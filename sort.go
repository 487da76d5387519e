package main

import "sort"

// ============================================================================
// 持仓排序
// 派生字段由引擎重算后再排序，这里只做纯内存排序
// ============================================================================

// PositionSorter 持仓排序接口
type PositionSorter interface {
	SortPositions(positions []Position, field SortField, direction SortDirection)
}

// DefaultSorter 默认排序实现（使用Go标准库的sort包）
type DefaultSorter struct{}

// NewDefaultSorter 创建默认排序器
func NewDefaultSorter() *DefaultSorter {
	return &DefaultSorter{}
}

// SortPositions 排序持仓列表
func (s *DefaultSorter) SortPositions(positions []Position, field SortField, direction SortDirection) {
	sort.Slice(positions, func(i, j int) bool {
		var result bool

		switch field {
		case SortByTsCode:
			result = positions[i].TsCode < positions[j].TsCode
		case SortByName:
			result = positions[i].Name < positions[j].Name
		case SortByQuantity:
			result = positions[i].Quantity < positions[j].Quantity
		case SortByCostPrice:
			result = positions[i].CostPrice < positions[j].CostPrice
		case SortByProfit:
			result = positions[i].Profit < positions[j].Profit
		case SortByProfitPct:
			result = positions[i].ProfitPct < positions[j].ProfitPct
		case SortByWeight:
			result = positions[i].Weight < positions[j].Weight
		default:
			result = positions[i].TsCode < positions[j].TsCode
		}

		if direction == SortDesc {
			result = !result
		}

		return result
	})
}

// sortedPositions 返回按当前排序设置排好序的持仓拷贝
func (m *Model) sortedPositions() []Position {
	positions := m.engine.Positions()
	if m.isSorted {
		sorter := NewDefaultSorter()
		sorter.SortPositions(positions, m.sortField, m.sortDirection)
	}
	return positions
}

// engineIndexForCursor 把视图光标位置换算成引擎台账下标
// 列表可能处于排序视图，编辑和删除必须落到台账的真实下标上
func (m *Model) engineIndexForCursor() int {
	positions := m.sortedPositions()
	if m.portfolioCursor < 0 || m.portfolioCursor >= len(positions) {
		return -1
	}
	target := positions[m.portfolioCursor].TsCode
	for i, p := range m.engine.Positions() {
		if p.TsCode == target {
			return i
		}
	}
	return -1
}
