package main

// ============================================================================
// 持仓列表滚动控制
// ============================================================================

// scrollPortfolioUp 向上滚动持仓列表
func (m *Model) scrollPortfolioUp() {
	if m.portfolioCursor > 0 {
		m.portfolioCursor--
	}
	// 确保光标在可见范围内，如果需要则调整滚动位置
	count := len(m.engine.Positions())
	maxLines := m.config.Display.MaxLines
	endIndex := count - m.portfolioScrollPos
	startIndex := endIndex - maxLines
	if startIndex < 0 {
		startIndex = 0
	}

	// 光标超出可见范围的上边界时调整滚动位置
	if m.portfolioCursor < startIndex {
		m.portfolioScrollPos = count - m.portfolioCursor - maxLines
		if m.portfolioScrollPos < 0 {
			m.portfolioScrollPos = 0
		}
	}
}

// scrollPortfolioDown 向下滚动持仓列表
func (m *Model) scrollPortfolioDown() {
	count := len(m.engine.Positions())
	if m.portfolioCursor < count-1 {
		m.portfolioCursor++
	}
	maxLines := m.config.Display.MaxLines
	endIndex := count - m.portfolioScrollPos
	startIndex := endIndex - maxLines
	if startIndex < 0 {
		startIndex = 0
	}

	// 光标超出可见范围的下边界时调整滚动位置
	if m.portfolioCursor >= endIndex {
		m.portfolioScrollPos = count - m.portfolioCursor - 1
		if m.portfolioScrollPos < 0 {
			m.portfolioScrollPos = 0
		}
	}
}

// visiblePositionRange 当前可见持仓的下标区间 [start, end)
func (m *Model) visiblePositionRange(count int) (int, int) {
	maxLines := m.config.Display.MaxLines
	endIndex := count - m.portfolioScrollPos
	if endIndex > count {
		endIndex = count
	}
	startIndex := endIndex - maxLines
	if startIndex < 0 {
		startIndex = 0
	}
	return startIndex, endIndex
}

// ============================================================================
// 推荐列表滚动控制
// ============================================================================

// scrollRecommendUp 向上移动推荐列表光标
func (m *Model) scrollRecommendUp() {
	if m.recommendCursor > 0 {
		m.recommendCursor--
	}
}

// scrollRecommendDown 向下移动推荐列表光标
func (m *Model) scrollRecommendDown(count int) {
	if m.recommendCursor < count-1 {
		m.recommendCursor++
	}
}
