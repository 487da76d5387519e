package main

import "testing"

func TestSortPositions(t *testing.T) {
	positions := []Position{
		{TsCode: "600519.SH", Name: "贵州茅台", Quantity: 100, Profit: 500},
		{TsCode: "000858.SZ", Name: "五粮液", Quantity: 300, Profit: -200},
		{TsCode: "300750.SZ", Name: "宁德时代", Quantity: 200, Profit: 1000},
	}

	sorter := NewDefaultSorter()

	sorter.SortPositions(positions, SortByProfit, SortAsc)
	if positions[0].Profit != -200 || positions[2].Profit != 1000 {
		t.Errorf("按盈亏升序排序错误: %v", positions)
	}

	sorter.SortPositions(positions, SortByProfit, SortDesc)
	if positions[0].Profit != 1000 {
		t.Errorf("按盈亏降序排序错误: %v", positions)
	}

	sorter.SortPositions(positions, SortByTsCode, SortAsc)
	if positions[0].TsCode != "000858.SZ" {
		t.Errorf("按代码升序排序错误: %v", positions)
	}

	sorter.SortPositions(positions, SortByQuantity, SortDesc)
	if positions[0].Quantity != 300 {
		t.Errorf("按数量降序排序错误: %v", positions)
	}
}
