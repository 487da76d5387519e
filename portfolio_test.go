package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

// stubFetcher 可按代码注入行情或失败的测试行情源
func stubFetcher(quotes map[string]float64, failCodes map[string]bool) QuoteFetcher {
	return func(tsCode string) (*Quote, error) {
		if failCodes[tsCode] {
			return nil, errors.New("行情源不可用")
		}
		price, ok := quotes[tsCode]
		if !ok {
			return nil, fmt.Errorf("未知代码: %s", tsCode)
		}
		return &Quote{TsCode: tsCode, Name: "股票" + tsCode[:6], Price: price}, nil
	}
}

func newTestEngine(fetcher QuoteFetcher) *PortfolioEngine {
	return NewPortfolioEngine(fetcher, &stubBackend{})
}

func TestAddPositionValidation(t *testing.T) {
	tests := []struct {
		draft Position
		field string
		desc  string
	}{
		{Position{TsCode: "abc", Quantity: 100, CostPrice: 10}, "ts_code", "非法代码"},
		{Position{TsCode: "600519", Quantity: 0, CostPrice: 10}, "quantity", "数量为零"},
		{Position{TsCode: "600519", Quantity: -100, CostPrice: 10}, "quantity", "数量为负"},
		{Position{TsCode: "600519", Quantity: 150, CostPrice: 10}, "quantity", "非整手数量"},
		{Position{TsCode: "600519", Quantity: 100, CostPrice: 0}, "cost_price", "成本价为零"},
		{Position{TsCode: "600519", Quantity: 100, CostPrice: -1}, "cost_price", "成本价为负"},
	}

	for _, tt := range tests {
		engine := newTestEngine(stubFetcher(nil, nil))
		err := engine.AddOrUpdate(tt.draft, -1)
		ve, ok := asValidationError(err)
		if !ok {
			t.Errorf("%s: 应返回校验错误, got %v", tt.desc, err)
			continue
		}
		if ve.Field != tt.field {
			t.Errorf("%s: field = %s, expected %s", tt.desc, ve.Field, tt.field)
		}
		if len(engine.Positions()) != 0 {
			t.Errorf("%s: 校验失败不应写入台账", tt.desc)
		}
	}
}

func TestAddPositionDuplicateTsCode(t *testing.T) {
	engine := newTestEngine(stubFetcher(nil, nil))

	if err := engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1680}, -1); err != nil {
		t.Fatalf("首次添加失败: %v", err)
	}

	// 同一代码不同输入格式也应判重
	err := engine.AddOrUpdate(Position{TsCode: "sh600519", Quantity: 200, CostPrice: 1700}, -1)
	if _, ok := asValidationError(err); !ok {
		t.Fatalf("重复代码应返回校验错误, got %v", err)
	}
	if len(engine.Positions()) != 1 {
		t.Errorf("重复添加不应产生第二条持仓")
	}

	// 编辑自身不受判重影响
	if err := engine.AddOrUpdate(Position{TsCode: "600519.SH", Quantity: 200, CostPrice: 1700}, 0); err != nil {
		t.Errorf("编辑自身不应触发判重: %v", err)
	}
}

func TestSnapQuantity(t *testing.T) {
	tests := []struct {
		input    int
		expected int
		desc     string
	}{
		{250, 200, "向下贴齐"},
		{100, 100, "已是整手"},
		{199, 100, "不足两手"},
		{50, 100, "低于下限贴到100"},
		{1, 100, "最小输入"},
		{1000, 1000, "整手大数量"},
	}

	for _, tt := range tests {
		if got := snapQuantity(tt.input); got != tt.expected {
			t.Errorf("%s: snapQuantity(%d) = %d, expected %d", tt.desc, tt.input, got, tt.expected)
		}
	}
}

func TestRecomputeDerivedFields(t *testing.T) {
	engine := newTestEngine(stubFetcher(map[string]float64{"600519.SH": 1700}, nil))
	engine.SetTotalCapital(1000000)
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 200, CostPrice: 1680}, -1)

	engine.RefreshQuotes(context.Background())

	p := engine.Positions()[0]
	if math.Abs(p.Profit-(1700-1680)*200) > 1e-9 {
		t.Errorf("盈亏 = %.2f, expected %.2f", p.Profit, (1700.0-1680.0)*200)
	}
	expectedPct := (1700.0/1680.0 - 1) * 100
	if math.Abs(p.ProfitPct-expectedPct) > 1e-9 {
		t.Errorf("盈亏率 = %f, expected %f", p.ProfitPct, expectedPct)
	}
	expectedWeight := 200 * 1680.0 / 1000000 * 100
	if math.Abs(p.Weight-expectedWeight) > 1e-9 {
		t.Errorf("仓位 = %f, expected %f", p.Weight, expectedWeight)
	}
}

func TestRecomputeWithoutQuote(t *testing.T) {
	// 现价缺失时用成本价顶替，盈亏应为零而不是假亏损
	engine := newTestEngine(stubFetcher(nil, nil))
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1680}, -1)

	p := engine.Positions()[0]
	if p.Profit != 0 || p.ProfitPct != 0 {
		t.Errorf("无行情时盈亏应为零: profit=%.2f pct=%.2f", p.Profit, p.ProfitPct)
	}
}

func TestWeightZeroWithoutCapital(t *testing.T) {
	engine := newTestEngine(stubFetcher(nil, nil))
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1680}, -1)

	if w := engine.Positions()[0].Weight; w != 0 {
		t.Errorf("未设置总资金时仓位应为零: %f", w)
	}
}

func TestWeightSum(t *testing.T) {
	// 各持仓仓位之和应等于持仓成本占总资金的比例
	engine := newTestEngine(stubFetcher(nil, nil))
	engine.SetTotalCapital(500000)
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1000}, -1)
	engine.AddOrUpdate(Position{TsCode: "000858", Quantity: 500, CostPrice: 150}, -1)
	engine.AddOrUpdate(Position{TsCode: "300750", Quantity: 300, CostPrice: 200}, -1)

	var sum, totalCost float64
	for _, p := range engine.Positions() {
		sum += p.Weight
		totalCost += float64(p.Quantity) * p.CostPrice
	}
	expected := totalCost / 500000 * 100
	if math.Abs(sum-expected) > 1e-9 {
		t.Errorf("仓位之和 = %f, expected %f", sum, expected)
	}
}

func TestRefreshFailureIsolation(t *testing.T) {
	// 单只失败不影响其他持仓更新
	engine := newTestEngine(stubFetcher(
		map[string]float64{"600519.SH": 1700, "300750.SZ": 210},
		map[string]bool{"000858.SZ": true},
	))
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1680}, -1)
	engine.AddOrUpdate(Position{TsCode: "000858", Quantity: 200, CostPrice: 150}, -1)
	engine.AddOrUpdate(Position{TsCode: "300750", Quantity: 300, CostPrice: 200}, -1)

	res := engine.RefreshQuotes(context.Background())

	if res.Updated != 2 {
		t.Errorf("updated = %d, expected 2", res.Updated)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "000858.SZ" {
		t.Errorf("failed = %v, expected [000858.SZ]", res.Failed)
	}

	for _, p := range engine.Positions() {
		switch p.TsCode {
		case "600519.SH":
			if p.CurrentPrice != 1700 {
				t.Errorf("600519 现价未更新: %.2f", p.CurrentPrice)
			}
		case "000858.SZ":
			if p.CurrentPrice != 0 {
				t.Errorf("失败持仓现价应保持原值: %.2f", p.CurrentPrice)
			}
		}
	}
}

func TestRefreshSkipWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	engine := newTestEngine(func(tsCode string) (*Quote, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return &Quote{TsCode: tsCode, Price: 10}, nil
	})
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 9}, -1)

	var wg sync.WaitGroup
	wg.Add(1)
	var first RefreshResult
	go func() {
		defer wg.Done()
		first = engine.RefreshQuotes(context.Background())
	}()

	<-started
	second := engine.RefreshQuotes(context.Background())
	if !second.Skipped {
		t.Errorf("在途刷新期间再次触发应跳过")
	}

	close(release)
	wg.Wait()
	if first.Skipped || first.Updated != 1 {
		t.Errorf("第一轮刷新应正常完成: %+v", first)
	}
}

func TestRemovePosition(t *testing.T) {
	engine := newTestEngine(stubFetcher(nil, nil))
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1680}, -1)
	engine.AddOrUpdate(Position{TsCode: "000858", Quantity: 200, CostPrice: 150}, -1)

	target := engine.Positions()[0]
	if !engine.Remove(target.ID, target.TsCode) {
		t.Fatalf("删除已有持仓应返回 true")
	}
	if len(engine.Positions()) != 1 {
		t.Errorf("删除后应剩一条持仓")
	}
	if engine.Remove(9999, "999999.SH") {
		t.Errorf("删除不存在的持仓应返回 false")
	}
}

func TestDiagnoseEmptyPortfolio(t *testing.T) {
	backend := &stubBackend{diagnosis: "持仓健康"}
	engine := NewPortfolioEngine(stubFetcher(nil, nil), backend)

	_, err := engine.Diagnose(context.Background())
	if _, ok := asRemoteError(err); !ok {
		t.Fatalf("空仓诊断应返回远端错误, got %v", err)
	}
	if backend.diagnoseCalled {
		t.Errorf("空仓不应发起后端调用")
	}
}

func TestDiagnoseSendsSnapshot(t *testing.T) {
	backend := &stubBackend{diagnosis: "集中度偏高"}
	engine := NewPortfolioEngine(stubFetcher(nil, nil), backend)
	engine.SetTotalCapital(100000)
	engine.AddOrUpdate(Position{TsCode: "600519", Quantity: 100, CostPrice: 1680}, -1)

	text, err := engine.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("诊断返回错误: %v", err)
	}
	if text != "集中度偏高" {
		t.Errorf("诊断文本 = %q", text)
	}
	if backend.lastSnapshot.TotalCapital != 100000 || len(backend.lastSnapshot.Positions) != 1 {
		t.Errorf("快照未完整传给后端: %+v", backend.lastSnapshot)
	}
}

func TestRestoreAssignsIDs(t *testing.T) {
	engine := newTestEngine(stubFetcher(nil, nil))
	engine.Restore(PortfolioSnapshot{
		TotalCapital: 200000,
		Positions: []Position{
			{ID: 3, TsCode: "600519.SH", Quantity: 100, CostPrice: 1680},
			{TsCode: "000858.SZ", Quantity: 200, CostPrice: 150}, // 旧数据无 ID
		},
	})

	positions := engine.Positions()
	if positions[1].ID == 0 {
		t.Errorf("恢复时应为缺失 ID 的持仓补号")
	}

	// 新增持仓的 ID 不得与已有冲突
	engine.AddOrUpdate(Position{TsCode: "300750", Quantity: 100, CostPrice: 200}, -1)
	seen := map[int]bool{}
	for _, p := range engine.Positions() {
		if seen[p.ID] {
			t.Errorf("ID 冲突: %d", p.ID)
		}
		seen[p.ID] = true
	}
}
