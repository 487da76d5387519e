package main

import (
	"testing"
	"time"
)

func TestIsTradingSession(t *testing.T) {
	tests := []struct {
		timeStr  string
		expected bool
		desc     string
	}{
		{"2026-08-24 10:00:00", true, "周一上午盘中"},
		{"2026-08-24 09:30:00", true, "早盘开盘边界（含）"},
		{"2026-08-24 11:30:00", true, "早盘收盘边界（含）"},
		{"2026-08-24 13:00:00", true, "午盘开盘边界（含）"},
		{"2026-08-24 15:00:00", true, "午盘收盘边界（含）"},
		{"2026-08-24 09:29:59", false, "开盘前一秒"},
		{"2026-08-24 11:31:00", false, "午休"},
		{"2026-08-24 12:30:00", false, "午休中段"},
		{"2026-08-24 15:01:00", false, "收盘后"},
		{"2026-08-24 20:00:00", false, "晚间"},
		{"2026-08-29 10:00:00", false, "周六盘中时刻"},
		{"2026-08-30 14:00:00", false, "周日盘中时刻"},
	}

	for _, tt := range tests {
		now, err := time.ParseInLocation("2006-01-02 15:04:05", tt.timeStr, cstZone)
		if err != nil {
			t.Fatalf("%s: 解析时间失败: %v", tt.desc, err)
		}
		if got := isTradingSession(now); got != tt.expected {
			t.Errorf("%s: isTradingSession(%s) = %v, expected %v", tt.desc, tt.timeStr, got, tt.expected)
		}
	}
}

func TestIsTradingSessionTimezoneConversion(t *testing.T) {
	// UTC 02:00 对应北京时间 10:00，应在交易时段内
	utc := time.Date(2026, 8, 24, 2, 0, 0, 0, time.UTC)
	if !isTradingSession(utc) {
		t.Errorf("UTC 时间应先转换到北京时间再判断")
	}
}
