package main

import "time"

// ============================================================================
// 交易时段判断
// A 股交易时间：周一至周五 09:30-11:30、13:00-15:00（北京时间，闭区间）
// ============================================================================

var cstZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// 部分环境缺少时区数据库，退回固定东八区偏移
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}()

// 时段边界，单位：当日分钟数
const (
	morningOpen    = 9*60 + 30
	morningClose   = 11*60 + 30
	afternoonOpen  = 13 * 60
	afternoonClose = 15 * 60
)

// isTradingSession 判断给定时刻是否处于 A 股连续竞价时段
func isTradingSession(now time.Time) bool {
	t := now.In(cstZone)

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	if minutes >= morningOpen && minutes <= morningClose {
		return true
	}
	if minutes >= afternoonOpen && minutes <= afternoonClose {
		return true
	}
	return false
}
