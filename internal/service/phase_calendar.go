package service

import (
	"sort"
	"time"

	"demoday/backend/internal/model"
)

// 阶段日历纯函数：日粒度闭区间 [StartDate, EndDate]，
// 起点归一化为当日 00:00:00，终点归一化为当日 23:59:59.999999999

// startOfDay 日期在指定时区内的当日起点
func startOfDay(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// endOfDay 日期在指定时区内的当日终点
func endOfDay(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// phaseWindowContains now 是否落在阶段的日期窗口内
func phaseWindowContains(p *model.Phase, now time.Time, loc *time.Location) bool {
	start := startOfDay(p.StartDate, loc)
	end := endOfDay(p.EndDate, loc)
	return !now.Before(start) && !now.After(end)
}

// currentPhase 返回窗口包含 now 的阶段
// 阶段窗口重叠属配置错误（创建时已校验拦截）；对历史脏数据按阶段编号升序取首个匹配
func currentPhase(phases []model.Phase, now time.Time, loc *time.Location) *model.Phase {
	sorted := make([]model.Phase, len(phases))
	copy(sorted, phases)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PhaseNumber < sorted[j].PhaseNumber
	})

	for i := range sorted {
		if phaseWindowContains(&sorted[i], now, loc) {
			return &sorted[i]
		}
	}
	return nil
}

// lastPhaseEnd 编号最大阶段的窗口终点；无阶段时第二个返回值为 false
func lastPhaseEnd(phases []model.Phase, loc *time.Location) (time.Time, bool) {
	if len(phases) == 0 {
		return time.Time{}, false
	}

	last := &phases[0]
	for i := range phases {
		if phases[i].PhaseNumber > last.PhaseNumber {
			last = &phases[i]
		}
	}
	return endOfDay(last.EndDate, loc), true
}

// isEventFinished now 是否已越过活动最后一个阶段的终点
func isEventFinished(phases []model.Phase, now time.Time, loc *time.Location) bool {
	end, ok := lastPhaseEnd(phases, loc)
	if !ok {
		return false
	}
	return now.After(end)
}

// phasesOverlap 两个阶段的日期窗口是否重叠（日粒度闭区间）
func phasesOverlap(a, b *model.Phase, loc *time.Location) bool {
	aStart, aEnd := startOfDay(a.StartDate, loc), endOfDay(a.EndDate, loc)
	bStart, bEnd := startOfDay(b.StartDate, loc), endOfDay(b.EndDate, loc)
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
