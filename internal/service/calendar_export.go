package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrCalendarNoPhases 活动未配置任何阶段
var ErrCalendarNoPhases = errors.New("该活动暂无阶段可导出")

// ═══════════════════════════════════════════════════════════
// ExportCalendar — 导出活动阶段日历为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 每个阶段一个全天 VEVENT（DTEND 按 iCalendar 约定为终止日次日）
//   - UID 取阶段主键，保证重复导入幂等
//
// 返回值：ics 文本, filename（建议文件名）, error

func (s *exportService) ExportCalendar(ctx context.Context, eventID string) (string, string, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return "", "", err
	}
	if len(event.Phases) == 0 {
		return "", "", ErrCalendarNoPhases
	}

	phases := make([]struct {
		id     string
		number int
		start  time.Time
		end    time.Time
	}, 0, len(event.Phases))
	for i := range event.Phases {
		p := &event.Phases[i]
		phases = append(phases, struct {
			id     string
			number int
			start  time.Time
			end    time.Time
		}{p.PhaseID, p.PhaseNumber, p.StartDate, p.EndDate})
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].number < phases[j].number })

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//demoday//backend//ZH")
	cal.SetName(event.Name)

	for _, p := range phases {
		evt := cal.AddEvent(p.id)
		evt.SetSummary(fmt.Sprintf("%s — %s", event.Name, phaseName(p.number)))
		evt.SetAllDayStartAt(p.start)
		evt.SetAllDayEndAt(p.end.AddDate(0, 0, 1))
		evt.SetDtStampTime(time.Now())
	}

	filename := fmt.Sprintf("日历_%s.ics", event.Name)
	return cal.Serialize(), filename, nil
}
