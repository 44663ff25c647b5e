package domain

import (
	"testing"
	"time"

	"gestion-complementarias/backend/internal/model"
)

func blocksOf(hours ...[2]int) []model.ScheduleBlock {
	var blocks []model.ScheduleBlock
	for i, h := range hours {
		blocks = append(blocks, model.ScheduleBlock{
			DayOfWeek: i%7 + 1,
			StartHour: h[0],
			EndHour:   h[1],
		})
	}
	return blocks
}

func TestComputeFeasibility_Scenario(t *testing.T) {
	// 端到端场景：weeklyHours=12, durationHours=40
	// → remaining=28, estimatedWeeks=ceil(40/12)=4
	blocks := blocksOf([2]int{6, 10}, [2]int{6, 10}, [2]int{6, 10}) // 3×4h = 12h

	f := ComputeFeasibility(blocks, 40, nil)

	if f.WeeklyHours != 12 {
		t.Errorf("期望 WeeklyHours=12，实际 %d", f.WeeklyHours)
	}
	if f.RemainingHours != 28 {
		t.Errorf("期望 RemainingHours=28，实际 %d", f.RemainingHours)
	}
	if f.EstimatedWeeks != 4 {
		t.Errorf("期望 EstimatedWeeks=4，实际 %d", f.EstimatedWeeks)
	}
	if f.EstimatedEndDate != nil {
		t.Error("无 startDate 时不应推导结课日期")
	}
}

func TestComputeFeasibility_NoBlocks(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	f := ComputeFeasibility(nil, 40, &start)

	if f.WeeklyHours != 0 || f.EstimatedWeeks != 0 {
		t.Errorf("无时间块期望 weekly=0 weeks=0，实际 weekly=%d weeks=%d", f.WeeklyHours, f.EstimatedWeeks)
	}
	if f.RemainingHours != 40 {
		t.Errorf("期望 RemainingHours=40，实际 %d", f.RemainingHours)
	}
	if f.EstimatedEndDate != nil {
		t.Error("weeklyHours=0 时不应推导结课日期")
	}
}

func TestComputeFeasibility_EndDate(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) // 周一
	blocks := blocksOf([2]int{6, 10}, [2]int{6, 10}, [2]int{6, 10})

	f := ComputeFeasibility(blocks, 40, &start)

	want := start.AddDate(0, 0, 4*7)
	if f.EstimatedEndDate == nil || !f.EstimatedEndDate.Equal(want) {
		t.Errorf("期望结课日期 %v，实际 %v", want, f.EstimatedEndDate)
	}
}

func TestComputeFeasibility_CompletionPercentCappedAt100(t *testing.T) {
	blocks := blocksOf([2]int{6, 14}, [2]int{6, 14}, [2]int{6, 14}) // 24h/周

	f := ComputeFeasibility(blocks, 20, nil)

	if f.CompletionPercent != 100 {
		t.Errorf("期望 CompletionPercent=100，实际 %v", f.CompletionPercent)
	}
	if f.RemainingHours != 0 {
		t.Errorf("超配时 RemainingHours 期望 0，实际 %d", f.RemainingHours)
	}
}

func TestComputeFeasibility_CompletionPercentMonotone(t *testing.T) {
	// 逐块追加不重叠时间块，完成度必须单调不减
	var blocks []model.ScheduleBlock
	prev := 0.0
	for day := 1; day <= 7; day++ {
		blocks = append(blocks, model.ScheduleBlock{DayOfWeek: day, StartHour: 6, EndHour: 9})
		f := ComputeFeasibility(blocks, 40, nil)
		if f.CompletionPercent < prev {
			t.Fatalf("完成度回退: %v → %v", prev, f.CompletionPercent)
		}
		if f.CompletionPercent > 100 {
			t.Fatalf("完成度超过 100: %v", f.CompletionPercent)
		}
		prev = f.CompletionPercent
	}
}

func TestComputeFeasibility_ZeroDuration(t *testing.T) {
	f := ComputeFeasibility(blocksOf([2]int{6, 10}), 0, nil)
	if f.CompletionPercent != 0 {
		t.Errorf("duration=0 期望 CompletionPercent=0，实际 %v", f.CompletionPercent)
	}
}

func TestApplyTemplate_Idempotent(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	first, err := ApplyTemplate("manana-semana", start)
	if err != nil {
		t.Fatalf("ApplyTemplate 失败: %v", err)
	}
	second, err := ApplyTemplate("manana-semana", start)
	if err != nil {
		t.Fatalf("ApplyTemplate 失败: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("两次应用块数不一致: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DayOfWeek != second[i].DayOfWeek ||
			first[i].StartHour != second[i].StartHour ||
			first[i].EndHour != second[i].EndHour ||
			!first[i].SpecificDate.Equal(*second[i].SpecificDate) {
			t.Errorf("第 %d 块不一致", i)
		}
	}
}

func TestApplyTemplate_DateDistribution(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	blocks, err := ApplyTemplate("manana-semana", start)
	if err != nil {
		t.Fatalf("ApplyTemplate 失败: %v", err)
	}
	if len(blocks) != 5 {
		t.Fatalf("期望 5 块，实际 %d", len(blocks))
	}

	// 第 i 块的 specific_date = startDate + (i mod 7) 天
	for i, b := range blocks {
		want := start.AddDate(0, 0, i%7)
		if b.SpecificDate == nil || !b.SpecificDate.Equal(want) {
			t.Errorf("第 %d 块日期期望 %v，实际 %v", i, want, b.SpecificDate)
		}
	}
}

func TestApplyTemplate_Unknown(t *testing.T) {
	if _, err := ApplyTemplate("no-existe", time.Now()); err == nil {
		t.Error("未知模板应返回错误")
	}
}

func TestAutoSchedule_SkipsWeekends(t *testing.T) {
	// 2026-02-06 是周五：40h 需要 10 个工作日，应跨过两个周末
	start := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)

	blocks := AutoSchedule(start, 40)

	if len(blocks) != 10 {
		t.Fatalf("40h ÷ 4h/日 期望 10 块，实际 %d", len(blocks))
	}
	total := 0
	for _, b := range blocks {
		if b.DayOfWeek == 6 || b.DayOfWeek == 7 {
			t.Errorf("不应排到周末: day_of_week=%d date=%v", b.DayOfWeek, b.SpecificDate)
		}
		if b.StartHour != 6 {
			t.Errorf("起始时间应固定 06:00，实际 %d", b.StartHour)
		}
		total += b.EndHour - b.StartHour
	}
	if total != 40 {
		t.Errorf("累计小时期望 40，实际 %d", total)
	}
}

func TestAutoSchedule_PartialLastDay(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) // 周一

	blocks := AutoSchedule(start, 10) // 4+4+2

	if len(blocks) != 3 {
		t.Fatalf("期望 3 块，实际 %d", len(blocks))
	}
	last := blocks[len(blocks)-1]
	if last.EndHour-last.StartHour != 2 {
		t.Errorf("末日应分配剩余 2h，实际 %d", last.EndHour-last.StartHour)
	}
}

func TestAutoSchedule_ZeroDuration(t *testing.T) {
	if blocks := AutoSchedule(time.Now(), 0); len(blocks) != 0 {
		t.Errorf("duration=0 不应产生时间块，实际 %d", len(blocks))
	}
}
