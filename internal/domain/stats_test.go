package domain

import (
	"testing"
	"time"

	"gestion-complementarias/backend/internal/model"
)

func reqWith(status Status, submittedDaysAgo, resolvedDaysAfter int, now time.Time) model.TrainingRequest {
	submitted := now.AddDate(0, 0, -submittedDaysAgo)
	req := model.TrainingRequest{
		Status:      string(status),
		SubmittedAt: &submitted,
	}
	req.UpdatedAt = submitted.AddDate(0, 0, resolvedDaysAfter)
	return req
}

func TestAggregate_EmptyCollection(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	s := Aggregate(nil, now, StartOfMonth(now))

	if s.Total != 0 {
		t.Errorf("期望 Total=0，实际 %d", s.Total)
	}
	if s.ApprovalRate != 0 {
		t.Errorf("空集合 ApprovalRate 期望 0，实际 %d", s.ApprovalRate)
	}
	if s.AverageResponseTimeDays != 0 {
		t.Errorf("空集合 AverageResponseTimeDays 期望 0，实际 %d", s.AverageResponseTimeDays)
	}
	if s.TotalApprovedHours != 0 || s.TotalTraineesApproved != 0 {
		t.Error("空集合各项合计应为 0")
	}
}

func TestAggregate_MixedCollection(t *testing.T) {
	// 端到端场景：[PENDING, PENDING, APPROVED, REJECTED]，
	// 两个已决申请分别耗时 2 天与 4 天 → approvalRate=25, avgResponse=3
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	requests := []model.TrainingRequest{
		reqWith(StatusPending, 1, 0, now),
		reqWith(StatusPending, 2, 0, now),
		reqWith(StatusApproved, 10, 2, now),
		reqWith(StatusRejected, 10, 4, now),
	}
	requests[2].ProgramDurationHours = 40
	requests[2].TraineeCount = 25

	s := Aggregate(requests, now, StartOfMonth(now))

	if s.Total != 4 {
		t.Errorf("期望 Total=4，实际 %d", s.Total)
	}
	if s.ApprovalRate != 25 {
		t.Errorf("期望 ApprovalRate=25，实际 %d", s.ApprovalRate)
	}
	if s.AverageResponseTimeDays != 3 {
		t.Errorf("期望 AverageResponseTimeDays=3，实际 %d", s.AverageResponseTimeDays)
	}
	if s.CountByStatus[StatusPending] != 2 {
		t.Errorf("期望 PENDING=2，实际 %d", s.CountByStatus[StatusPending])
	}
	if s.TotalApprovedHours != 40 {
		t.Errorf("期望 TotalApprovedHours=40，实际 %d", s.TotalApprovedHours)
	}
	if s.TotalTraineesApproved != 25 {
		t.Errorf("期望 TotalTraineesApproved=25，实际 %d", s.TotalTraineesApproved)
	}
}

func TestAggregate_UrgentCount(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	requests := []model.TrainingRequest{
		reqWith(StatusPending, 10, 0, now), // HIGH
		reqWith(StatusPending, 8, 0, now),  // HIGH
		reqWith(StatusPending, 5, 0, now),  // MEDIUM
		reqWith(StatusPending, 1, 0, now),  // LOW
		reqWith(StatusApproved, 20, 1, now),
	}

	s := Aggregate(requests, now, StartOfMonth(now))

	if s.UrgentCount != 2 {
		t.Errorf("期望 UrgentCount=2，实际 %d", s.UrgentCount)
	}
}

func TestAggregate_ProcessedThisMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	startOfMonth := StartOfMonth(now)

	inMonth := reqWith(StatusApproved, 10, 8, now)   // updatedAt 3月7日
	lastMonth := reqWith(StatusRejected, 40, 2, now) // updatedAt 2月上旬
	pending := reqWith(StatusPending, 1, 0, now)     // 未决不计入

	s := Aggregate([]model.TrainingRequest{inMonth, lastMonth, pending}, now, startOfMonth)

	if s.ProcessedThisMonth != 1 {
		t.Errorf("期望 ProcessedThisMonth=1，实际 %d", s.ProcessedThisMonth)
	}
}

func TestAggregate_AllApproved(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	requests := []model.TrainingRequest{
		reqWith(StatusApproved, 5, 1, now),
		reqWith(StatusApproved, 5, 3, now),
	}

	s := Aggregate(requests, now, StartOfMonth(now))

	if s.ApprovalRate != 100 {
		t.Errorf("期望 ApprovalRate=100，实际 %d", s.ApprovalRate)
	}
	if s.AverageResponseTimeDays != 2 {
		t.Errorf("期望 AverageResponseTimeDays=2，实际 %d", s.AverageResponseTimeDays)
	}
}

func TestAggregate_AverageResponseRoundsHalfUp(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// 2 天与 3 天 → 均值 2.5，四舍五入为 3
	requests := []model.TrainingRequest{
		reqWith(StatusApproved, 10, 2, now),
		reqWith(StatusRejected, 10, 3, now),
	}

	s := Aggregate(requests, now, StartOfMonth(now))

	if s.AverageResponseTimeDays != 3 {
		t.Errorf("期望 AverageResponseTimeDays=3，实际 %d", s.AverageResponseTimeDays)
	}
}

func TestStartOfMonth(t *testing.T) {
	ts := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	got := StartOfMonth(ts)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}
