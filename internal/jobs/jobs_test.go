package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"gestion-complementarias/backend/config"
	"gestion-complementarias/backend/internal/domain"
	"gestion-complementarias/backend/internal/model"
	"gestion-complementarias/backend/internal/repository"
)

// ── 测试桩 ──

type stubRequestRepo struct {
	repository.RequestRepository

	requests []model.TrainingRequest
	err      error
}

func (s *stubRequestRepo) ListByStatus(_ context.Context, _ string) ([]model.TrainingRequest, error) {
	return s.requests, s.err
}

type stubStatsService struct {
	calls int
	err   error
}

func (s *stubStatsService) Overview(_ context.Context) (*domain.Summary, error) {
	s.calls++
	return &domain.Summary{}, s.err
}

func newTestRunner(requests []model.TrainingRequest, listErr error) (*Runner, *stubStatsService, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	stats := &stubStatsService{}
	r := NewRunner(
		&config.Config{},
		&repository.Repository{Request: &stubRequestRepo{requests: requests, err: listErr}},
		stats,
		zap.New(core),
	)
	r.now = func() time.Time {
		return time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	}
	return r, stats, logs
}

func pendingRequest(id string, daysAgo int) model.TrainingRequest {
	submittedAt := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	return model.TrainingRequest{
		RequestID:    id,
		Code:         "SC-2026-9" + id,
		Status:       string(domain.StatusPending),
		InstructorID: "inst-001",
		SubmittedAt:  &submittedAt,
	}
}

// ── urgencySweep 测试 ──

func TestRunner_UrgencySweep_EscalatesHighOnly(t *testing.T) {
	r, stats, logs := newTestRunner([]model.TrainingRequest{
		pendingRequest("req-1", 1),  // LOW
		pendingRequest("req-2", 5),  // MEDIUM
		pendingRequest("req-3", 8),  // HIGH
		pendingRequest("req-4", 30), // HIGH
	}, nil)

	r.urgencySweep()

	warns := logs.FilterLevelExact(zap.WarnLevel).All()
	if len(warns) != 2 {
		t.Fatalf("高紧急度申请应逐条告警，期望 2 条，实际 %d 条", len(warns))
	}
	for _, entry := range warns {
		fields := entry.ContextMap()
		if fields["request_id"] != "req-3" && fields["request_id"] != "req-4" {
			t.Errorf("告警对象错误: %v", fields["request_id"])
		}
	}

	summaries := logs.FilterMessage("紧急度巡检完成").All()
	if len(summaries) != 1 {
		t.Fatalf("应输出一条巡检汇总，实际 %d 条", len(summaries))
	}
	fields := summaries[0].ContextMap()
	if fields["pending_total"] != int64(4) || fields["high"] != int64(2) {
		t.Errorf("汇总计数错误: %v", fields)
	}

	if stats.calls != 1 {
		t.Errorf("巡检后应预热统计缓存一次，实际 %d 次", stats.calls)
	}
}

func TestRunner_UrgencySweep_ListFailureAborts(t *testing.T) {
	r, stats, logs := newTestRunner(nil, errors.New("db down"))

	r.urgencySweep()

	if len(logs.FilterLevelExact(zap.ErrorLevel).All()) != 1 {
		t.Error("列表查询失败应记录错误日志")
	}
	if stats.calls != 0 {
		t.Error("巡检失败时不应预热统计缓存")
	}
}

func TestRunner_StartRejectsBadCron(t *testing.T) {
	r, _, _ := newTestRunner(nil, nil)
	r.cfg.Jobs.UrgencySweepCron = "not a cron spec"

	if err := r.Start(); err == nil {
		t.Error("非法 cron 表达式应返回错误")
	}
}

// [自证通过] internal/jobs/jobs_test.go
