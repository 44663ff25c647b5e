package domain

import (
	"errors"
	"testing"
)

var allStatuses = []Status{StatusDraft, StatusPending, StatusInReview, StatusApproved, StatusRejected}

func TestTransition_LegalPairs(t *testing.T) {
	legal := [][2]Status{
		{StatusDraft, StatusPending},
		{StatusPending, StatusInReview},
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusInReview, StatusApproved},
		{StatusInReview, StatusRejected},
	}

	for _, pair := range legal {
		if err := Transition(pair[0], pair[1]); err != nil {
			t.Errorf("%s → %s 应合法，实际: %v", pair[0], pair[1], err)
		}
	}
}

func TestTransition_RejectsEveryIllegalPair(t *testing.T) {
	legal := map[[2]Status]bool{
		{StatusDraft, StatusPending}:     true,
		{StatusPending, StatusInReview}:  true,
		{StatusPending, StatusApproved}:  true,
		{StatusPending, StatusRejected}:  true,
		{StatusInReview, StatusApproved}: true,
		{StatusInReview, StatusRejected}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if legal[[2]Status{from, to}] {
				continue
			}
			err := Transition(from, to)
			if err == nil {
				t.Errorf("%s → %s 应被拒绝", from, to)
				continue
			}
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Errorf("%s → %s 期望 InvalidTransitionError，实际: %v", from, to, err)
				continue
			}
			if invalid.From != from || invalid.To != to {
				t.Errorf("错误应携带 from=%s to=%s，实际 from=%s to=%s", from, to, invalid.From, invalid.To)
			}
		}
	}
}

func TestTransition_TerminalStatesHaveNoExit(t *testing.T) {
	for _, from := range []Status{StatusApproved, StatusRejected} {
		for _, to := range allStatuses {
			if CanTransition(from, to) {
				t.Errorf("终态 %s 不应有出边，但 %s → %s 被允许", from, from, to)
			}
		}
	}
}

func TestEditableByOwner(t *testing.T) {
	cases := map[Status]bool{
		StatusDraft:    true,
		StatusPending:  true,
		StatusInReview: false,
		StatusApproved: false,
		StatusRejected: false,
	}
	for status, want := range cases {
		if got := EditableByOwner(status); got != want {
			t.Errorf("EditableByOwner(%s) 期望 %v，实际 %v", status, want, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%s) 不应失败: %v", s, err)
		}
		if parsed != s {
			t.Errorf("ParseStatus(%s) 期望 %s，实际 %s", s, s, parsed)
		}
	}

	if _, err := ParseStatus("CANCELLED"); err == nil {
		t.Error("未知状态应返回错误")
	}
}
