package spacedrep

import (
	"testing"
	"time"
)

func TestIsDue_BeforeDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: now.Add(24 * time.Hour)}
	if rs.IsDue(now) {
		t.Error("expected not due before review date")
	}
}

func TestIsDue_OnDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: now}
	if !rs.IsDue(now) {
		t.Error("expected due on review date")
	}
}

func TestOverdueDays_NotDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rs := &ReviewState{NextReviewDate: now.Add(48 * time.Hour)}
	if got := rs.OverdueDays(now); got != 0 {
		t.Errorf("OverdueDays() = %f, want 0", got)
	}
}

func TestOverdueDays_ThreeDaysOverdue(t *testing.T) {
	reviewDate := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := reviewDate.Add(3 * 24 * time.Hour)
	rs := &ReviewState{NextReviewDate: reviewDate}
	got := rs.OverdueDays(now)
	if got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays() = %f, want ~3.0", got)
	}
}

func TestCurrentIntervalDays_EachStage(t *testing.T) {
	tests := []struct {
		stage    int
		expected int
	}{
		{0, 1},
		{1, 3},
		{2, 7},
		{3, 14},
		{4, 30},
		{5, 60},
		{10, 60},
	}
	for _, tt := range tests {
		rs := &ReviewState{Stage: tt.stage}
		if got := rs.CurrentIntervalDays(); got != tt.expected {
			t.Errorf("Stage %d: CurrentIntervalDays() = %d, want %d", tt.stage, got, tt.expected)
		}
	}
}

func TestCurrentIntervalDays_Graduated(t *testing.T) {
	rs := &ReviewState{Stage: 6, Graduated: true}
	if got := rs.CurrentIntervalDays(); got != GraduatedIntervalDays {
		t.Errorf("Graduated: CurrentIntervalDays() = %d, want %d", got, GraduatedIntervalDays)
	}
}
