package spacedrep

import (
	"testing"
	"time"

	"github.com/trane-project/trane-cli/internal/scheduler"
)

var day0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestRecordReview_FirstPass(t *testing.T) {
	s := NewScheduler()
	s.RecordReview("e1", 5, day0)

	rs := s.GetReviewState("e1")
	if rs == nil {
		t.Fatal("expected review state")
	}
	if rs.Stage != 0 {
		t.Errorf("Stage = %d, want 0", rs.Stage)
	}
	if !rs.NextReviewDate.Equal(day0.AddDate(0, 0, 1)) {
		t.Errorf("NextReviewDate = %v, want %v", rs.NextReviewDate, day0.AddDate(0, 0, 1))
	}
	if rs.LastScore != 5 {
		t.Errorf("LastScore = %d, want 5", rs.LastScore)
	}
}

func TestRecordReview_PassAdvancesStage(t *testing.T) {
	s := NewScheduler()
	now := day0
	for i := 0; i < 3; i++ {
		s.RecordReview("e1", 4, now)
		now = s.GetReviewState("e1").NextReviewDate
	}
	rs := s.GetReviewState("e1")
	if rs.Stage != 2 {
		t.Errorf("Stage = %d, want 2", rs.Stage)
	}
	if rs.ConsecutiveHits != 3 {
		t.Errorf("ConsecutiveHits = %d, want 3", rs.ConsecutiveHits)
	}
	if rs.CurrentIntervalDays() != 7 {
		t.Errorf("CurrentIntervalDays() = %d, want 7", rs.CurrentIntervalDays())
	}
}

func TestRecordReview_FailResets(t *testing.T) {
	s := NewScheduler()
	s.RecordReview("e1", 5, day0)
	s.RecordReview("e1", 5, day0.AddDate(0, 0, 1))
	s.RecordReview("e1", 1, day0.AddDate(0, 0, 4))

	rs := s.GetReviewState("e1")
	if rs.Stage != 0 || rs.ConsecutiveHits != 0 {
		t.Errorf("Stage = %d, ConsecutiveHits = %d, want 0, 0", rs.Stage, rs.ConsecutiveHits)
	}
	if !rs.IsDue(day0.AddDate(0, 0, 4)) {
		t.Error("expected failed exercise to be due immediately")
	}
}

func TestRecordReview_MiddlingHoldsStage(t *testing.T) {
	s := NewScheduler()
	s.RecordReview("e1", 4, day0)
	s.RecordReview("e1", 4, day0.AddDate(0, 0, 1))
	s.RecordReview("e1", 3, day0.AddDate(0, 0, 4))

	rs := s.GetReviewState("e1")
	if rs.Stage != 1 {
		t.Errorf("Stage = %d, want 1", rs.Stage)
	}
	if rs.ConsecutiveHits != 2 {
		t.Errorf("ConsecutiveHits = %d, want 2", rs.ConsecutiveHits)
	}
	if !rs.NextReviewDate.Equal(day0.AddDate(0, 0, 7)) {
		t.Errorf("NextReviewDate = %v, want %v", rs.NextReviewDate, day0.AddDate(0, 0, 7))
	}
}

func TestGraduation_AfterConsecutivePasses(t *testing.T) {
	s := NewScheduler()
	now := day0
	for i := 0; i < GraduationStage; i++ {
		s.RecordReview("e1", 5, now)
		now = s.GetReviewState("e1").NextReviewDate
	}
	rs := s.GetReviewState("e1")
	if !rs.Graduated {
		t.Fatal("expected graduation")
	}
	if rs.CurrentIntervalDays() != GraduatedIntervalDays {
		t.Errorf("CurrentIntervalDays() = %d, want %d", rs.CurrentIntervalDays(), GraduatedIntervalDays)
	}

	s.RecordReview("e1", 2, now)
	if s.GetReviewState("e1").Graduated {
		t.Error("expected graduation to be lost after a failing score")
	}
}

func TestDueExercises_SortedMostOverdueFirst(t *testing.T) {
	s := NewScheduler()
	s.RecordReview("a", 5, day0)                  // due day0+1
	s.RecordReview("b", 1, day0)                  // due day0
	s.RecordReview("c", 5, day0.AddDate(0, 0, 5)) // due day0+6
	s.RecordReview("d", 1, day0)                  // due day0, ties with b

	got := s.DueExercises(day0.AddDate(0, 0, 3))
	want := []string{"b", "d", "a"}
	if len(got) != len(want) {
		t.Fatalf("DueExercises() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DueExercises()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFromHistory_ReplaysOldestFirst(t *testing.T) {
	history := map[string][]scheduler.ScoreRecord{
		"e1": {
			{Score: 1, Timestamp: day0.AddDate(0, 0, 2)},
			{Score: 5, Timestamp: day0},
		},
		"e2": {
			{Score: 5, Timestamp: day0},
			{Score: 5, Timestamp: day0.AddDate(0, 0, 1)},
		},
	}
	s := FromHistory(history)

	if rs := s.GetReviewState("e1"); rs.LastScore != 1 || rs.Stage != 0 {
		t.Errorf("e1: LastScore = %d, Stage = %d, want 1, 0", rs.LastScore, rs.Stage)
	}
	if rs := s.GetReviewState("e2"); rs.Stage != 1 || rs.ConsecutiveHits != 2 {
		t.Errorf("e2: Stage = %d, ConsecutiveHits = %d, want 1, 2", rs.Stage, rs.ConsecutiveHits)
	}
	if len(s.AllReviewStates()) != 2 {
		t.Errorf("AllReviewStates() has %d entries, want 2", len(s.AllReviewStates()))
	}
	if s.GetReviewState("missing") != nil {
		t.Error("expected nil for unscored exercise")
	}
}
