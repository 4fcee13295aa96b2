package services

import (
	"podocare-backend/utils"
	"testing"
)

func TestAvailableSlots_Basic(t *testing.T) {
	open, close := 9*60, 10*60
	busy := []SlotInterval{
		{Start: 9*60 + 15, End: 9*60 + 45},
	}

	slots := AvailableSlots(open, close, 15, 15, busy)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[1] != "09:45" {
		t.Fatalf("expected second slot 09:45, got %s", slots[1])
	}
}

func TestAvailableSlots_OverlapIsNotExactMatch(t *testing.T) {
	// A 60-minute appointment at 09:00 must also block the 09:30
	// candidate, whose start time does not match the appointment's.
	open, close := 9*60, 11*60
	busy := []SlotInterval{
		{Start: 9 * 60, End: 10 * 60},
	}

	slots := AvailableSlots(open, close, 30, 30, busy)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "10:00" || slots[1] != "10:30" {
		t.Fatalf("expected 10:00 and 10:30, got %v", slots)
	}
}

func TestAvailableSlots_NeverOverlapBusy(t *testing.T) {
	open, close := 9*60, 19*60
	busy := []SlotInterval{
		{Start: 9*60 + 30, End: 10*60 + 15},
		{Start: 12 * 60, End: 13 * 60},
		{Start: 18*60 + 45, End: 19 * 60},
	}

	for _, duration := range []int{15, 30, 45, 60} {
		for _, s := range AvailableSlots(open, close, 30, duration, busy) {
			start, err := utils.ParseClock(s)
			if err != nil {
				t.Fatalf("unparseable slot %q: %v", s, err)
			}
			end := start + duration
			for _, b := range busy {
				if start < b.End && b.Start < end {
					t.Fatalf("slot %s (duration %d) overlaps busy [%d,%d)", s, duration, b.Start, b.End)
				}
			}
			if end > close {
				t.Fatalf("slot %s (duration %d) runs past closing time", s, duration)
			}
		}
	}
}

func TestAvailableSlots_DegenerateInputs(t *testing.T) {
	if slots := AvailableSlots(9*60, 10*60, 0, 30, nil); slots != nil {
		t.Fatalf("zero step should yield no slots, got %v", slots)
	}
	if slots := AvailableSlots(9*60, 10*60, 30, 0, nil); slots != nil {
		t.Fatalf("zero duration should yield no slots, got %v", slots)
	}
	if slots := AvailableSlots(10*60, 9*60, 30, 30, nil); slots != nil {
		t.Fatalf("inverted window should yield no slots, got %v", slots)
	}
}

func TestClinicHours_Env(t *testing.T) {
	t.Setenv("CLINIC_OPEN", "08:00")
	t.Setenv("CLINIC_CLOSE", "17:30")
	t.Setenv("SLOT_STEP_MINUTES", "20")

	open, close, step := ClinicHours()
	if open != 8*60 || close != 17*60+30 || step != 20 {
		t.Fatalf("unexpected hours: open=%d close=%d step=%d", open, close, step)
	}
}
