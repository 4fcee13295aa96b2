package services

import (
	"os"
	"strconv"

	"podocare-backend/utils"
)

// SlotInterval is a half-open [Start, End) interval in minutes since
// midnight.
type SlotInterval struct {
	Start int
	End   int
}

// AvailableSlots returns the HH:MM start times between open and close where
// an appointment of length duration would not overlap any busy interval.
// Candidates advance by step minutes and must end by closing time.
func AvailableSlots(open, close, step, duration int, busy []SlotInterval) []string {
	if duration <= 0 || step <= 0 {
		return nil
	}

	var slots []string
	for t := open; t+duration <= close; t += step {
		if !overlapsAny(t, t+duration, busy) {
			slots = append(slots, utils.FormatClock(t))
		}
	}
	return slots
}

func overlapsAny(start, end int, busy []SlotInterval) bool {
	for _, b := range busy {
		// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start < b.End && b.Start < end {
			return true
		}
	}
	return false
}

// ClinicHours reads the operating window and slot step from the
// environment, falling back to 09:00-19:00 in 30-minute steps.
func ClinicHours() (open, close, step int) {
	open, close, step = 9*60, 19*60, 30
	if v := os.Getenv("CLINIC_OPEN"); v != "" {
		if m, err := utils.ParseClock(v); err == nil {
			open = m
		}
	}
	if v := os.Getenv("CLINIC_CLOSE"); v != "" {
		if m, err := utils.ParseClock(v); err == nil {
			close = m
		}
	}
	if v := os.Getenv("SLOT_STEP_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			step = m
		}
	}
	return
}
