package schedule

import (
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// DefaultMaxConcurrent allows limited double-booking (two staff sharing a
// room). Strict single-occupancy is intentionally not enforced.
const DefaultMaxConcurrent = 2

// CountOverlapping counts non-cancelled appointments whose half-open range
// overlaps the candidate, skipping excludeID (0 = exclude nothing; used by
// reschedule so an appointment never conflicts with itself).
func CountOverlapping(appointments []models.Appointment, r TimeRange, excludeID uint) int {
	n := 0
	for _, ap := range appointments {
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if ap.Status == string(StatusCancelled) {
			continue
		}
		if r.Overlaps(TimeRange{Start: ap.StartTime, End: ap.EndTime}) {
			n++
		}
	}
	return n
}

// OverlapsBlockout reports whether any blockout overlaps the candidate.
func OverlapsBlockout(blockouts []models.StaffBlockout, r TimeRange) bool {
	for _, b := range blockouts {
		if r.Overlaps(TimeRange{Start: b.StartTime, End: b.EndTime}) {
			return true
		}
	}
	return false
}
