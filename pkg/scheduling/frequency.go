// Package scheduling implements recurring maintenance: reusable job
// templates, recurrence schedules bound to them, and the generation
// engine that turns due schedules into tickets exactly once per period.
package scheduling

import "time"

// FrequencyType names how often a schedule recurs.
type FrequencyType string

const (
	FrequencyMonthly      FrequencyType = "monthly"
	FrequencyQuarterly    FrequencyType = "quarterly"
	FrequencySemiAnnually FrequencyType = "semi_annually"
	FrequencyAnnually     FrequencyType = "annually"
	FrequencyCustom       FrequencyType = "custom"
)

// Day counts per frequency. These are fixed day counts, not true
// calendar months: dates drift across month boundaries over many
// cycles. The arithmetic is kept as-is for compatibility with existing
// schedule data; changing it would shift every stored cursor.
const (
	daysMonthly      = 30
	daysQuarterly    = 90
	daysSemiAnnually = 180
	daysAnnually     = 365
)

// NextDueDate computes the due date that follows from. The value
// argument is only meaningful for FrequencyCustom, where it is a count
// of 30-day months and must be at least 1.
//
// An unrecognized frequency type falls back to the monthly rule rather
// than failing, so that a schedule with a bad frequency keeps moving
// forward instead of firing on every pass.
func NextDueDate(from time.Time, freq FrequencyType, value int) (time.Time, error) {
	switch freq {
	case FrequencyMonthly:
		return from.AddDate(0, 0, daysMonthly), nil
	case FrequencyQuarterly:
		return from.AddDate(0, 0, daysQuarterly), nil
	case FrequencySemiAnnually:
		return from.AddDate(0, 0, daysSemiAnnually), nil
	case FrequencyAnnually:
		return from.AddDate(0, 0, daysAnnually), nil
	case FrequencyCustom:
		if value < 1 {
			return time.Time{}, ErrInvalidFrequencyValue
		}
		return from.AddDate(0, 0, value*daysMonthly), nil
	default:
		return from.AddDate(0, 0, daysMonthly), nil
	}
}

// ValidFrequency reports whether freq is one of the known frequency types.
func ValidFrequency(freq FrequencyType) bool {
	switch freq {
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnually, FrequencyAnnually, FrequencyCustom:
		return true
	}
	return false
}
