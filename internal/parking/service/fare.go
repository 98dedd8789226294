package service

import "time"

// minutesBetween returns the whole minutes elapsed from entry to exit,
// truncated. A negative span (clock skew) counts as zero.
func minutesBetween(entry, exit time.Time) int64 {
	m := int64(exit.Sub(entry) / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

// billedHours converts parked minutes to billed hours: any started hour
// bills in full, and every stay bills at least one hour.
func billedHours(minutes int64) int64 {
	h := (minutes + 59) / 60
	if h < 1 {
		return 1
	}
	return h
}
