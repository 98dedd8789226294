package service

import (
	"testing"
	"time"
)

func TestBilledHours(t *testing.T) {
	cases := []struct {
		minutes int64
		want    int64
	}{
		{0, 1},
		{5, 1},
		{59, 1},
		{60, 1},
		{61, 2},
		{119, 2},
		{120, 2},
		{125, 3},
		{1441, 25},
	}
	for _, tc := range cases {
		if got := billedHours(tc.minutes); got != tc.want {
			t.Errorf("billedHours(%d) = %d, want %d", tc.minutes, got, tc.want)
		}
	}
}

func TestMinutesBetween(t *testing.T) {
	entry := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	if got := minutesBetween(entry, entry.Add(61*time.Minute)); got != 61 {
		t.Errorf("61m span = %d minutes", got)
	}
	if got := minutesBetween(entry, entry.Add(30*time.Second)); got != 0 {
		t.Errorf("sub-minute span = %d minutes", got)
	}
	// Clock skew must not produce a negative stay.
	if got := minutesBetween(entry, entry.Add(-5*time.Minute)); got != 0 {
		t.Errorf("negative span = %d minutes", got)
	}
}
