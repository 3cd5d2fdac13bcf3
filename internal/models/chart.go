package models

import (
	"fmt"
	"time"
)

// ChartEntry is one ranked row of a weekly chart snapshot. Peak is the
// best (lowest) position the item has ever held in the category; WeeksOn
// counts chart appearances per the configured policy.
type ChartEntry struct {
	ItemID   string `json:"itemId"`
	Position int    `json:"position"`
	Peak     int    `json:"peak"`
	WeeksOn  int    `json:"weeksOn"`
}

// ChartSnapshot is the ranked list for one category and one ISO week.
// Snapshots for past weeks are immutable; the current week's snapshot is
// recomputed until the week rolls over.
type ChartSnapshot struct {
	Week       string       `json:"week"`
	Category   string       `json:"category"`
	Items      []ChartEntry `json:"items"`
	ComputedAt time.Time    `json:"computed_at"`
}

func (s *ChartSnapshot) Entry(itemID string) (ChartEntry, bool) {
	for _, e := range s.Items {
		if e.ItemID == itemID {
			return e, true
		}
	}
	return ChartEntry{}, false
}

func (s *ChartSnapshot) Clone() *ChartSnapshot {
	cp := *s
	cp.Items = append([]ChartEntry(nil), s.Items...)
	return &cp
}

// WeekKey renders t as a zero-padded ISO-8601 week identifier such as
// "2025-W37". Keys sort lexically in chronological order.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ParseWeekKey validates a week identifier and returns its ISO year and
// week number.
func ParseWeekKey(key string) (year, week int, err error) {
	if _, err = fmt.Sscanf(key, "%d-W%d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("malformed week key %q", key)
	}
	if week < 1 || week > 53 || fmt.Sprintf("%d-W%02d", year, week) != key {
		return 0, 0, fmt.Errorf("malformed week key %q", key)
	}
	return year, week, nil
}

// mondayOfWeek returns the Monday of the given ISO week. January 4th is
// always inside ISO week 1 of its year.
func mondayOfWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// PreviousWeekKey returns the identifier of the ISO week immediately
// before key.
func PreviousWeekKey(key string) (string, error) {
	year, week, err := ParseWeekKey(key)
	if err != nil {
		return "", err
	}
	return WeekKey(mondayOfWeek(year, week).AddDate(0, 0, -7)), nil
}
