package model

import "time"

// DateLayout is the layout of calendar dates (always UTC)
const DateLayout = "2006-01-02"

// DateOf returns the UTC calendar date of t
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, time.UTC)
}

// PreviousDate returns the calendar day before date
func PreviousDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(DateLayout), nil
}

// DailyPuzzle is the single puzzle for a calendar date. Immutable once stored.
type DailyPuzzle struct {
	Date string
	Cipher
	Author    string
	CreatedAt time.Time
}

// DailyAttempt records that a player completed the daily puzzle for a date
type DailyAttempt struct {
	Username string
	Date     string
}
