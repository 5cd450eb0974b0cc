package donation

import (
	"database/sql"
	"time"
)

// DateLayout is the timestamp format used throughout the donations store.
// Existing databases created by earlier versions of the tool use this exact
// text format, so it is part of the storage contract.
const DateLayout = "2006-01-02 15:04:05"

// Interval enumerates the recognized recurring donation intervals.
type Interval string

const (
	IntervalWeekly    Interval = "Weekly"
	IntervalMonthly   Interval = "Monthly"
	IntervalQuarterly Interval = "Quarterly"
	IntervalYearly    Interval = "Yearly"
)

// KnownIntervals lists the intervals accepted for recurring donations, in
// the order they are offered to the user.
var KnownIntervals = []Interval{IntervalWeekly, IntervalMonthly, IntervalQuarterly, IntervalYearly}

// Valid reports whether i is one of the recognized intervals.
func (i Interval) Valid() bool {
	switch i {
	case IntervalWeekly, IntervalMonthly, IntervalQuarterly, IntervalYearly:
		return true
	}
	return false
}

// Donation represents one donation record.
// Corresponds to the 'donations' table.
type Donation struct {
	ID                int64
	DonorName         string
	Amount            float64
	Category          string
	Date              time.Time
	Notes             sql.NullString
	IsRecurring       bool
	RecurringInterval sql.NullString // One of KnownIntervals when IsRecurring
	NextDonationDate  sql.NullTime   // Present iff IsRecurring
}

// NextDate advances from by exactly one unit of the given interval:
// Weekly adds 7 calendar days; Monthly moves to the same day next month,
// rolling the year at December; Quarterly adds 3 months, rolling the year
// when the source month is past September (month becomes (m+3) mod 12);
// Yearly keeps month and day and increments the year. When the target month
// is shorter than the source day, the day clamps to the last valid day of
// the target month.
func NextDate(from time.Time, interval Interval) time.Time {
	switch interval {
	case IntervalWeekly:
		return from.AddDate(0, 0, 7)
	case IntervalMonthly:
		year, month := from.Year(), int(from.Month())
		if month == 12 {
			year, month = year+1, 1
		} else {
			month++
		}
		return replaceYearMonth(from, year, month)
	case IntervalQuarterly:
		year, month := from.Year(), int(from.Month())
		if month > 9 {
			year, month = year+1, (month+3)%12
		} else {
			month += 3
		}
		return replaceYearMonth(from, year, month)
	case IntervalYearly:
		return replaceYearMonth(from, from.Year()+1, int(from.Month()))
	}
	return from
}

// replaceYearMonth rebuilds from with the given year and month, clamping the
// day so the result never spills into the following month.
func replaceYearMonth(from time.Time, year, month int) time.Time {
	day := from.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC).Day()
}
