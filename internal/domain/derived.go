package domain

import "time"

// NetWorth returns income minus the summed cost of the given expenses.
// Absent income and absent costs count as zero. The value is recomputed
// on every read and never persisted.
func NetWorth(income *float64, expenses []Expense) float64 {
	worth := 0.0
	if income != nil {
		worth = *income
	}
	for _, e := range expenses {
		if e.Cost != nil {
			worth -= *e.Cost
		}
	}
	return worth
}

// Overdue reports whether an unpaid expense's due day has passed within
// the month of now. The comparison is day-of-month only, so an expense
// due on the 28th reads as overdue from the 29th through month-end and
// resets at the start of the next month even if still unpaid.
func Overdue(e Expense, now time.Time) bool {
	return e.Due != nil && !e.Paid && now.Day() > *e.Due
}
