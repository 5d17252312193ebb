package domain

// Expense is a recurring bill attached to a single owning user.
// Due is a day of month (1-31) when present; range enforcement happens
// at the HTTP boundary, not here.
type Expense struct {
	ID      int64
	Title   string
	Cost    *float64
	Due     *int
	Paid    bool
	OwnerID int64
}
