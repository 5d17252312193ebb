package domain

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestNetWorth(t *testing.T) {
	tests := []struct {
		name     string
		income   *float64
		expenses []Expense
		want     float64
	}{
		{
			name:   "no expenses",
			income: fptr(1000),
			want:   1000,
		},
		{
			name:   "income minus costs",
			income: fptr(1000),
			expenses: []Expense{
				{Cost: fptr(500)},
				{Cost: fptr(120.5)},
			},
			want: 379.5,
		},
		{
			name:   "absent income counts as zero",
			income: nil,
			expenses: []Expense{
				{Cost: fptr(50)},
			},
			want: -50,
		},
		{
			name:   "absent cost counts as zero",
			income: fptr(200),
			expenses: []Expense{
				{Cost: nil},
				{Cost: fptr(30)},
			},
			want: 170,
		},
		{
			name: "nothing at all",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetWorth(tt.income, tt.expenses)
			if got != tt.want {
				t.Errorf("NetWorth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	// the 15th of the month
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expense Expense
		want    bool
	}{
		{
			name:    "due day passed and unpaid",
			expense: Expense{Due: iptr(10), Paid: false},
			want:    true,
		},
		{
			name:    "due day passed but paid",
			expense: Expense{Due: iptr(10), Paid: true},
			want:    false,
		},
		{
			name:    "due today is not overdue",
			expense: Expense{Due: iptr(15), Paid: false},
			want:    false,
		},
		{
			name:    "due day ahead",
			expense: Expense{Due: iptr(20), Paid: false},
			want:    false,
		},
		{
			name:    "no due day",
			expense: Expense{Due: nil, Paid: false},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overdue(tt.expense, now)
			if got != tt.want {
				t.Errorf("Overdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The comparison is day-of-month only: an unpaid expense stops reading as
// overdue when the calendar rolls into the next month.
func TestOverdueResetsAcrossMonthBoundary(t *testing.T) {
	expense := Expense{Due: iptr(28), Paid: false}

	endOfMonth := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	if !Overdue(expense, endOfMonth) {
		t.Error("expected overdue at end of month")
	}

	startOfNext := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if Overdue(expense, startOfNext) {
		t.Error("expected not overdue at start of next month")
	}
}
