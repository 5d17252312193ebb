package domain

// User represents an account that owns recurring expenses.
// Income is nullable in the store; absent income is treated as zero
// wherever arithmetic needs it.
type User struct {
	ID       int64
	Username string
	Income   *float64
}
