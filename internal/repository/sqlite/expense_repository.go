package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

const createExpensesTable = `
CREATE TABLE IF NOT EXISTS expenses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE,
	cost REAL,
	due INTEGER,
	paid INTEGER NOT NULL DEFAULT 0,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
`

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createExpensesTable); err != nil {
		return fmt.Errorf("create expenses table: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO expenses (title, cost, due, paid, owner_id)
VALUES (?, ?, ?, ?, ?)`,
		expense.Title,
		nullFloat(expense.Cost),
		nullInt(expense.Due),
		expense.Paid,
		expense.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("title %q: %w", expense.Title, domain.ErrConflict)
		}
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense last insert id: %w", err)
	}
	expense.ID = id
	return id, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, cost, due, paid, owner_id
FROM expenses
WHERE id = ?`,
		id,
	)

	var expense domain.Expense
	var cost sql.NullFloat64
	var due sql.NullInt64
	if err := row.Scan(&expense.ID, &expense.Title, &cost, &due, &expense.Paid, &expense.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	applyNullables(&expense, cost, due)
	return &expense, nil
}

func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Expense, error) {
	return r.queryExpenses(ctx, `
SELECT id, title, cost, due, paid, owner_id
FROM expenses
WHERE owner_id = ?
LIMIT ? OFFSET ?`,
		ownerID, limit, skip,
	)
}

func (r *ExpenseRepository) ListByTitle(ctx context.Context, title string, skip, limit int) ([]domain.Expense, error) {
	return r.queryExpenses(ctx, `
SELECT id, title, cost, due, paid, owner_id
FROM expenses
WHERE title = ?
LIMIT ? OFFSET ?`,
		title, limit, skip,
	)
}

// AllByOwner returns every expense of one owner, used when shaping a user
// response: net worth sums over the full expense set regardless of paging.
func (r *ExpenseRepository) AllByOwner(ctx context.Context, ownerID int64) ([]domain.Expense, error) {
	return r.queryExpenses(ctx, `
SELECT id, title, cost, due, paid, owner_id
FROM expenses
WHERE owner_id = ?`,
		ownerID,
	)
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE expenses
SET title = ?, cost = ?, due = ?, paid = ?
WHERE id = ?`,
		expense.Title,
		nullFloat(expense.Cost),
		nullInt(expense.Due),
		expense.Paid,
		expense.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("title %q: %w", expense.Title, domain.ErrConflict)
		}
		return fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", expense.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		var cost sql.NullFloat64
		var due sql.NullInt64
		if err := rows.Scan(&expense.ID, &expense.Title, &cost, &due, &expense.Paid, &expense.OwnerID); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		applyNullables(&expense, cost, due)
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func applyNullables(expense *domain.Expense, cost sql.NullFloat64, due sql.NullInt64) {
	if cost.Valid {
		expense.Cost = &cost.Float64
	}
	if due.Valid {
		day := int(due.Int64)
		expense.Due = &day
	}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
