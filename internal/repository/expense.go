package repository

import (
	"context"

	"finance-tracker/internal/domain"
)

// ExpenseRepository defines persistence operations for Expense entities.
// List results come back in store-native order; callers must not rely on
// any particular ordering.
type ExpenseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, expense *domain.Expense) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Expense, error)
	ListByTitle(ctx context.Context, title string, skip, limit int) ([]domain.Expense, error)
	AllByOwner(ctx context.Context, ownerID int64) ([]domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, id int64) error
}
