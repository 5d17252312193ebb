package service

import (
	"context"
	"fmt"
	"strings"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

// ExpensePatch carries a partial expense update. A field is applied only
// when present AND non-zero: empty titles, zero costs and zero due days
// in the payload are silently ignored. Callers relying on "set cost to 0"
// must delete and recreate instead; this mirrors the historical contract.
type ExpensePatch struct {
	Title *string
	Cost  *float64
	Due   *int
}

// SearchQuery is a tagged variant resolved once at the HTTP boundary:
// a numeric search term fetches a single expense by id, anything else
// filters by exact title.
type SearchQuery struct {
	id    int64
	title string
	byID  bool
}

func SearchByID(id int64) SearchQuery {
	return SearchQuery{id: id, byID: true}
}

func SearchByTitle(title string) SearchQuery {
	return SearchQuery{title: title}
}

// ExpenseService describes expense lifecycle operations.
type ExpenseService interface {
	Create(ctx context.Context, ownerID int64, title string, cost *float64, due *int) (*domain.Expense, error)
	Get(ctx context.Context, id int64) (*domain.Expense, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Expense, error)
	Search(ctx context.Context, query SearchQuery, skip, limit int) ([]domain.Expense, error)
	Update(ctx context.Context, id int64, patch ExpensePatch) (*domain.Expense, error)
	TogglePaid(ctx context.Context, id int64) (*domain.Expense, error)
	Delete(ctx context.Context, id int64) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
	users    repository.UserRepository
}

func NewExpenseService(expenses repository.ExpenseRepository, users repository.UserRepository) ExpenseService {
	return &expenseService{expenses: expenses, users: users}
}

func (s *expenseService) Create(ctx context.Context, ownerID int64, title string, cost *float64, due *int) (*domain.Expense, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if err := validateDue(due); err != nil {
		return nil, err
	}

	// Every expense needs an owning user at creation time.
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		Title:   title,
		Cost:    cost,
		Due:     due,
		OwnerID: ownerID,
	}
	if _, err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.expenses.GetByID(ctx, id)
}

func (s *expenseService) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Expense, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	return s.expenses.ListByOwner(ctx, ownerID, skip, limit)
}

// Search dispatches on the query variant: by-id fetches a single expense
// (wrapped in a one-element list, not found when absent), by-title returns
// the exact-match filtered list.
func (s *expenseService) Search(ctx context.Context, query SearchQuery, skip, limit int) ([]domain.Expense, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	if query.byID {
		expense, err := s.expenses.GetByID(ctx, query.id)
		if err != nil {
			return nil, err
		}
		return []domain.Expense{*expense}, nil
	}
	return s.expenses.ListByTitle(ctx, query.title, skip, limit)
}

// Update applies only fields that are present and truthy, per ExpensePatch.
func (s *expenseService) Update(ctx context.Context, id int64, patch ExpensePatch) (*domain.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && *patch.Title != "" {
		expense.Title = *patch.Title
	}
	if patch.Cost != nil && *patch.Cost != 0 {
		expense.Cost = patch.Cost
	}
	if patch.Due != nil && *patch.Due != 0 {
		expense.Due = patch.Due
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) TogglePaid(ctx context.Context, id int64) (*domain.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expense.Paid = !expense.Paid
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete is idempotent: removing an absent expense succeeds silently.
func (s *expenseService) Delete(ctx context.Context, id int64) error {
	return s.expenses.Delete(ctx, id)
}

func validateDue(due *int) error {
	if due != nil && (*due < 1 || *due > 31) {
		return fmt.Errorf("day of month must be between 1 and 31: %w", domain.ErrValidation)
	}
	return nil
}
