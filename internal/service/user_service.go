package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

// UserPatch carries a partial user update. A nil field is absent; every
// present field is applied unconditionally, zero values included.
type UserPatch struct {
	Username *string
	Income   *float64
}

// UserWithExpenses bundles a user with its full expense set, which every
// read needs for net-worth shaping.
type UserWithExpenses struct {
	User     domain.User
	Expenses []domain.Expense
}

// UserService describes user lifecycle operations.
type UserService interface {
	Create(ctx context.Context, username string, income *float64) (*UserWithExpenses, error)
	Get(ctx context.Context, id int64) (*UserWithExpenses, error)
	List(ctx context.Context, skip, limit int) ([]UserWithExpenses, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*UserWithExpenses, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users    repository.UserRepository
	expenses repository.ExpenseRepository
}

func NewUserService(users repository.UserRepository, expenses repository.ExpenseRepository) UserService {
	return &userService{users: users, expenses: expenses}
}

func (s *userService) Create(ctx context.Context, username string, income *float64) (*UserWithExpenses, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", domain.ErrValidation)
	}

	// Pre-check for a friendly conflict error; the UNIQUE constraint on
	// users.username is the authoritative guard against the lookup/insert race.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username %q: %w", username, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if income == nil {
		zero := 0.0
		income = &zero
	}

	user := &domain.User{Username: username, Income: income}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &UserWithExpenses{User: *user}, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*UserWithExpenses, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withExpenses(ctx, *user)
}

func (s *userService) List(ctx context.Context, skip, limit int) ([]UserWithExpenses, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	result := make([]UserWithExpenses, 0, len(users))
	for _, user := range users {
		entry, err := s.withExpenses(ctx, user)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, nil
}

// Update applies every field present in the patch, including explicit
// zero values. This differs deliberately from expense updates, which
// ignore falsy values.
func (s *userService) Update(ctx context.Context, id int64, patch UserPatch) (*UserWithExpenses, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Income != nil {
		user.Income = patch.Income
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.withExpenses(ctx, *user)
}

// Delete is idempotent: removing an absent user succeeds silently.
// The store cascades the user's expenses.
func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

func (s *userService) withExpenses(ctx context.Context, user domain.User) (*UserWithExpenses, error) {
	expenses, err := s.expenses.AllByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserWithExpenses{User: user, Expenses: expenses}, nil
}

func validatePage(skip, limit int) error {
	if skip < 0 {
		return fmt.Errorf("skip must not be negative: %w", domain.ErrValidation)
	}
	if limit <= 0 {
		return fmt.Errorf("limit must be positive: %w", domain.ErrValidation)
	}
	return nil
}
