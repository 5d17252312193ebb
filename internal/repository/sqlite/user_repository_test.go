package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// UserRepositorySuite runs the user repository against an in-memory database.
type UserRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	users repository.UserRepository
	ctx   context.Context
}

func (s *UserRepositorySuite) SetupTest() {
	db, err := Open(":memory:")
	require.NoError(s.T(), err, "failed to open test database")
	s.db = db
	s.ctx = context.Background()

	s.users = NewUserRepository(db)
	require.NoError(s.T(), s.users.Init(s.ctx))
	// expenses table must exist for the cascade foreign key
	require.NoError(s.T(), NewExpenseRepository(db).Init(s.ctx))
}

func (s *UserRepositorySuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *UserRepositorySuite) TestCreateAndGet() {
	user := &domain.User{Username: "alice", Income: fptr(1000)}
	id, err := s.users.Create(s.ctx, user)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, user.ID)

	got, err := s.users.GetByID(s.ctx, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", got.Username)
	require.NotNil(s.T(), got.Income)
	assert.Equal(s.T(), 1000.0, *got.Income)

	byName, err := s.users.GetByUsername(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, byName.ID)
}

func (s *UserRepositorySuite) TestGetMissing() {
	_, err := s.users.GetByID(s.ctx, 42)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)

	_, err = s.users.GetByUsername(s.ctx, "nobody")
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *UserRepositorySuite) TestDuplicateUsername() {
	_, err := s.users.Create(s.ctx, &domain.User{Username: "alice"})
	require.NoError(s.T(), err)

	_, err = s.users.Create(s.ctx, &domain.User{Username: "alice"})
	assert.ErrorIs(s.T(), err, domain.ErrConflict)
}

func (s *UserRepositorySuite) TestNullableIncome() {
	id, err := s.users.Create(s.ctx, &domain.User{Username: "bob"})
	require.NoError(s.T(), err)

	got, err := s.users.GetByID(s.ctx, id)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.Income)
}

func (s *UserRepositorySuite) TestListPagination() {
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.users.Create(s.ctx, &domain.User{Username: name})
		require.NoError(s.T(), err)
	}

	all, err := s.users.List(s.ctx, 0, 100)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 3)

	page, err := s.users.List(s.ctx, 1, 1)
	require.NoError(s.T(), err)
	assert.Len(s.T(), page, 1)

	past, err := s.users.List(s.ctx, 10, 100)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), past)
}

func (s *UserRepositorySuite) TestUpdate() {
	id, err := s.users.Create(s.ctx, &domain.User{Username: "alice", Income: fptr(1000)})
	require.NoError(s.T(), err)

	err = s.users.Update(s.ctx, &domain.User{ID: id, Username: "alice", Income: fptr(0)})
	require.NoError(s.T(), err)

	got, err := s.users.GetByID(s.ctx, id)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.Income)
	assert.Equal(s.T(), 0.0, *got.Income)
}

func (s *UserRepositorySuite) TestUpdateMissing() {
	err := s.users.Update(s.ctx, &domain.User{ID: 42, Username: "ghost"})
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *UserRepositorySuite) TestDeleteIsIdempotent() {
	id, err := s.users.Create(s.ctx, &domain.User{Username: "alice"})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.users.Delete(s.ctx, id))
	require.NoError(s.T(), s.users.Delete(s.ctx, id))

	_, err = s.users.GetByID(s.ctx, id)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

func TestUsernameFreedAfterDelete(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	users := NewUserRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, NewExpenseRepository(db).Init(ctx))

	id, err := users.Create(ctx, &domain.User{Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, id))

	_, err = users.Create(ctx, &domain.User{Username: "alice"})
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.NoError(t, err)
}
