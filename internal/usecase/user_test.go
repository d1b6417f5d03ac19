//go:build unit

package usecase_test

import (
	"context"
	"testing"

	"shareit/internal/pkg/clock"
	"shareit/internal/usecase"
	"shareit/internal/usecase/readmodel"
	usecasemock "shareit/tests/mock/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type UserUseCaseTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	userRepo *usecasemock.MockUserRepository
	uc       usecase.UserUseCase
}

func (s *UserUseCaseTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = usecasemock.NewMockUserRepository(s.ctrl)
	s.uc = usecase.NewUserUseCase(s.userRepo, clock.NewMockClock(testNow))
}

func (s *UserUseCaseTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestUserUseCaseSuite(t *testing.T) {
	suite.Run(t, new(UserUseCaseTestSuite))
}

func (s *UserUseCaseTestSuite) TestCreate() {
	ctx := context.Background()

	s.Run("success: email normalized to lowercase", func() {
		params := usecase.CreateUserParams{Name: "Alice", Email: "Alice@Example.COM"}
		s.userRepo.EXPECT().ExistsByEmail(ctx, "alice@example.com").Return(false, nil)
		s.userRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		rm, err := s.uc.Create(ctx, params)
		s.Require().NoError(err)
		s.Equal("Alice", rm.Name)
		s.Equal("alice@example.com", rm.Email)
		s.NotEqual(uuid.Nil, rm.ID)
	})

	s.Run("error: malformed email", func() {
		_, err := s.uc.Create(ctx, usecase.CreateUserParams{Name: "Alice", Email: "not-an-email"})
		assertErrIs(s.T(), err, usecase.ErrInvalidUser)
	})

	s.Run("error: address already taken", func() {
		s.userRepo.EXPECT().ExistsByEmail(ctx, "alice@example.com").Return(true, nil)

		_, err := s.uc.Create(ctx, usecase.CreateUserParams{Name: "Alice", Email: "alice@example.com"})
		assertErrIs(s.T(), err, usecase.ErrEmailConflict)
	})

	s.Run("error: unique index fires despite the pre-check", func() {
		s.userRepo.EXPECT().ExistsByEmail(ctx, "alice@example.com").Return(false, nil)
		s.userRepo.EXPECT().Create(ctx, gomock.Any()).Return(duplicateKeyErr("email taken"))

		_, err := s.uc.Create(ctx, usecase.CreateUserParams{Name: "Alice", Email: "alice@example.com"})
		assertErrIs(s.T(), err, usecase.ErrEmailConflict)
	})
}

func (s *UserUseCaseTestSuite) TestUpdate() {
	ctx := context.Background()
	userID := uuid.New()
	stored := func() *readmodel.UserRM {
		return &readmodel.UserRM{ID: userID, Name: "Alice", Email: "alice@example.com"}
	}

	s.Run("success: rename only skips the conflict check", func() {
		name := "Alicia"
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(stored(), nil)
		s.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		rm, err := s.uc.Update(ctx, userID, usecase.UpdateUserParams{Name: &name})
		s.Require().NoError(err)
		s.Equal("Alicia", rm.Name)
		s.Equal("alice@example.com", rm.Email)
	})

	s.Run("success: email change re-checks availability", func() {
		email := "alicia@example.com"
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(stored(), nil)
		s.userRepo.EXPECT().ExistsByEmail(ctx, email).Return(false, nil)
		s.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		rm, err := s.uc.Update(ctx, userID, usecase.UpdateUserParams{Email: &email})
		s.Require().NoError(err)
		s.Equal(email, rm.Email)
	})

	s.Run("success: same email does not trigger the conflict check", func() {
		email := "alice@example.com"
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(stored(), nil)
		s.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		rm, err := s.uc.Update(ctx, userID, usecase.UpdateUserParams{Email: &email})
		s.Require().NoError(err)
		s.Equal(email, rm.Email)
	})

	s.Run("error: new email already taken", func() {
		email := "taken@example.com"
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(stored(), nil)
		s.userRepo.EXPECT().ExistsByEmail(ctx, email).Return(true, nil)

		_, err := s.uc.Update(ctx, userID, usecase.UpdateUserParams{Email: &email})
		assertErrIs(s.T(), err, usecase.ErrEmailConflict)
	})

	s.Run("error: unknown user", func() {
		name := "Alicia"
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, notFoundErr("user not found"))

		_, err := s.uc.Update(ctx, userID, usecase.UpdateUserParams{Name: &name})
		assertErrIs(s.T(), err, usecase.ErrUserNotFound)
	})
}

func (s *UserUseCaseTestSuite) TestGetByID() {
	ctx := context.Background()
	userID := uuid.New()

	s.Run("success", func() {
		rm := &readmodel.UserRM{ID: userID, Name: "Alice", Email: "alice@example.com"}
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(rm, nil)

		got, err := s.uc.GetByID(ctx, userID)
		s.Require().NoError(err)
		s.Equal(rm, got)
	})

	s.Run("error: unknown user", func() {
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, notFoundErr("user not found"))

		_, err := s.uc.GetByID(ctx, userID)
		assertErrIs(s.T(), err, usecase.ErrUserNotFound)
	})
}

func (s *UserUseCaseTestSuite) TestDelete() {
	ctx := context.Background()
	userID := uuid.New()

	s.Run("success", func() {
		s.userRepo.EXPECT().Delete(ctx, userID).Return(nil)
		s.NoError(s.uc.Delete(ctx, userID))
	})

	s.Run("error: unknown user", func() {
		s.userRepo.EXPECT().Delete(ctx, userID).Return(notFoundErr("user not found"))
		assertErrIs(s.T(), s.uc.Delete(ctx, userID), usecase.ErrUserNotFound)
	})
}
