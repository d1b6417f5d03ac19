package usecase

import (
	"context"
	"errors"

	"shareit/internal/domain/user"
	"shareit/internal/infra"
	"shareit/internal/pkg/clock"
	"shareit/internal/pkg/errs"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrEmailConflict = errors.New("email is already in use")
	ErrInvalidUser   = errors.New("invalid user")
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.UserRM, error)
	FindAll(ctx context.Context) ([]*readmodel.UserRM, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type CreateUserParams struct {
	Name  string
	Email string
}

type UpdateUserParams struct {
	Name  *string
	Email *string
}

type UserUseCase interface {
	Create(ctx context.Context, params CreateUserParams) (*readmodel.UserRM, error)
	Update(ctx context.Context, userID uuid.UUID, params UpdateUserParams) (*readmodel.UserRM, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*readmodel.UserRM, error)
	GetAll(ctx context.Context) ([]*readmodel.UserRM, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userUseCaseImpl struct {
	userRepo UserRepository
	clock    clock.Clock
}

func NewUserUseCase(userRepo UserRepository, clk clock.Clock) UserUseCase {
	return &userUseCaseImpl{userRepo: userRepo, clock: clk}
}

func (u *userUseCaseImpl) Create(ctx context.Context, params CreateUserParams) (*readmodel.UserRM, error) {
	entity, err := user.NewUser(params.Name, params.Email, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUser)
	}

	// The unique index still backs this up; the explicit check gives the
	// caller a conflict message naming the address.
	exists, err := u.userRepo.ExistsByEmail(ctx, entity.Email().String())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	if exists {
		return nil, errs.Mark(errs.Newf("email %s is already in use", entity.Email()), ErrEmailConflict)
	}

	if err := u.userRepo.Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrEmailConflict)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return toUserRM(entity), nil
}

func (u *userUseCaseImpl) Update(ctx context.Context, userID uuid.UUID, params UpdateUserParams) (*readmodel.UserRM, error) {
	rm, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	entity := user.ReconstructUser(rm.ID, rm.Name, user.ReconstructEmail(rm.Email), u.clock.Now())

	if params.Email != nil && *params.Email != rm.Email {
		exists, err := u.userRepo.ExistsByEmail(ctx, *params.Email)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperation)
		}
		if exists {
			return nil, errs.Mark(errs.Newf("email %s is already in use", *params.Email), ErrEmailConflict)
		}
		if err := entity.ChangeEmail(*params.Email); err != nil {
			return nil, errs.Mark(err, ErrInvalidUser)
		}
	}
	if params.Name != nil {
		if err := entity.Rename(*params.Name); err != nil {
			return nil, errs.Mark(err, ErrInvalidUser)
		}
	}

	if err := u.userRepo.Update(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrEmailConflict)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return toUserRM(entity), nil
}

func (u *userUseCaseImpl) GetByID(ctx context.Context, userID uuid.UUID) (*readmodel.UserRM, error) {
	rm, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return rm, nil
}

func (u *userUseCaseImpl) GetAll(ctx context.Context) ([]*readmodel.UserRM, error) {
	result, err := u.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return result, nil
}

func (u *userUseCaseImpl) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := u.userRepo.Delete(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrUserNotFound)
		}
		return errs.Mark(err, ErrDatabaseOperation)
	}
	return nil
}

func toUserRM(entity *user.User) *readmodel.UserRM {
	return &readmodel.UserRM{
		ID:    entity.ID(),
		Name:  entity.Name(),
		Email: entity.Email().String(),
	}
}
