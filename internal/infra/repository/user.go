package repository

import (
	"context"

	"shareit/internal/domain/user"
	"shareit/internal/infra"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, u.ID(), u.Name(), u.Email().String(), u.CreatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("email already in use", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	const query = `
		UPDATE users SET name = $2, email = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, u.ID(), u.Name(), u.Email().String())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("email already in use", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.UserRM, error) {
	const query = `
		SELECT id, name, email FROM users
		WHERE id = $1`

	var rm readmodel.UserRM
	err := r.db.QueryRow(ctx, query, id).Scan(&rm.ID, &rm.Name, &rm.Email)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &rm, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*readmodel.UserRM, error) {
	const query = `
		SELECT id, name, email FROM users
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}
	defer rows.Close()

	var result []*readmodel.UserRM
	for rows.Next() {
		var rm readmodel.UserRM
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Email); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user row", err)
		}
		result = append(result, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user rows", err)
	}
	return result, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM users WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check email existence", err)
	}
	return exists, nil
}
