package repository

import (
	"context"

	"shareit/internal/domain/item"
	"shareit/internal/infra"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *item.Comment) error {
	const query = `
		INSERT INTO comments (id, item_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, c.ID(), c.ItemID(), c.AuthorID(), c.Text(), c.CreatedAt())
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("comment references missing item or user", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create comment", err)
	}
	return nil
}

func (r *CommentRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*readmodel.CommentRM, error) {
	const query = `
		SELECT c.id, c.text, c.author_id, u.name, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list comments", err)
	}
	defer rows.Close()

	var result []*readmodel.CommentRM
	for rows.Next() {
		var rm readmodel.CommentRM
		if err := rows.Scan(&rm.ID, &rm.Text, &rm.AuthorID, &rm.AuthorName, &rm.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan comment row", err)
		}
		result = append(result, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate comment rows", err)
	}
	return result, nil
}
