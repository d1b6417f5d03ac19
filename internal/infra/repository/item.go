package repository

import (
	"context"

	"shareit/internal/domain/item"
	"shareit/internal/infra"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemRepository struct {
	db DBTX
}

func NewItemRepository(db DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	const query = `
		INSERT INTO items (id, owner_id, name, description, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		it.ID(), it.OwnerID(), it.Name(), it.Description(), it.Available(), it.CreatedAt())
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("item owner does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create item", err)
	}
	return nil
}

func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	const query = `
		UPDATE items SET name = $2, description = $3, available = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, it.ID(), it.Name(), it.Description(), it.Available())
	if err != nil {
		return infra.WrapRepoErr("failed to update item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.ItemRM, error) {
	const query = `
		SELECT id, owner_id, name, description, available FROM items
		WHERE id = $1`

	var rm readmodel.ItemRM
	err := r.db.QueryRow(ctx, query, id).
		Scan(&rm.ID, &rm.OwnerID, &rm.Name, &rm.Description, &rm.Available)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find item by ID", err)
	}
	return &rm, nil
}

func (r *ItemRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*readmodel.ItemRM, error) {
	const query = `
		SELECT id, owner_id, name, description, available FROM items
		WHERE owner_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list items by owner", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Search matches available items whose name or description contains the
// text, case-insensitively. Blank text is handled by the caller.
func (r *ItemRepository) Search(ctx context.Context, text string) ([]*readmodel.ItemRM, error) {
	const query = `
		SELECT id, owner_id, name, description, available FROM items
		WHERE available = TRUE
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, text)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search items", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]*readmodel.ItemRM, error) {
	var result []*readmodel.ItemRM
	for rows.Next() {
		var rm readmodel.ItemRM
		if err := rows.Scan(&rm.ID, &rm.OwnerID, &rm.Name, &rm.Description, &rm.Available); err != nil {
			return nil, infra.WrapRepoErr("failed to scan item row", err)
		}
		result = append(result, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate item rows", err)
	}
	return result, nil
}
