package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"restaurant_api/internal/common"
	"restaurant_api/internal/domain/model"
)

type MenuItemRepository interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id int64) (*model.MenuItem, error)
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

type pgMenuItemRepository struct {
	db *sql.DB
}

func NewPgMenuItemRepository(db *sql.DB) MenuItemRepository {
	return &pgMenuItemRepository{db: db}
}

func (r *pgMenuItemRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	query := `SELECT id, name, slug, description, price, category, special_tag, image, created_at, updated_at
	          FROM menu_items ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgMenuItemRepository.List: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Slug, &item.Description, &item.Price,
			&item.Category, &item.SpecialTag, &item.Image, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgMenuItemRepository.List: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMenuItemRepository.List: rows: %w", err)
	}
	return items, nil
}

func (r *pgMenuItemRepository) FindByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	query := `SELECT id, name, slug, description, price, category, special_tag, image, created_at, updated_at
	          FROM menu_items WHERE id = $1`
	item := &model.MenuItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Slug, &item.Description, &item.Price,
		&item.Category, &item.SpecialTag, &item.Image, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMenuItemRepository.FindByID: %w", err)
	}
	return item, nil
}

func (r *pgMenuItemRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `INSERT INTO menu_items (name, slug, description, price, category, special_tag, image)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		item.Name, item.Slug, item.Description, item.Price, item.Category, item.SpecialTag, item.Image,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgMenuItemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMenuItemRepository) Update(ctx context.Context, item *model.MenuItem) error {
	query := `UPDATE menu_items SET
	            name = $1, slug = $2, description = $3, price = $4, category = $5,
	            special_tag = $6, image = $7, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		item.Name, item.Slug, item.Description, item.Price, item.Category,
		item.SpecialTag, item.Image, item.ID)
	if err != nil {
		return fmt.Errorf("pgMenuItemRepository.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgMenuItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgMenuItemRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
