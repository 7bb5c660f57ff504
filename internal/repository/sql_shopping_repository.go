package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/shopping-list/internal/database"
	"github.com/Lixing-Zhang/shopping-list/internal/models"
)

// SQLShoppingItemRepository implements ShoppingItemRepository on the shopping_items table
type SQLShoppingItemRepository struct {
	db *database.DB
}

func NewSQLShoppingItemRepository(db *database.DB) *SQLShoppingItemRepository {
	return &SQLShoppingItemRepository{db: db}
}

const itemCols = `id_product, title, price, category, quantity`

func scanItem(scanner interface{ Scan(...any) error }) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if err := scanner.Scan(&item.ProductID, &item.Title, &item.Price, &item.Category, &item.Quantity); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *SQLShoppingItemRepository) GetAll(ctx context.Context) ([]models.ShoppingItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemCols+` FROM shopping_items ORDER BY id_product ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]models.ShoppingItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *SQLShoppingItemRepository) GetByID(ctx context.Context, productID int64) (*models.ShoppingItem, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+itemCols+` FROM shopping_items WHERE id_product = ?`), productID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// AddQuantity is a single upsert, so concurrent adds of one product never
// produce duplicate rows or lose an increment.
func (r *SQLShoppingItemRepository) AddQuantity(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`INSERT INTO shopping_items (`+itemCols+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id_product) DO UPDATE SET quantity = shopping_items.quantity + excluded.quantity
		 RETURNING `+itemCols),
		item.ProductID, item.Title, item.Price, item.Category, item.Quantity,
	)
	stored, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("upsert item: %w", err)
	}
	return stored, nil
}

func (r *SQLShoppingItemRepository) Delete(ctx context.Context, productID int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM shopping_items WHERE id_product = ?`), productID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireAffected(result, ErrItemNotFound)
}

func (r *SQLShoppingItemRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}
