package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/shopping-list/internal/database"
	"github.com/Lixing-Zhang/shopping-list/internal/models"
	"github.com/lib/pq"
)

// SQLProductRepository implements ProductRepository on the products table
type SQLProductRepository struct {
	db *database.DB
}

func NewSQLProductRepository(db *database.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

const productCols = `id_product, title, price, category`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	if err := scanner.Scan(&p.ID, &p.Title, &p.Price, &p.Category); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productCols+` FROM products ORDER BY id_product ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+productCols+` FROM products WHERE id_product = ?`), id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// createAttempts bounds how often Create recomputes the id after losing a race
const createAttempts = 3

// Create assigns max(id_product)+1 inside the insert, matching how SQLite picks
// rowids, so ids stay consistent after feed rows were stored with explicit ids.
// On Postgres two concurrent creates can compute the same id; the loser gets a
// unique violation and tries again with a fresh max.
func (r *SQLProductRepository) Create(ctx context.Context, p models.Product) (int64, error) {
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		var id int64
		err = r.db.QueryRowContext(ctx, r.db.Rebind(
			`INSERT INTO products (`+productCols+`)
			 VALUES ((SELECT COALESCE(MAX(id_product), 0) + 1 FROM products), ?, ?, ?)
			 RETURNING id_product`),
			p.Title, p.Price, p.Category,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	return 0, fmt.Errorf("insert product: %w", err)
}

func (r *SQLProductRepository) Update(ctx context.Context, p models.Product) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE products SET title = ?, price = ?, category = ? WHERE id_product = ?`),
		p.Title, p.Price, p.Category, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(result, ErrProductNotFound)
}

func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id_product = ?`), id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(result, ErrProductNotFound)
}

func (r *SQLProductRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("delete all products: %w", err)
	}
	return nil
}

func (r *SQLProductRepository) InsertMissing(ctx context.Context, products []models.Product) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.db.Rebind(
		`INSERT INTO products (`+productCols+`) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id_product) DO NOTHING`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range products {
		result, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Price, p.Category)
		if err != nil {
			return 0, fmt.Errorf("insert product %d: %w", p.ID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
