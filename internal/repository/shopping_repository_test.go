package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/shopping-list/internal/database"
	"github.com/Lixing-Zhang/shopping-list/internal/models"
)

func setupShoppingTestDB(t *testing.T) *SQLShoppingItemRepository {
	t.Helper()
	db, err := database.Open(":memory:", database.SchemaShopping)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLShoppingItemRepository(db)
}

func shoppingRepos(t *testing.T) map[string]ShoppingItemRepository {
	return map[string]ShoppingItemRepository{
		"memory": NewInMemoryShoppingItemRepository(),
		"sqlite": setupShoppingTestDB(t),
	}
}

func TestAddQuantityAccumulates(t *testing.T) {
	for name, repo := range shoppingRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			item, err := repo.AddQuantity(ctx, models.ShoppingItem{ProductID: 1, Title: "A", Price: 10, Category: "c", Quantity: 2})
			if err != nil {
				t.Fatalf("first add: %v", err)
			}
			if item.Quantity != 2 {
				t.Errorf("quantity = %d, want 2", item.Quantity)
			}

			// Second add carries different copies; the stored ones are kept
			item, err = repo.AddQuantity(ctx, models.ShoppingItem{ProductID: 1, Title: "A2", Price: 99, Category: "c2", Quantity: 3})
			if err != nil {
				t.Fatalf("second add: %v", err)
			}
			want := models.ShoppingItem{ProductID: 1, Title: "A", Price: 10, Category: "c", Quantity: 5}
			if *item != want {
				t.Errorf("item = %+v, want %+v", *item, want)
			}

			items, _ := repo.GetAll(ctx)
			if len(items) != 1 {
				t.Errorf("expected 1 row, got %d", len(items))
			}
		})
	}
}

func TestAddQuantityConcurrent(t *testing.T) {
	for name, repo := range shoppingRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := repo.AddQuantity(ctx, models.ShoppingItem{ProductID: 7, Title: "t", Price: 1, Category: "c", Quantity: 1}); err != nil {
						t.Errorf("add: %v", err)
					}
				}()
			}
			wg.Wait()

			item, err := repo.GetByID(ctx, 7)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if item.Quantity != 10 {
				t.Errorf("quantity = %d, want 10", item.Quantity)
			}
		})
	}
}

func TestShoppingItemDelete(t *testing.T) {
	for name, repo := range shoppingRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := repo.Delete(ctx, 99); !errors.Is(err, ErrItemNotFound) {
				t.Errorf("delete missing error = %v, want ErrItemNotFound", err)
			}

			repo.AddQuantity(ctx, models.ShoppingItem{ProductID: 3, Title: "t", Price: 1, Category: "c", Quantity: 1})
			if err := repo.Delete(ctx, 3); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := repo.GetByID(ctx, 3); !errors.Is(err, ErrItemNotFound) {
				t.Errorf("get after delete error = %v, want ErrItemNotFound", err)
			}
		})
	}
}

func TestShoppingItemDeleteAll(t *testing.T) {
	for name, repo := range shoppingRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for id := int64(1); id <= 3; id++ {
				repo.AddQuantity(ctx, models.ShoppingItem{ProductID: id, Title: "t", Price: 1, Category: "c", Quantity: 1})
			}
			if err := repo.DeleteAll(ctx); err != nil {
				t.Fatalf("delete all: %v", err)
			}

			items, err := repo.GetAll(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(items) != 0 {
				t.Errorf("expected empty list, got %d", len(items))
			}
		})
	}
}
