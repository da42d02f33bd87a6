package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fulfillcore/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, id string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:      id,
		BrandID: "brand-1",
		Name:    "product " + id,
		Price:   models.MustMoney("10.00"),
		Stock:   stock,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestDecreaseStockIfAvailable(t *testing.T) {
	repo := NewProductRepository(setupRepositoryTestDB(t))
	createTestProduct(t, repo, "p-1", 5)

	ok, err := repo.DecreaseStockIfAvailable("p-1", 3)
	if err != nil || !ok {
		t.Fatalf("first decrease should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecreaseStockIfAvailable("p-1", 3)
	if err != nil {
		t.Fatalf("second decrease returned error: %v", err)
	}
	if ok {
		t.Fatalf("second decrease should fail when stock is 2")
	}
	ok, err = repo.DecreaseStockIfAvailable("p-1", 2)
	if err != nil || !ok {
		t.Fatalf("exact decrease should succeed: ok=%v err=%v", ok, err)
	}

	product, err := repo.GetByID("p-1")
	if err != nil || product == nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("stock want 0 got %d", product.Stock)
	}
}

func TestDecreaseStockRejectsInvalidParams(t *testing.T) {
	repo := NewProductRepository(setupRepositoryTestDB(t))
	if _, err := repo.DecreaseStockIfAvailable("", 1); !errors.Is(err, ErrInvalidStockParams) {
		t.Fatalf("expected invalid params for empty product id, got %v", err)
	}
	if _, err := repo.DecreaseStockIfAvailable("p-1", 0); !errors.Is(err, ErrInvalidStockParams) {
		t.Fatalf("expected invalid params for zero quantity, got %v", err)
	}
	if _, err := repo.IncreaseStock("p-1", -1); !errors.Is(err, ErrInvalidStockParams) {
		t.Fatalf("expected invalid params for negative increase, got %v", err)
	}
}

func TestIncreaseStockAndSoftDeleteVisibility(t *testing.T) {
	repo := NewProductRepository(setupRepositoryTestDB(t))
	createTestProduct(t, repo, "p-1", 1)

	ok, err := repo.IncreaseStock("p-1", 4)
	if err != nil || !ok {
		t.Fatalf("increase stock failed: ok=%v err=%v", ok, err)
	}
	product, _ := repo.GetByID("p-1")
	if product.Stock != 5 {
		t.Fatalf("stock want 5 got %d", product.Stock)
	}

	if err := repo.Delete("p-1"); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	product, err = repo.GetByID("p-1")
	if err != nil {
		t.Fatalf("get deleted product returned error: %v", err)
	}
	if product != nil {
		t.Fatalf("soft deleted product should be invisible")
	}
	ok, err = repo.DecreaseStockIfAvailable("p-1", 1)
	if err != nil {
		t.Fatalf("decrease on deleted product returned error: %v", err)
	}
	if ok {
		t.Fatalf("soft deleted product stock must not be decreased")
	}
	ok, _ = repo.IncreaseStock("p-1", 1)
	if ok {
		t.Fatalf("soft deleted product stock must not be increased")
	}
}

func TestProductListFilters(t *testing.T) {
	repo := NewProductRepository(setupRepositoryTestDB(t))
	createTestProduct(t, repo, "alpha", 2)
	createTestProduct(t, repo, "beta", 0)
	other := &models.Product{ID: "gamma", BrandID: "brand-2", Name: "Gamma Lamp", Price: models.MustMoney("1"), Stock: 1}
	if err := repo.Create(other); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	list, total, err := repo.List(ProductListFilter{BrandID: "brand-1"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("brand filter want 2 got total=%d len=%d", total, len(list))
	}

	_, total, err = repo.List(ProductListFilter{InStock: true})
	if err != nil {
		t.Fatalf("list in stock failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("in stock filter want 2 got %d", total)
	}

	list, total, err = repo.List(ProductListFilter{Search: "lamp"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || list[0].ID != "gamma" {
		t.Fatalf("search want gamma got total=%d list=%+v", total, list)
	}

	list, total, err = repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 3 || len(list) != 1 {
		t.Fatalf("page 2 want 1 row of 3 got total=%d len=%d", total, len(list))
	}

	byIDs, err := repo.ListByIDs([]string{"gamma", "alpha", "missing"})
	if err != nil {
		t.Fatalf("list by ids failed: %v", err)
	}
	if len(byIDs) != 2 || byIDs[0].ID != "alpha" {
		t.Fatalf("unexpected list by ids result: %+v", byIDs)
	}
}

func TestProductCreateGeneratesID(t *testing.T) {
	repo := NewProductRepository(setupRepositoryTestDB(t))
	product := &models.Product{Name: "no id", Price: models.MustMoney("1"), Stock: 1}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.ID == "" {
		t.Fatalf("expected generated product id")
	}
}
