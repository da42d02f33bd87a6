package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgresMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open gorm with sqlmock failed: %v", err)
	}
	return db, mock
}

func TestDecreaseStockIssuesSingleConditionalUpdate(t *testing.T) {
	db, mock := setupPostgresMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1,"updated_at"=\$2 WHERE \(id = \$3 AND stock >= \$4\) AND "products"\."deleted_at" IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.DecreaseStockIfAvailable("p-1", 2)
	if err != nil || !ok {
		t.Fatalf("decrease should succeed: ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.DecreaseStockIfAvailable("p-1", 2)
	if err != nil {
		t.Fatalf("decrease returned error: %v", err)
	}
	if ok {
		t.Fatalf("zero affected rows must report insufficient stock")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations not met: %v", err)
	}
}

func TestIncrementIssuedQuantityGuardsTotal(t *testing.T) {
	db, mock := setupPostgresMockDB(t)
	repo := NewCouponTemplateRepository(db)

	mock.ExpectExec(`UPDATE "coupon_templates" SET "issued_quantity"=issued_quantity \+ \$1,"updated_at"=\$2 WHERE \(id = \$3 AND issued_quantity < total_quantity\) AND "coupon_templates"\."deleted_at" IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err := repo.IncrementIssuedQuantity("tpl-1")
	if err != nil {
		t.Fatalf("increment returned error: %v", err)
	}
	if ok {
		t.Fatalf("zero affected rows must report exhausted quota")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations not met: %v", err)
	}
}

func TestGetTemplateForUpdateUsesRowLock(t *testing.T) {
	db, mock := setupPostgresMockDB(t)
	repo := NewCouponTemplateRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "discount_type", "discount_value", "total_quantity", "issued_quantity"}).
		AddRow("tpl-1", "t", "fixed", "5.00", 3, 1)
	mock.ExpectQuery(`SELECT \* FROM "coupon_templates" WHERE id = \$1 AND "coupon_templates"\."deleted_at" IS NULL ORDER BY "coupon_templates"\."id" LIMIT .+ FOR UPDATE`).
		WillReturnRows(rows)

	template, err := repo.GetByIDForUpdate("tpl-1")
	if err != nil {
		t.Fatalf("get for update failed: %v", err)
	}
	if template == nil || template.IssuedQuantity != 1 || template.TotalQuantity != 3 {
		t.Fatalf("unexpected template: %+v", template)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations not met: %v", err)
	}
}
