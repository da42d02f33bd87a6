package repository

import (
	"testing"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/models"
)

func createTestTemplate(t *testing.T, repo *GormCouponTemplateRepository, total int, expiredAt time.Time) *models.CouponTemplate {
	t.Helper()
	template := &models.CouponTemplate{
		Name:          "template",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.MustMoney("5"),
		ExpiredAt:     expiredAt,
		TotalQuantity: total,
	}
	if err := repo.Create(template); err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	return template
}

func TestIncrementIssuedQuantityStopsAtTotal(t *testing.T) {
	repo := NewCouponTemplateRepository(setupRepositoryTestDB(t))
	template := createTestTemplate(t, repo, 2, time.Now().Add(time.Hour))

	for i := 0; i < 2; i++ {
		ok, err := repo.IncrementIssuedQuantity(template.ID)
		if err != nil || !ok {
			t.Fatalf("increment %d should succeed: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := repo.IncrementIssuedQuantity(template.ID)
	if err != nil {
		t.Fatalf("increment beyond total returned error: %v", err)
	}
	if ok {
		t.Fatalf("increment beyond total should fail")
	}

	locked, err := repo.GetByIDForUpdate(template.ID)
	if err != nil || locked == nil {
		t.Fatalf("get for update failed: %v", err)
	}
	if locked.IssuedQuantity != 2 || locked.RemainingQuantity() != 0 {
		t.Fatalf("unexpected issued quantity: %+v", locked)
	}
}

func TestCouponTemplateSoftDeleteAndIssuingFilter(t *testing.T) {
	repo := NewCouponTemplateRepository(setupRepositoryTestDB(t))
	now := time.Now()
	live := createTestTemplate(t, repo, 1, now.Add(time.Hour))
	expired := createTestTemplate(t, repo, 1, now.Add(-time.Hour))
	deleted := createTestTemplate(t, repo, 1, now.Add(time.Hour))
	if err := repo.Delete(deleted.ID); err != nil {
		t.Fatalf("delete template failed: %v", err)
	}

	got, err := repo.GetByIDForUpdate(deleted.ID)
	if err != nil {
		t.Fatalf("get deleted template returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("soft deleted template should be invisible")
	}

	list, total, err := repo.List(CouponTemplateListFilter{OnlyIssuing: true, Now: now})
	if err != nil {
		t.Fatalf("list templates failed: %v", err)
	}
	if total != 1 || list[0].ID != live.ID {
		t.Fatalf("issuing filter want only live template, got total=%d", total)
	}
	_, total, _ = repo.List(CouponTemplateListFilter{})
	if total != 2 {
		t.Fatalf("unfiltered list want 2 (live+expired) got %d, expired=%s", total, expired.ID)
	}
}

func TestUserCouponUseAndRestoreTransitions(t *testing.T) {
	db := setupRepositoryTestDB(t)
	templates := NewCouponTemplateRepository(db)
	repo := NewUserCouponRepository(db)
	template := createTestTemplate(t, templates, 10, time.Now().Add(time.Hour))

	coupon := &models.UserCoupon{MemberID: "m-1", TemplateID: template.ID, Status: constants.UserCouponStatusAvailable}
	if err := repo.Create(coupon); err != nil {
		t.Fatalf("create user coupon failed: %v", err)
	}

	ok, err := repo.UseIfAvailable(coupon.ID, time.Now())
	if err != nil || !ok {
		t.Fatalf("first use should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UseIfAvailable(coupon.ID, time.Now())
	if err != nil || ok {
		t.Fatalf("second use should not change row: ok=%v err=%v", ok, err)
	}

	used, _ := repo.GetByID(coupon.ID)
	if used.Status != constants.UserCouponStatusUsed || used.Version != 1 || used.UsedAt == nil {
		t.Fatalf("unexpected used coupon: %+v", used)
	}

	ok, err = repo.RestoreIfUsed(coupon.ID)
	if err != nil || !ok {
		t.Fatalf("restore should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.RestoreIfUsed(coupon.ID)
	if err != nil || ok {
		t.Fatalf("second restore should not change row: ok=%v err=%v", ok, err)
	}

	restored, _ := repo.GetByID(coupon.ID)
	if restored.Status != constants.UserCouponStatusAvailable || restored.Version != 2 || restored.UsedAt != nil {
		t.Fatalf("unexpected restored coupon: %+v", restored)
	}
}

func TestUserCouponUniquePerMemberAndTemplate(t *testing.T) {
	db := setupRepositoryTestDB(t)
	templates := NewCouponTemplateRepository(db)
	repo := NewUserCouponRepository(db)
	template := createTestTemplate(t, templates, 10, time.Now().Add(time.Hour))

	first := &models.UserCoupon{MemberID: "m-1", TemplateID: template.ID, Status: constants.UserCouponStatusAvailable}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create user coupon failed: %v", err)
	}
	exists, err := repo.ExistsByMemberAndTemplate("m-1", template.ID)
	if err != nil || !exists {
		t.Fatalf("expected existing coupon: exists=%v err=%v", exists, err)
	}

	dup := &models.UserCoupon{MemberID: "m-1", TemplateID: template.ID, Status: constants.UserCouponStatusAvailable}
	err = repo.Create(dup)
	if err == nil {
		t.Fatalf("expected unique violation on duplicate coupon")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	list, total, err := repo.ListByMember(UserCouponListFilter{MemberID: "m-1"})
	if err != nil {
		t.Fatalf("list member coupons failed: %v", err)
	}
	if total != 1 || list[0].Template == nil || list[0].Template.ID != template.ID {
		t.Fatalf("expected one coupon with template preloaded, got total=%d", total)
	}
}
