package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fulfillcore/internal/constants"
	"github.com/fulfillcore/internal/models"
	"github.com/fulfillcore/internal/repository"
)

func (f *serviceFixture) createTemplate(t *testing.T, discountType, value string, minAmount string, total int, expiredAt time.Time) *models.CouponTemplate {
	t.Helper()
	template := &models.CouponTemplate{
		Name:          "template " + discountType,
		DiscountType:  discountType,
		DiscountValue: models.MustMoney(value),
		ExpiredAt:     expiredAt,
		TotalQuantity: total,
	}
	if minAmount != "" {
		min := models.MustMoney(minAmount)
		template.MinOrderAmount = &min
	}
	if err := f.templateRepo.Create(template); err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	return template
}

func (f *serviceFixture) loadTemplate(t *testing.T, id string) *models.CouponTemplate {
	t.Helper()
	template, err := f.templateRepo.GetByID(id)
	if err != nil || template == nil {
		t.Fatalf("load template failed: %v", err)
	}
	return template
}

func (f *serviceFixture) loadUserCoupon(t *testing.T, id string) *models.UserCoupon {
	t.Helper()
	coupon, err := f.couponRepo.GetByID(id)
	if err != nil || coupon == nil {
		t.Fatalf("load user coupon failed: %v", err)
	}
	return coupon
}

func TestCouponServiceIssueCoupon(t *testing.T) {
	f := setupServiceTest(t, nil)
	template := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 2, time.Now().Add(time.Hour))

	coupon, err := f.coupons.IssueCoupon(template.ID, "member-1")
	if err != nil {
		t.Fatalf("issue coupon failed: %v", err)
	}
	if coupon.Status != constants.UserCouponStatusAvailable {
		t.Fatalf("expected available coupon, got %s", coupon.Status)
	}
	if coupon.TemplateID != template.ID || coupon.MemberID != "member-1" {
		t.Fatalf("unexpected coupon binding: %+v", coupon)
	}
	if got := f.loadTemplate(t, template.ID).IssuedQuantity; got != 1 {
		t.Fatalf("expected issued 1, got %d", got)
	}

	if _, err := f.coupons.IssueCoupon(template.ID, "member-1"); !errors.Is(err, ErrCouponAlreadyIssued) {
		t.Fatalf("expected duplicate issue rejected, got %v", err)
	}
	if !errors.Is(Category(ErrCouponAlreadyIssued), ErrConflict) {
		t.Fatalf("duplicate issue should be a conflict")
	}
	if got := f.loadTemplate(t, template.ID).IssuedQuantity; got != 1 {
		t.Fatalf("duplicate issue must not consume quota, got %d", got)
	}
}

func TestCouponServiceIssueCouponRejections(t *testing.T) {
	f := setupServiceTest(t, nil)
	expired := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 10, time.Now().Add(-time.Minute))
	empty := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 0, time.Now().Add(time.Hour))

	if _, err := f.coupons.IssueCoupon("missing", "member-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.coupons.IssueCoupon(expired.ID, "member-1"); !errors.Is(err, ErrCouponTemplateExpired) {
		t.Fatalf("expected expired template, got %v", err)
	}
	if _, err := f.coupons.IssueCoupon(empty.ID, "member-1"); !errors.Is(err, ErrCouponQuotaExhausted) {
		t.Fatalf("expected quota exhausted, got %v", err)
	}
	if _, err := f.coupons.IssueCoupon(empty.ID, ""); !errors.Is(err, ErrInvalidMember) {
		t.Fatalf("expected invalid member, got %v", err)
	}
	if _, err := f.coupons.IssueCoupon(expired.ID, strings.Repeat("m", 65)); !errors.Is(err, ErrInvalidMember) {
		t.Fatalf("expected invalid member for oversized id, got %v", err)
	}
}

func TestCouponServiceConcurrentIssueRespectsQuota(t *testing.T) {
	f := setupServiceTest(t, nil)
	template := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 5, time.Now().Add(time.Hour))

	var wg sync.WaitGroup
	var mu sync.Mutex
	issued := 0
	exhausted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(memberID string) {
			defer wg.Done()
			_, err := f.coupons.IssueCoupon(template.ID, memberID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				issued++
			case errors.Is(err, ErrCouponQuotaExhausted):
				exhausted++
			default:
				t.Errorf("unexpected issue error: %v", err)
			}
		}(fmt.Sprintf("member-%d", i))
	}
	wg.Wait()

	if issued != 5 || exhausted != 5 {
		t.Fatalf("expected 5 issued and 5 exhausted, got %d/%d", issued, exhausted)
	}
	if got := f.loadTemplate(t, template.ID).IssuedQuantity; got != 5 {
		t.Fatalf("expected issued quantity 5, got %d", got)
	}
	_, total, err := f.couponRepo.ListByMember(repository.UserCouponListFilter{MemberID: "member-0", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list coupons failed: %v", err)
	}
	if total > 1 {
		t.Fatalf("member should hold at most one coupon, got %d", total)
	}
}

func TestCouponServiceUseAndRestore(t *testing.T) {
	f := setupServiceTest(t, nil)
	template := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 5, time.Now().Add(time.Hour))
	coupon, err := f.coupons.IssueCoupon(template.ID, "member-1")
	if err != nil {
		t.Fatalf("issue coupon failed: %v", err)
	}

	id, err := f.coupons.UseCoupon(coupon.ID)
	if err != nil || id != coupon.ID {
		t.Fatalf("expected use success, id=%s err=%v", id, err)
	}
	used := f.loadUserCoupon(t, coupon.ID)
	if used.Status != constants.UserCouponStatusUsed || used.UsedAt == nil {
		t.Fatalf("expected used coupon with used_at, got %+v", used)
	}
	if used.Version != coupon.Version+1 {
		t.Fatalf("expected version bump, got %d", used.Version)
	}
	if _, err := f.coupons.UseCoupon(coupon.ID); !errors.Is(err, ErrCouponAlreadyUsed) {
		t.Fatalf("expected already used, got %v", err)
	}

	restored, err := f.coupons.RestoreCoupon(coupon.ID)
	if err != nil || !restored {
		t.Fatalf("expected restore success, restored=%v err=%v", restored, err)
	}
	restored, err = f.coupons.RestoreCoupon(coupon.ID)
	if err != nil {
		t.Fatalf("second restore should not error: %v", err)
	}
	if restored {
		t.Fatalf("second restore should be a no-op")
	}
	after := f.loadUserCoupon(t, coupon.ID)
	if after.Status != constants.UserCouponStatusAvailable || after.UsedAt != nil {
		t.Fatalf("expected available coupon without used_at, got %+v", after)
	}

	if _, err := f.coupons.UseCoupon("missing"); !errors.Is(err, ErrUserCouponNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCouponServiceConcurrentUseExactlyOnce(t *testing.T) {
	f := setupServiceTest(t, nil)
	template := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 5, time.Now().Add(time.Hour))
	coupon, err := f.coupons.IssueCoupon(template.ID, "member-1")
	if err != nil {
		t.Fatalf("issue coupon failed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.coupons.UseCoupon(coupon.ID)
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrCouponAlreadyUsed) {
				t.Errorf("unexpected use error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly one use, got %d", success)
	}
}

func TestCalculateDiscount(t *testing.T) {
	min := models.MustMoney("50.00")
	cases := []struct {
		name     string
		template models.CouponTemplate
		amount   string
		want     string
		wantErr  error
	}{
		{
			name:     "fixed below amount",
			template: models.CouponTemplate{DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("10.00")},
			amount:   "30.00",
			want:     "10.00",
		},
		{
			name:     "fixed capped at amount",
			template: models.CouponTemplate{DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("10.00")},
			amount:   "6.50",
			want:     "6.50",
		},
		{
			name:     "rate truncated to cents",
			template: models.CouponTemplate{DiscountType: constants.DiscountTypeRate, DiscountValue: models.MustMoney("15")},
			amount:   "33.33",
			want:     "4.99",
		},
		{
			name:     "min amount not met",
			template: models.CouponTemplate{DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("10.00"), MinOrderAmount: &min},
			amount:   "49.99",
			wantErr:  ErrCouponMinAmountNotMet,
		},
		{
			name:     "min amount reached",
			template: models.CouponTemplate{DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("10.00"), MinOrderAmount: &min},
			amount:   "50.00",
			want:     "10.00",
		},
		{
			name:     "negative amount",
			template: models.CouponTemplate{DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("10.00")},
			amount:   "-1.00",
			wantErr:  ErrInvalidAmount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calculateDiscount(&tc.template, models.MustMoney(tc.amount))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("calculate discount failed: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.String())
			}
		})
	}
}

func TestCouponServiceCalculateDiscountChecksOwner(t *testing.T) {
	f := setupServiceTest(t, nil)
	template := f.createTemplate(t, constants.DiscountTypeRate, "10", "", 5, time.Now().Add(time.Hour))
	coupon, err := f.coupons.IssueCoupon(template.ID, "member-1")
	if err != nil {
		t.Fatalf("issue coupon failed: %v", err)
	}

	discount, err := f.coupons.CalculateDiscount(coupon.ID, "member-1", models.MustMoney("80.00"))
	if err != nil {
		t.Fatalf("calculate discount failed: %v", err)
	}
	if discount.String() != "8.00" {
		t.Fatalf("expected 8.00, got %s", discount.String())
	}
	if _, err := f.coupons.CalculateDiscount(coupon.ID, "member-2", models.MustMoney("80.00")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for other member, got %v", err)
	}
}

func TestCouponAdminServiceUpdateRejectsTotalBelowIssued(t *testing.T) {
	f := setupServiceTest(t, nil)
	template := f.createTemplate(t, constants.DiscountTypeFixed, "5.00", "", 3, time.Now().Add(time.Hour))
	for _, memberID := range []string{"member-1", "member-2"} {
		if _, err := f.coupons.IssueCoupon(template.ID, memberID); err != nil {
			t.Fatalf("issue coupon failed: %v", err)
		}
	}

	input := CouponTemplateInput{
		Name:          "renamed",
		DiscountType:  constants.DiscountTypeFixed,
		DiscountValue: models.MustMoney("6.00"),
		ExpiredAt:     time.Now().Add(2 * time.Hour),
		TotalQuantity: 1,
	}
	if _, err := f.couponAdmin.Update(template.ID, input); !errors.Is(err, ErrCouponTemplateInvalid) {
		t.Fatalf("expected invalid template update, got %v", err)
	}

	input.TotalQuantity = 4
	updated, err := f.couponAdmin.Update(template.ID, input)
	if err != nil {
		t.Fatalf("update template failed: %v", err)
	}
	if updated.Name != "renamed" || updated.TotalQuantity != 4 {
		t.Fatalf("unexpected updated template: %+v", updated)
	}
	if got := f.loadTemplate(t, template.ID).IssuedQuantity; got != 2 {
		t.Fatalf("update must keep issued quantity, got %d", got)
	}
}
