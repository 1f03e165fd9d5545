package services

import (
	"errors"
	"testing"

	"backend/entity"
	"backend/pkg/clock"
)

func TestMarkServed_PrimaryBeforeMarginThenAbsorb(t *testing.T) {
	db := newTestDB(t)
	// 10:00 → Day bucket
	svc := newOrderService(t, db, clock.Fixed(march(12, 10, 0, 0)))
	user := seedUser(t, db, "day@corp.test")
	menu := seedMenu(t, db, march(12, 0, 0, 0), 2, 1, 0, 0)

	var orders []*entity.Order
	for i := 0; i < 4; i++ {
		orders = append(orders, seedPreOrder(t, db, svc, menu, &user.ID, march(12, 0, 0, 0), entity.PeriodDay, 1))
	}

	steps := []struct {
		wantQuota  int
		wantMargin int
	}{
		{1, 1}, // margin untouched while primary > 0
		{0, 1},
		{0, 0}, // margin only after primary is exhausted
		{0, 0}, // fourth serving absorbed, never negative
	}
	for i, o := range orders {
		if err := svc.MarkServed(o.ID); err != nil {
			t.Fatalf("serve %d: %v", i+1, err)
		}
		m := reloadMenu(t, db, menu.ID)
		if m.DayQuota != steps[i].wantQuota || m.DayMargin != steps[i].wantMargin {
			t.Errorf("after serve %d: quota=%d margin=%d, want %d/%d",
				i+1, m.DayQuota, m.DayMargin, steps[i].wantQuota, steps[i].wantMargin)
		}
	}

	// every serving produced exactly one consumption record
	var cnt int64
	db.Model(&entity.ConsumptionRecord{}).Where("origin = ?", entity.RecordOriginServed).Count(&cnt)
	if cnt != 4 {
		t.Errorf("consumption records = %d, want 4", cnt)
	}
}

func TestMarkServed_QuantitySpansBothCounters(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(12, 10, 0, 0)))
	user := seedUser(t, db, "span@corp.test")
	menu := seedMenu(t, db, march(12, 0, 0, 0), 2, 2, 0, 0)
	o := seedPreOrder(t, db, svc, menu, &user.ID, march(12, 0, 0, 0), entity.PeriodDay, 3)

	if err := svc.MarkServed(o.ID); err != nil {
		t.Fatalf("serve: %v", err)
	}
	m := reloadMenu(t, db, menu.ID)
	if m.DayQuota != 0 || m.DayMargin != 1 {
		t.Errorf("quota=%d margin=%d, want 0/1", m.DayQuota, m.DayMargin)
	}
}

func TestMarkServed_BucketFollowsWallClockNotDeclaration(t *testing.T) {
	db := newTestDB(t)
	// 19:00 → Night bucket even though the order declared DAY
	svc := newOrderService(t, db, clock.Fixed(march(12, 19, 0, 0)))
	user := seedUser(t, db, "night@corp.test")
	menu := seedMenu(t, db, march(12, 0, 0, 0), 5, 0, 3, 1)
	o := seedPreOrder(t, db, svc, menu, &user.ID, march(12, 0, 0, 0), entity.PeriodDay, 1)

	if err := svc.MarkServed(o.ID); err != nil {
		t.Fatalf("serve: %v", err)
	}
	m := reloadMenu(t, db, menu.ID)
	if m.DayQuota != 5 {
		t.Errorf("day quota touched: %d, want 5", m.DayQuota)
	}
	if m.NightQuota != 2 {
		t.Errorf("night quota = %d, want 2", m.NightQuota)
	}
}

func TestMarkServed_OnlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(12, 10, 0, 0)))
	user := seedUser(t, db, "once@corp.test")
	menu := seedMenu(t, db, march(12, 0, 0, 0), 5, 0, 5, 0)
	o := seedPreOrder(t, db, svc, menu, &user.ID, march(12, 0, 0, 0), entity.PeriodDay, 1)

	if err := svc.MarkServed(o.ID); err != nil {
		t.Fatalf("first serve: %v", err)
	}
	err := svc.MarkServed(o.ID)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("second serve: got %v, want ConflictError", err)
	}

	// decrement applied exactly once, one record only
	m := reloadMenu(t, db, menu.ID)
	if m.DayQuota != 4 {
		t.Errorf("day quota = %d, want 4", m.DayQuota)
	}
	var cnt int64
	db.Model(&entity.ConsumptionRecord{}).Where("order_id = ?", o.ID).Count(&cnt)
	if cnt != 1 {
		t.Errorf("records = %d, want 1", cnt)
	}
}

func TestMarkServed_SumIsMonotonicAndClamped(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(12, 10, 0, 0)))
	user := seedUser(t, db, "mono@corp.test")
	menu := seedMenu(t, db, march(12, 0, 0, 0), 3, 2, 0, 0)

	served := 0
	for _, qty := range []int{2, 1, 4} {
		o := seedPreOrder(t, db, svc, menu, &user.ID, march(12, 0, 0, 0), entity.PeriodDay, qty)
		if err := svc.MarkServed(o.ID); err != nil {
			t.Fatalf("serve qty=%d: %v", qty, err)
		}
		served += qty

		m := reloadMenu(t, db, menu.ID)
		want := 5 - served
		if want < 0 {
			want = 0
		}
		if got := m.DayQuota + m.DayMargin; got != want {
			t.Errorf("after %d served: quota+margin = %d, want %d", served, got, want)
		}
		if m.DayQuota < 0 || m.DayMargin < 0 {
			t.Error("counters must never be negative")
		}
	}
}

func TestVerifyQuotaAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(12, 10, 0, 0)))
	menu := seedMenu(t, db, march(12, 0, 0, 0), 0, 1, 0, 0)
	empty := seedMenu(t, db, march(12, 0, 0, 0), 0, 0, 5, 5)

	// margin alone keeps the day bucket available
	if err := svc.VerifyQuotaAvailable(menu.ID, entity.PeriodDay); err != nil {
		t.Errorf("day with margin: %v", err)
	}

	// day bucket exhausted
	err := svc.VerifyQuotaAvailable(empty.ID, entity.PeriodDay)
	var ne *NotEligibleError
	if !errors.As(err, &ne) {
		t.Errorf("exhausted: got %v, want NotEligibleError", err)
	}

	// night service cannot start before 18:00, even with quota
	err = svc.VerifyQuotaAvailable(empty.ID, entity.PeriodNight)
	if !errors.As(err, &ne) {
		t.Errorf("night before 18:00: got %v, want NotEligibleError", err)
	}

	// after 18:00 the same check passes
	evening := newOrderService(t, db, clock.Fixed(march(12, 18, 0, 0)))
	if err := evening.VerifyQuotaAvailable(empty.ID, entity.PeriodNight); err != nil {
		t.Errorf("night at 18:00: %v", err)
	}
}
