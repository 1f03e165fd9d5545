package services

import (
	"testing"

	"backend/entity"
	"backend/pkg/clock"
)

func TestReconcileUnconsumed_ChargesStaleOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(20, 9, 0, 0)))
	billing := NewBillingService(db, svc)
	user := seedUser(t, db, "bill@corp.test")

	standard := seedMenu(t, db, march(10, 0, 0, 0), 5, 0, 5, 0)
	improved := seedMenu(t, db, march(11, 0, 0, 0), 5, 0, 5, 0)
	improved.Improved = true
	if err := db.Save(improved).Error; err != nil {
		t.Fatalf("save improved: %v", err)
	}

	o1 := seedPreOrder(t, db, svc, standard, &user.ID, march(10, 0, 0, 0), entity.PeriodDay, 1)
	o2 := seedPreOrder(t, db, svc, improved, nil, march(11, 0, 0, 0), entity.PeriodDay, 2)
	o2.VisitorName = "walk-in"
	db.Save(o2)

	res, err := billing.ReconcileUnconsumed(march(15, 0, 0, 0))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Charged != 2 || res.Skipped != 0 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v, want 2 charged", res)
	}

	g1 := reloadOrder(t, db, o1.ID)
	if g1.OrderStatusID != svc.Status.NotPickedUp {
		t.Errorf("status = %d, want NotPickedUp(%d)", g1.OrderStatusID, svc.Status.NotPickedUp)
	}
	if g1.ChargedAmount == nil || *g1.ChargedAmount != 1500 {
		t.Errorf("charged = %v, want 1500 (standard tier)", g1.ChargedAmount)
	}

	g2 := reloadOrder(t, db, o2.ID)
	if g2.ChargedAmount == nil || *g2.ChargedAmount != 2*2500 {
		t.Errorf("charged = %v, want 5000 (improved tier x2)", g2.ChargedAmount)
	}

	// billing-origin records, one per order
	var cnt int64
	db.Model(&entity.ConsumptionRecord{}).Where("origin = ?", entity.RecordOriginBilling).Count(&cnt)
	if cnt != 2 {
		t.Errorf("billing records = %d, want 2", cnt)
	}
}

func TestReconcileUnconsumed_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(20, 9, 0, 0)))
	billing := NewBillingService(db, svc)
	user := seedUser(t, db, "idem@corp.test")
	menu := seedMenu(t, db, march(10, 0, 0, 0), 5, 0, 5, 0)
	seedPreOrder(t, db, svc, menu, &user.ID, march(10, 0, 0, 0), entity.PeriodDay, 1)

	first, err := billing.ReconcileUnconsumed(march(15, 0, 0, 0))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Charged != 1 {
		t.Fatalf("first run charged = %d, want 1", first.Charged)
	}

	second, err := billing.ReconcileUnconsumed(march(15, 0, 0, 0))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Charged != 0 || len(second.Errors) != 0 {
		t.Errorf("second run = %+v, want zero additional charges", second)
	}

	var cnt int64
	db.Model(&entity.ConsumptionRecord{}).Count(&cnt)
	if cnt != 1 {
		t.Errorf("records = %d, want 1", cnt)
	}
}

func TestReconcileUnconsumed_NeverTouchesTerminalOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(20, 9, 0, 0)))
	billing := NewBillingService(db, svc)
	user := seedUser(t, db, "term@corp.test")
	menu := seedMenu(t, db, march(10, 0, 0, 0), 5, 0, 5, 0)

	served := seedPreOrder(t, db, svc, menu, &user.ID, march(10, 0, 0, 0), entity.PeriodDay, 1)
	db.Model(served).Update("order_status_id", svc.Status.Served)
	cancelled := seedPreOrder(t, db, svc, menu, nil, march(10, 0, 0, 0), entity.PeriodDay, 1)
	cancelled.VisitorName = "gone"
	db.Save(cancelled)
	db.Model(cancelled).Update("order_status_id", svc.Status.Cancelled)

	// not yet due: consumed inside the period
	future := seedPreOrder(t, db, svc, menu, nil, march(16, 0, 0, 0), entity.PeriodDay, 1)
	future.VisitorName = "later"
	db.Save(future)

	res, err := billing.ReconcileUnconsumed(march(15, 0, 0, 0))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Charged != 0 {
		t.Errorf("charged = %d, nothing was due", res.Charged)
	}

	if got := reloadOrder(t, db, served.ID); got.ChargedAmount != nil {
		t.Error("served order must never be retro-charged")
	}
	if got := reloadOrder(t, db, cancelled.ID); got.ChargedAmount != nil {
		t.Error("cancelled order must never be charged")
	}
}

func TestReconcileUnconsumed_PerOrderFailureIsIsolated(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db, clock.Fixed(march(20, 9, 0, 0)))
	billing := NewBillingService(db, svc)
	user := seedUser(t, db, "iso@corp.test")
	menu := seedMenu(t, db, march(10, 0, 0, 0), 5, 0, 5, 0)

	good := seedPreOrder(t, db, svc, menu, &user.ID, march(10, 0, 0, 0), entity.PeriodDay, 1)

	// an order pointing at a missing menu fails, but only for itself
	broken := entity.Order{
		ConsumeOn:     clock.DateOf(march(10, 0, 0, 0)),
		Period:        entity.PeriodDay,
		Quantity:      1,
		OrderStatusID: svc.Status.PreOrdered,
		DailyMenuID:   99999,
		VisitorName:   "ghost",
	}
	if err := db.Create(&broken).Error; err != nil {
		t.Fatalf("seed broken: %v", err)
	}

	res, err := billing.ReconcileUnconsumed(march(15, 0, 0, 0))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Charged != 1 {
		t.Errorf("charged = %d, want 1", res.Charged)
	}
	if len(res.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one", res.Errors)
	}
	if got := reloadOrder(t, db, good.ID); got.ChargedAmount == nil {
		t.Error("healthy order should still have been charged")
	}
}
