package services

import (
	"path/filepath"
	"testing"
	"time"

	"backend/entity"
	"backend/pkg/clock"
	"backend/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{}, &entity.Group{},
		&entity.OrderStatus{},
		&entity.DailyMenu{},
		&entity.Order{},
		&entity.ConsumptionRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, name := range []string{
		entity.StatusPreOrdered, entity.StatusServed, entity.StatusCancelled,
		entity.StatusUnavailable, entity.StatusNotPickedUp,
	} {
		if err := db.FirstOrCreate(&entity.OrderStatus{}, entity.OrderStatus{StatusName: name}).Error; err != nil {
			t.Fatalf("seed status %s: %v", name, err)
		}
	}
	return db
}

func newOrderService(t *testing.T, db *gorm.DB, clk clock.Clock) *OrderService {
	t.Helper()
	svc := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewMenuRepository(db),
		repository.NewConsumptionRepository(db),
		clk,
		nil,
	)
	if svc.Status.PreOrdered == 0 || svc.Status.Served == 0 {
		t.Fatal("status lookup did not resolve")
	}
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	u := entity.User{Email: email, Password: "x", FirstName: "Test", Role: string(entity.RoleEmployee)}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func seedGroup(t *testing.T, db *gorm.DB, name string, allowance int) *entity.Group {
	t.Helper()
	g := entity.Group{Name: name, DailyAllowance: allowance}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return &g
}

func seedMenu(t *testing.T, db *gorm.DB, serveOn time.Time, dayQuota, dayMargin, nightQuota, nightMargin int) *entity.DailyMenu {
	t.Helper()
	m := entity.DailyMenu{
		ServeOn:       clock.DateOf(serveOn),
		MainDish:      "attieke poisson",
		Price:         1500,
		ImprovedPrice: 2500,
		DayQuota:      dayQuota,
		DayMargin:     dayMargin,
		NightQuota:    nightQuota,
		NightMargin:   nightMargin,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	return &m
}

// seedPreOrder inserts an order directly, bypassing the creation
// windows, so lifecycle tests can start from any date.
func seedPreOrder(t *testing.T, db *gorm.DB, svc *OrderService, menu *entity.DailyMenu, userID *uint, consumeOn time.Time, period entity.ServicePeriod, qty int) *entity.Order {
	t.Helper()
	o := entity.Order{
		ConsumeOn:     clock.DateOf(consumeOn),
		Period:        period,
		Quantity:      qty,
		UnitPrice:     menu.UnitPrice(),
		Total:         menu.UnitPrice() * int64(qty),
		OrderStatusID: svc.Status.PreOrdered,
		DailyMenuID:   menu.ID,
		UserID:        userID,
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return &o
}

func reloadMenu(t *testing.T, db *gorm.DB, id uint) *entity.DailyMenu {
	t.Helper()
	var m entity.DailyMenu
	if err := db.First(&m, id).Error; err != nil {
		t.Fatalf("reload menu: %v", err)
	}
	return &m
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) *entity.Order {
	t.Helper()
	var o entity.Order
	if err := db.First(&o, id).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	return &o
}
