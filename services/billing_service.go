package services

import (
	"errors"
	"fmt"
	"time"

	"backend/entity"
	"backend/pkg/clock"
	"backend/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BillingService converts stale pre-ordered orders — consumption date
// past, never served — into charged outcomes at period close.
type BillingService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository
	ConsRepo *repository.ConsumptionRepository
	Status   StatusIDs
}

func NewBillingService(db *gorm.DB, orders *OrderService) *BillingService {
	return &BillingService{
		DB:       db,
		Repo:     orders.Repo,
		MenuRepo: orders.MenuRepo,
		ConsRepo: orders.ConsRepo,
		Status:   orders.Status,
	}
}

type ReconcileResult struct {
	Charged int      `json:"charged"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ReconcileUnconsumed is the batch pass. Each order gets its own
// transaction; a per-order failure is recorded and skipped, never fatal
// for the rest of the batch. Running the pass twice is a no-op the
// second time: billed orders left the PreOrdered state and no longer
// match the work list.
func (s *BillingService) ReconcileUnconsumed(periodEnd time.Time) (*ReconcileResult, error) {
	res := &ReconcileResult{Errors: []string{}}

	stale, err := s.Repo.ListStalePreOrdered(clock.DateOf(periodEnd), s.Status.PreOrdered)
	if err != nil {
		return nil, err
	}

	for i := range stale {
		o := &stale[i]
		if o.ChargedAmount != nil {
			res.Skipped++
			continue
		}
		if err := s.billOne(o); err != nil {
			logrus.WithFields(logrus.Fields{"order": o.ID}).
				WithError(err).Error("reconciliation failed for order")
			res.Errors = append(res.Errors, fmt.Sprintf("order %d: %v", o.ID, err))
			continue
		}
		res.Charged++
	}

	logrus.WithFields(logrus.Fields{
		"charged": res.Charged,
		"skipped": res.Skipped,
		"errors":  len(res.Errors),
	}).Info("reconciliation pass done")
	return res, nil
}

// billOne charges a single stale order: price-tier amount, terminal
// billed status, billing-origin consumption record — one transaction.
func (s *BillingService) billOne(o *entity.Order) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		menu, err := s.MenuRepo.GetTx(tx, o.DailyMenuID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("menu")
			}
			return err
		}

		amount := menu.UnitPrice() * int64(o.Quantity)
		affected, err := s.Repo.BillGuard(tx, o.ID, s.Status.PreOrdered, s.Status.NotPickedUp, amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			// served or cancelled since the work list was read
			return errConflict("order left pre-ordered state")
		}

		rec := entity.ConsumptionRecord{
			OrderID:  o.ID,
			UserID:   o.UserID,
			GroupID:  o.GroupID,
			EatenOn:  clock.DateOf(o.ConsumeOn),
			DishName: menu.MainDish,
			Quantity: o.Quantity,
			Origin:   entity.RecordOriginBilling,
		}
		return s.ConsRepo.CreateIfAbsent(tx, &rec)
	})
}
