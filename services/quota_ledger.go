package services

import (
	"errors"
	"fmt"
	"time"

	"backend/entity"
	"backend/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// bucketAt derives the quota bucket from real time: the ledger reflects
// when the kitchen actually prepared the meal, not what the order
// declared.
func bucketAt(t time.Time) entity.ServicePeriod {
	if clock.IsNight(t) {
		return entity.PeriodNight
	}
	return entity.PeriodDay
}

// VerifyQuotaAvailable is the pre-check offered to callers before they
// commit to serving. It refuses a night order before night service
// starts, and reports exhaustion when primary + margin is empty.
func (s *OrderService) VerifyQuotaAvailable(menuID uint, period entity.ServicePeriod) error {
	if !period.Valid() {
		return errValidation("period must be DAY or NIGHT")
	}
	now := s.Clock.Now()
	if period == entity.PeriodNight && !clock.IsNight(now) {
		return errNotEligible("night service has not started")
	}

	menu, err := s.MenuRepo.Get(menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("menu")
		}
		return err
	}

	primary, margin := menu.Counters(period)
	if primary+margin <= 0 {
		return errNotEligible("quota exhausted")
	}
	return nil
}

// MarkServed transitions PreOrdered → Served and decrements the quota
// ledger in the same unit of work. Primary quota drains before margin;
// counters clamp at zero and any leftover quantity is absorbed — the
// meal already left the kitchen, refusing after the fact is not an
// option. The absorption is an operational anomaly, logged, never an
// error.
func (s *OrderService) MarkServed(orderID uint) error {
	now := s.Clock.Now()
	bucket := bucketAt(now)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetTx(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("order")
			}
			return err
		}
		menu, err := s.MenuRepo.GetTx(tx, o.DailyMenuID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("menu")
			}
			return err
		}

		affected, err := s.Repo.MarkServedGuard(tx, o.ID, s.Status.PreOrdered, s.Status.Served, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errConflict("order is not pre-ordered")
		}

		primary, margin := menu.Counters(bucket)
		remaining := o.Quantity

		fromPrimary := min(remaining, primary)
		remaining -= fromPrimary
		fromMargin := min(remaining, margin)
		remaining -= fromMargin

		if remaining > 0 {
			logrus.WithFields(logrus.Fields{
				"order":    o.ID,
				"menu":     menu.ID,
				"bucket":   bucket,
				"absorbed": remaining,
			}).Warn("quota exhausted, over-quota serving absorbed")
		}

		affected, err = s.MenuRepo.ApplyCounters(tx, menu.ID, menu.Version, bucket, primary-fromPrimary, margin-fromMargin)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errConflict("menu counters were modified concurrently")
		}

		rec := entity.ConsumptionRecord{
			OrderID:  o.ID,
			UserID:   o.UserID,
			GroupID:  o.GroupID,
			EatenOn:  clock.DateOf(now),
			DishName: menu.MainDish,
			Quantity: o.Quantity,
			Origin:   entity.RecordOriginServed,
		}
		if err := s.ConsRepo.CreateIfAbsent(tx, &rec); err != nil {
			return err
		}

		notify(s.Notifier, fmt.Sprintf("order %d served (%s bucket)", o.ID, bucket))
		return nil
	})
}
