// Package reconcile pushes days that only exist in the local tier to the remote tier.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"meal-tracker/enums"
	"meal-tracker/models"
	"meal-tracker/services/auth"
	"meal-tracker/services/storage"
	"meal-tracker/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"
)

const chunkSize = 500

type Reconciler struct {
	db     *gorm.DB
	local  *storage.LocalTier
	remote *storage.RemoteTier
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewReconciler(db *gorm.DB, local *storage.LocalTier, remote *storage.RemoteTier, logger logrus.FieldLogger) *Reconciler {
	return &Reconciler{db: db, local: local, remote: remote, logger: logger, now: time.Now}
}

// Push inserts every local day the remote tier lacks, in one transaction.
// Rows that already exist remotely are left untouched.
func (r *Reconciler) Push(ctx context.Context, userID string) (structs.ReconcileResult, error) {
	var result structs.ReconcileResult
	logwr := r.logger.WithFields(logrus.Fields{"task": "reconcile", "user_id": userID})

	dates, err := r.local.Dates(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("list local days: %w", err)
	}
	result.Scanned = len(dates)
	if len(dates) == 0 {
		return result, nil
	}
	known, err := r.remote.Dates(ctx, userID)
	if err != nil {
		return result, err
	}

	now := r.now()
	var insertRecords []interface{}
	for _, date := range dates {
		if known[date] {
			continue
		}
		day, err := r.local.Find(ctx, userID, date)
		if err != nil {
			logwr.WithField("date", date).Warn(err.Error())
			continue
		}
		day.Date = date
		record, err := models.NewDailyMealsRecord(userID, day.Normalize(), now)
		if err != nil {
			logwr.WithField("date", date).Warn(err.Error())
			continue
		}
		insertRecords = append(insertRecords, &record)
	}
	if len(insertRecords) == 0 {
		return result, nil
	}

	tx := r.db.Begin()
	if err := tx.Error; err != nil {
		return result, fmt.Errorf("begin: %w", err)
	}
	if err := gormbulk.BulkInsert(tx, insertRecords, chunkSize, "ID"); err != nil {
		tx.Rollback()
		return result, fmt.Errorf("bulk insert: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	result.Inserted = len(insertRecords)
	logwr.WithFields(logrus.Fields{"scanned": result.Scanned, "inserted": result.Inserted}).Info("local days pushed")
	return result, nil
}

// Watch pushes local days of every user that signs in, until events is closed.
func (r *Reconciler) Watch(events <-chan auth.Event) {
	for event := range events {
		if event.Type != enums.SignedIn {
			continue
		}
		if _, err := r.Push(context.Background(), event.Session.UserID); err != nil {
			r.logger.WithFields(logrus.Fields{"task": "reconcile", "user_id": event.Session.UserID}).Error(err.Error())
		}
	}
}
