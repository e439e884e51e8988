package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meal-tracker/models"
	"meal-tracker/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

// RemoteTier stores one row per (user, date) in the meals table.
type RemoteTier struct {
	db     *gorm.DB
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewRemoteTier(db *gorm.DB, logger logrus.FieldLogger) *RemoteTier {
	return &RemoteTier{db: db, logger: logger, now: time.Now}
}

func (r *RemoteTier) Name() string {
	return "remote"
}

func (r *RemoteTier) Find(ctx context.Context, userID, date string) (structs.DailyMeals, error) {
	var record models.DailyMealsRecord
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error
	if gorm.IsRecordNotFoundError(err) {
		return structs.DailyMeals{}, ErrNotFound
	}
	if err != nil {
		return structs.DailyMeals{}, fmt.Errorf("find meals %s/%s: %w", userID, date, err)
	}
	return r.decode(record), nil
}

// Save updates the row of (user, date) when one exists and inserts it otherwise.
// An insert that loses the race against another writer of the same row is
// retried once as an update.
func (r *RemoteTier) Save(ctx context.Context, userID string, day structs.DailyMeals) error {
	fresh, err := models.NewDailyMealsRecord(userID, day, r.now())
	if err != nil {
		return fmt.Errorf("encode meals %s: %w", day.Date, err)
	}

	err = r.update(fresh)
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if createErr := r.db.Create(&fresh).Error; createErr != nil {
		if err := r.update(fresh); err != nil {
			return fmt.Errorf("insert meals %s/%s: %w", userID, day.Date, createErr)
		}
	}
	return nil
}

// update overwrites meals and updated_at of an existing row, ErrNotFound when there is none.
func (r *RemoteTier) update(record models.DailyMealsRecord) error {
	var existing models.DailyMealsRecord
	err := r.db.Select("id").Where("user_id = ? AND date = ?", record.UserID, record.Date).First(&existing).Error
	if gorm.IsRecordNotFoundError(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup meals %s/%s: %w", record.UserID, record.Date, err)
	}
	err = r.db.Model(&models.DailyMealsRecord{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{"meals": record.Meals, "updated_at": record.UpdatedAt}).Error
	if err != nil {
		return fmt.Errorf("update meals %s/%s: %w", record.UserID, record.Date, err)
	}
	return nil
}

func (r *RemoteTier) Range(ctx context.Context, userID, from, to string) ([]structs.DailyMeals, error) {
	var records []models.DailyMealsRecord
	err := r.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("range meals %s %s..%s: %w", userID, from, to, err)
	}
	return r.decodeAll(records), nil
}

func (r *RemoteTier) All(ctx context.Context, userID string) ([]structs.DailyMeals, error) {
	var records []models.DailyMealsRecord
	if err := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("history meals %s: %w", userID, err)
	}
	return r.decodeAll(records), nil
}

// Dates returns the set of dates the user already has rows for.
func (r *RemoteTier) Dates(ctx context.Context, userID string) (map[string]bool, error) {
	var dates []string
	if err := r.db.Model(&models.DailyMealsRecord{}).Where("user_id = ?", userID).Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list dates %s: %w", userID, err)
	}
	out := make(map[string]bool, len(dates))
	for _, date := range dates {
		out[date] = true
	}
	return out, nil
}

func (r *RemoteTier) decodeAll(records []models.DailyMealsRecord) []structs.DailyMeals {
	out := make([]structs.DailyMeals, 0, len(records))
	for _, record := range records {
		out = append(out, r.decode(record))
	}
	return out
}

func (r *RemoteTier) decode(record models.DailyMealsRecord) structs.DailyMeals {
	day, err := record.DailyMeals()
	if err != nil {
		r.logger.WithFields(logrus.Fields{"task": "storage", "user_id": record.UserID, "date": record.Date}).Warn(err.Error())
	}
	return day
}
