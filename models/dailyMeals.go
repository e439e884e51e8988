package models

import (
	"encoding/json"
	"errors"
	"time"

	"meal-tracker/structs"
)

var ErrMalformedMeals = errors.New("malformed meals payload")

// DailyMealsRecord is one row per (user_id, date).
type DailyMealsRecord struct {
	ID        int64      `gorm:"column:id;primary_key" json:"id"`
	UserID    string     `gorm:"column:user_id;type:varchar(64);not null;unique_index:idx_meals_user_date" json:"user_id"`
	Date      string     `gorm:"column:date;type:varchar(10);not null;unique_index:idx_meals_user_date" json:"date"`
	Meals     string     `gorm:"column:meals;type:text" json:"meals"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (d *DailyMealsRecord) TableName() string {
	return "meals"
}

func NewDailyMealsRecord(userID string, day structs.DailyMeals, now time.Time) (DailyMealsRecord, error) {
	payload, err := json.Marshal(day.Meals)
	if err != nil {
		return DailyMealsRecord{}, err
	}
	return DailyMealsRecord{
		UserID:    userID,
		Date:      day.Date,
		Meals:     string(payload),
		CreatedAt: &now,
		UpdatedAt: &now,
	}, nil
}

// DecodeMeals accepts the meals column as a JSON array or as a JSON string
// wrapping one. Anything else yields an empty list and ErrMalformedMeals.
func (d *DailyMealsRecord) DecodeMeals() ([]structs.Meal, error) {
	if d.Meals == "" {
		return []structs.Meal{}, nil
	}
	var meals []structs.Meal
	if err := json.Unmarshal([]byte(d.Meals), &meals); err == nil {
		if meals == nil {
			meals = []structs.Meal{}
		}
		return meals, nil
	}
	var wrapped string
	if err := json.Unmarshal([]byte(d.Meals), &wrapped); err == nil {
		if err := json.Unmarshal([]byte(wrapped), &meals); err == nil && meals != nil {
			return meals, nil
		}
	}
	return []structs.Meal{}, ErrMalformedMeals
}

// DailyMeals converts the row to the wire shape. Malformed payloads decode to no meals.
func (d *DailyMealsRecord) DailyMeals() (structs.DailyMeals, error) {
	meals, err := d.DecodeMeals()
	return structs.DailyMeals{Date: d.Date, Meals: meals}, err
}
