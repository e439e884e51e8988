// Package storage holds the two interchangeable homes of DailyMeals records
// and the ordered fallback policy that reads through them.
package storage

import (
	"context"
	"errors"

	"meal-tracker/structs"
)

var ErrNotFound = errors.New("daily meals record not found")

// Tier is one place a DailyMeals record can live.
type Tier interface {
	Name() string
	Find(ctx context.Context, userID, date string) (structs.DailyMeals, error)
	Save(ctx context.Context, userID string, day structs.DailyMeals) error
}

// RangeTier is a tier that can also answer date-range and full-history queries.
type RangeTier interface {
	Tier
	// Range returns records with from <= date <= to, oldest first.
	Range(ctx context.Context, userID, from, to string) ([]structs.DailyMeals, error)
	// All returns every record of the user, newest first.
	All(ctx context.Context, userID string) ([]structs.DailyMeals, error)
}
