package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"meal-tracker/enums"
	"meal-tracker/services/storage"
	"meal-tracker/structs"
)

var (
	ErrNoRecord     = errors.New("no record for this day")
	ErrInvalidMonth = errors.New("invalid month")
)

// Completion is the share of the three meals marked eaten, in percent.
func Completion(meals []structs.Meal) float64 {
	eaten := structs.DailyMeals{Meals: meals}.EatenCount()
	return float64(eaten) / float64(structs.MealCount()) * 100
}

// Round1 rounds a percentage to one decimal, 33.33.. becomes 33.3.
func Round1(p float64) float64 {
	return math.Round(p*10) / 10
}

// Bucket maps a completion percentage to the calendar colour class.
func Bucket(p float64) string {
	switch {
	case p >= 100:
		return enums.BucketFull
	case p > 0:
		return enums.BucketPartial
	default:
		return enums.BucketNone
	}
}

type Reader struct {
	remote storage.RangeTier
}

func NewReader(remote storage.RangeTier) *Reader {
	return &Reader{remote: remote}
}

// Month returns one entry per day of the month, from a single range query.
func (r *Reader) Month(ctx context.Context, userID string, year, month int) (structs.CalendarMonth, error) {
	if month < 1 || month > 12 || year < 1 {
		return structs.CalendarMonth{}, fmt.Errorf("%w: %d-%d", ErrInvalidMonth, year, month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	days, err := r.remote.Range(ctx, userID, first.Format(enums.DateLayout), last.Format(enums.DateLayout))
	if err != nil {
		return structs.CalendarMonth{}, err
	}
	byDate := make(map[string]structs.DailyMeals, len(days))
	for _, day := range days {
		byDate[day.Date] = day
	}

	out := structs.CalendarMonth{Year: year, Month: month, Days: make([]structs.CalendarDay, 0, last.Day())}
	for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
		key := date.Format(enums.DateLayout)
		day, ok := byDate[key]
		completion := 0.0
		if ok {
			completion = Round1(Completion(day.Normalize().Meals))
		}
		out.Days = append(out.Days, structs.CalendarDay{
			Date:       key,
			Weekday:    date.Weekday().String(),
			Completion: completion,
			Bucket:     Bucket(completion),
			HasRecord:  ok,
		})
	}
	return out, nil
}

// Day returns the stored record of one date as is; a malformed payload shows no meals.
// Completion counts the normalised day, so foreign or duplicated entries never exceed 100.
func (r *Reader) Day(ctx context.Context, userID, date string) (structs.DayDetail, error) {
	if _, err := time.Parse(enums.DateLayout, date); err != nil {
		return structs.DayDetail{}, fmt.Errorf("%w: %q", ErrNoRecord, date)
	}
	day, err := r.remote.Find(ctx, userID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return structs.DayDetail{}, ErrNoRecord
	}
	if err != nil {
		return structs.DayDetail{}, err
	}
	completion := Round1(Completion(day.Normalize().Meals))
	return structs.DayDetail{Date: day.Date, Meals: day.Meals, Completion: completion, Bucket: Bucket(completion)}, nil
}

// History returns every stored day of the user, newest first.
func (r *Reader) History(ctx context.Context, userID string) ([]structs.DailyMeals, error) {
	return r.remote.All(ctx, userID)
}
