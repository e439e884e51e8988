package structs

import "meal-tracker/enums"

type Meal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Time   string `json:"time"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

type DailyMeals struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

type mealSlot struct {
	id   string
	name string
	time string
}

// catalogue order is the display order of a day
var catalogue = []mealSlot{
	{enums.Breakfast, "Kahvaltı", "07:00 - 09:00"},
	{enums.Lunch, "Öğle Yemeği", "12:00 - 14:00"},
	{enums.Dinner, "Akşam Yemeği", "19:00 - 21:00"},
}

// IsMealID reports whether id names one of the three daily meals.
func IsMealID(id string) bool {
	for _, slot := range catalogue {
		if slot.id == id {
			return true
		}
	}
	return false
}

// DefaultDailyMeals returns the record a day starts with: all meals not eaten, no notes.
func DefaultDailyMeals(date string) DailyMeals {
	meals := make([]Meal, 0, len(catalogue))
	for _, slot := range catalogue {
		meals = append(meals, Meal{ID: slot.id, Name: slot.name, Time: slot.time, Status: enums.NotEaten})
	}
	return DailyMeals{Date: date, Meals: meals}
}

// Normalize rewrites d so it holds exactly the three catalogue meals in order.
// Unknown ids are dropped, the first duplicate wins and missing meals get defaults.
func (d DailyMeals) Normalize() DailyMeals {
	out := DefaultDailyMeals(d.Date)
	seen := make(map[string]bool, len(catalogue))
	for _, meal := range d.Meals {
		if seen[meal.ID] {
			continue
		}
		for i := range out.Meals {
			if out.Meals[i].ID != meal.ID {
				continue
			}
			seen[meal.ID] = true
			if meal.Status == enums.Eaten {
				out.Meals[i].Status = enums.Eaten
			}
			out.Meals[i].Note = meal.Note
		}
	}
	return out
}

// Clone returns a deep copy so snapshots never share the meals slice.
func (d DailyMeals) Clone() DailyMeals {
	meals := make([]Meal, len(d.Meals))
	copy(meals, d.Meals)
	return DailyMeals{Date: d.Date, Meals: meals}
}

// EatenCount counts meals marked eaten.
func (d DailyMeals) EatenCount() int {
	count := 0
	for _, meal := range d.Meals {
		if meal.Status == enums.Eaten {
			count++
		}
	}
	return count
}

// MealCount is the fixed number of meals in a day.
func MealCount() int {
	return len(catalogue)
}
