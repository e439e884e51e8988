package calorie

import (
	"errors"
	"fmt"
	"math"

	"meal-tracker/enums"
	"meal-tracker/structs"
)

var ErrInvalidInput = errors.New("invalid calorie input")

var activityMultipliers = map[string]float64{
	enums.Sedentary:  1.2,
	enums.Light:      1.375,
	enums.Moderate:   1.55,
	enums.Active:     1.725,
	enums.VeryActive: 1.9,
}

// BMR is the Harris-Benedict basal metabolic rate, weight in kg and height in cm.
func BMR(weight, height float64, age int, gender string) (float64, error) {
	switch gender {
	case enums.Male:
		return 88.362 + 13.397*weight + 4.799*height - 5.677*float64(age), nil
	case enums.Female:
		return 447.593 + 9.247*weight + 3.098*height - 4.330*float64(age), nil
	default:
		return 0, fmt.Errorf("%w: gender %q", ErrInvalidInput, gender)
	}
}

// Calculate returns the daily calorie need of param, rounded to whole kcal.
func Calculate(param structs.CalorieParam) (int, error) {
	if param.Weight <= 0 || param.Height <= 0 || param.Age <= 0 {
		return 0, fmt.Errorf("%w: weight, height and age must be positive", ErrInvalidInput)
	}
	multiplier, ok := activityMultipliers[param.ActivityLevel]
	if !ok {
		return 0, fmt.Errorf("%w: activity level %q", ErrInvalidInput, param.ActivityLevel)
	}
	bmr, err := BMR(param.Weight, param.Height, param.Age, param.Gender)
	if err != nil {
		return 0, err
	}
	return int(math.Round(bmr * multiplier)), nil
}
