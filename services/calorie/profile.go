package calorie

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

var ErrNoProfile = errors.New("no saved profile")

type ProfileService struct {
	db     *gorm.DB
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewProfileService(db *gorm.DB, logger logrus.FieldLogger) *ProfileService {
	return &ProfileService{db: db, logger: logger, now: time.Now}
}

func (p *ProfileService) Load(ctx context.Context, userID string) (structs.CalorieResult, error) {
	var profile models.Profile
	err := p.db.Where("user_id = ?", userID).First(&profile).Error
	if gorm.IsRecordNotFoundError(err) {
		return structs.CalorieResult{}, ErrNoProfile
	}
	if err != nil {
		return structs.CalorieResult{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return structs.CalorieResult{
		CalorieParam: structs.CalorieParam{
			Weight:        profile.Weight,
			Height:        profile.Height,
			Age:           profile.Age,
			Gender:        profile.Gender,
			ActivityLevel: profile.ActivityLevel,
		},
		Calories: profile.Calories,
	}, nil
}

// Save calculates the calorie need of param and stores inputs and result,
// updating the user's profile row when it exists.
func (p *ProfileService) Save(ctx context.Context, userID string, param structs.CalorieParam) (structs.CalorieResult, error) {
	calories, err := Calculate(param)
	if err != nil {
		return structs.CalorieResult{}, err
	}

	now := p.now()
	fields := map[string]interface{}{
		"weight":         param.Weight,
		"height":         param.Height,
		"age":            param.Age,
		"gender":         param.Gender,
		"activity_level": param.ActivityLevel,
		"calories":       calories,
		"updated_at":     now,
	}

	var existing models.Profile
	err = p.db.Where("user_id = ?", userID).First(&existing).Error
	switch {
	case err == nil:
		if err := p.db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
			return structs.CalorieResult{}, fmt.Errorf("update profile %s: %w", userID, err)
		}
	case gorm.IsRecordNotFoundError(err):
		profile := models.Profile{
			UserID:        userID,
			Weight:        param.Weight,
			Height:        param.Height,
			Age:           param.Age,
			Gender:        param.Gender,
			ActivityLevel: param.ActivityLevel,
			Calories:      calories,
			CreatedAt:     &now,
			UpdatedAt:     &now,
		}
		if err := p.db.Create(&profile).Error; err != nil {
			return structs.CalorieResult{}, fmt.Errorf("insert profile %s: %w", userID, err)
		}
	default:
		return structs.CalorieResult{}, fmt.Errorf("lookup profile %s: %w", userID, err)
	}

	p.logger.WithFields(logrus.Fields{"task": "calorie", "user_id": userID, "calories": calories}).Info("profile saved")
	return structs.CalorieResult{CalorieParam: param, Calories: calories}, nil
}
