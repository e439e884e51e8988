package calorie

import (
	"context"
	"testing"
	"time"

	"meal-tracker/database"
	"meal-tracker/enums"
	"meal-tracker/models"
	"meal-tracker/structs"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name  string
		param structs.CalorieParam
		want  int
	}{
		// 88.362 + 937.79 + 815.83 - 141.925 = 1700.057 * 1.55
		{"male moderate", structs.CalorieParam{Weight: 70, Height: 170, Age: 25, Gender: enums.Male, ActivityLevel: enums.Moderate}, 2635},
		// 447.593 + 508.585 + 508.072 - 129.9 = 1334.35 * 1.2
		{"female sedentary", structs.CalorieParam{Weight: 55, Height: 164, Age: 30, Gender: enums.Female, ActivityLevel: enums.Sedentary}, 1601},
		{"male very active", structs.CalorieParam{Weight: 70, Height: 170, Age: 25, Gender: enums.Male, ActivityLevel: enums.VeryActive}, 3230},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Calculate(c.param)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	valid := structs.CalorieParam{Weight: 70, Height: 170, Age: 25, Gender: enums.Male, ActivityLevel: enums.Light}

	for _, mutate := range []func(*structs.CalorieParam){
		func(p *structs.CalorieParam) { p.Weight = 0 },
		func(p *structs.CalorieParam) { p.Height = -1 },
		func(p *structs.CalorieParam) { p.Age = 0 },
		func(p *structs.CalorieParam) { p.Gender = "other" },
		func(p *structs.CalorieParam) { p.ActivityLevel = "couch" },
	} {
		param := valid
		mutate(&param)
		_, err := Calculate(param)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestProfileService_SaveAndLoad(t *testing.T) {
	db, err := database.NewMemory()
	require.NoError(t, err)
	defer db.Close()
	logger, _ := test.NewNullLogger()
	service := NewProfileService(db, logger)
	ctx := context.Background()

	_, err = service.Load(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNoProfile)

	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return created }
	first, err := service.Save(ctx, "user-1", structs.CalorieParam{Weight: 70, Height: 170, Age: 25, Gender: enums.Male, ActivityLevel: enums.Moderate})
	require.NoError(t, err)
	assert.Equal(t, 2635, first.Calories)

	service.now = func() time.Time { return created.Add(24 * time.Hour) }
	second, err := service.Save(ctx, "user-1", structs.CalorieParam{Weight: 68, Height: 170, Age: 25, Gender: enums.Male, ActivityLevel: enums.Moderate})
	require.NoError(t, err)

	loaded, err := service.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)

	var rows []models.Profile
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].CreatedAt.Equal(created), "created_at is kept on update")

	_, err = service.Save(ctx, "user-1", structs.CalorieParam{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
