package storage

import (
	"context"
	"errors"
	"testing"

	"meal-tracker/structs"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTier struct {
	name string
	day  structs.DailyMeals
	err  error
}

func (s stubTier) Name() string { return s.name }

func (s stubTier) Find(ctx context.Context, userID, date string) (structs.DailyMeals, error) {
	return s.day, s.err
}

func (s stubTier) Save(ctx context.Context, userID string, day structs.DailyMeals) error {
	return s.err
}

func TestChain_FirstHitWins(t *testing.T) {
	logger, _ := test.NewNullLogger()
	first := stubTier{name: "remote", day: structs.DailyMeals{Date: "2024-01-01"}}
	second := stubTier{name: "local", day: structs.DailyMeals{Date: "2024-01-02"}}

	day, source, err := NewChain(logger, first, second).Find(context.Background(), "u", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "remote", source)
	assert.Equal(t, "2024-01-01", day.Date)
}

func TestChain_ErrorsFallThroughAndAreLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	broken := stubTier{name: "remote", err: errors.New("connection refused")}
	missing := stubTier{name: "local", err: ErrNotFound}

	_, _, err := NewChain(logger, broken, missing).Find(context.Background(), "u", "2024-01-01")
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, hook.Entries, 1, "a plain miss is not logged")
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "remote", hook.LastEntry().Data["tier"])
}
