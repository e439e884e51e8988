package storage

import (
	"context"
	"errors"

	"meal-tracker/structs"

	"github.com/sirupsen/logrus"
)

// Chain reads through its tiers in order and returns the first record found.
// Tier errors are logged and treated like a miss.
type Chain struct {
	tiers  []Tier
	logger logrus.FieldLogger
}

func NewChain(logger logrus.FieldLogger, tiers ...Tier) *Chain {
	return &Chain{tiers: tiers, logger: logger}
}

// Find returns the record and the name of the tier that served it.
func (c *Chain) Find(ctx context.Context, userID, date string) (structs.DailyMeals, string, error) {
	for _, tier := range c.tiers {
		day, err := tier.Find(ctx, userID, date)
		if err == nil {
			return day, tier.Name(), nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.logger.WithFields(logrus.Fields{"task": "storage", "tier": tier.Name(), "user_id": userID, "date": date}).Warn(err.Error())
		}
	}
	return structs.DailyMeals{}, "", ErrNotFound
}
