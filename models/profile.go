package models

import "time"

// Profile keeps the last calorie calculator inputs and result of a user.
type Profile struct {
	UserID        string     `gorm:"column:user_id;type:varchar(64);primary_key" json:"user_id"`
	Weight        float64    `gorm:"column:weight" json:"weight"`
	Height        float64    `gorm:"column:height" json:"height"`
	Age           int        `gorm:"column:age" json:"age"`
	Gender        string     `gorm:"column:gender" json:"gender"`
	ActivityLevel string     `gorm:"column:activity_level" json:"activity_level"`
	Calories      int        `gorm:"column:calories" json:"calories"`
	CreatedAt     *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (p *Profile) TableName() string {
	return "profiles"
}
