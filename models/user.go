package models

import "time"

type User struct {
	ID          string     `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email       string     `gorm:"column:email;type:varchar(255);not null;unique_index" json:"email"`
	Password    string     `gorm:"column:password;not null" json:"-"`
	DisplayName string     `gorm:"column:display_name" json:"display_name"`
	CreatedAt   *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (u *User) TableName() string {
	return "users"
}
