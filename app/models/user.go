package models

import "gorm.io/gorm"

// User is an API account that can authenticate and mutate the catalog.
type User struct {
	gorm.Model
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;default:user" json:"role"`
	// No gorm default: a default tag would make GORM drop
	// is_active:false on insert. Callers set it explicitly.
	IsActive bool `gorm:"not null" json:"is_active"`
}

func (User) TableName() string { return "users" }
