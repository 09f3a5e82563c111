package model

import (
	"time"
)

type UserRole string

const (
	Examinee UserRole = "examinee"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'examinee'" json:"role"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
