package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RolePartner Role = "partner"
)

type User struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"id"`
	Email     string         `gorm:"size:255;uniqueIndex:ux_users_email_active" json:"email"`
	FullName  string         `gorm:"size:255" json:"fullName"`
	Role      Role           `gorm:"size:20;default:'client';index" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
