package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleCounter   UserRole = "counter"
	RoleWarehouse UserRole = "warehouse"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	Username     string   `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null" json:"role"`
	Active       bool     `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
