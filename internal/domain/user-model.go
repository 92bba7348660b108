package domain

import "gorm.io/gorm"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TenantID     uint   `gorm:"not null;index" json:"tenant_id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	Nome         string `json:"nome"`
	Status       string `gorm:"type:varchar(20);not null;default:active" json:"status"`
	gorm.Model
}
