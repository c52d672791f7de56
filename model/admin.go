package model

import "time"

// Admin is a back-office account. Rows are created only by the seed step
// (ADMIN_USERNAME/ADMIN_PASSWORD), never through a public-facing flow.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `gorm:"uniqueIndex;size:80;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
}
