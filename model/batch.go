package model

import "time"

// Batch is a cohort/graduation-year tag used to target listings and push
// notifications. Batches are created implicitly the first time an admin
// references a new name in a listing form and are never auto-deleted.
//
// Names never contain a comma; the catalog rejects such tokens before they
// reach storage, since the comma is the delimiter of multi-batch input.
type Batch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"uniqueIndex;size:10;not null" json:"name"`

	Jobs []Job `gorm:"many2many:job_batches" json:"-"`
}
