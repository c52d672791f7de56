package model

import (
	"time"

	"gorm.io/datatypes"
)

// PushSubscription maps a browser push endpoint to a batch. The credential
// blob is opaque to this service: it is the subscription JSON handed out by
// the browser and is passed through to the push delivery library verbatim.
//
// The endpoint uniquely identifies a subscription; re-subscribing with the
// same endpoint updates the batch and credential and reactivates the row
// instead of duplicating it. Rows are soft-disabled via IsActive, either by
// an explicit unsubscribe or by the dispatcher on a terminal (gone/expired)
// delivery failure.
type PushSubscription struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Endpoint       string         `gorm:"uniqueIndex;size:500;not null" json:"endpoint"`
	Credential     datatypes.JSON `gorm:"type:jsonb;not null" json:"-"`
	Batch          string         `gorm:"index;size:10;not null" json:"batch"`
	UserAgent      string         `gorm:"size:500" json:"-"` // diagnostic only
	IPAddress      string         `gorm:"size:45" json:"-"`  // diagnostic only
	LastNotifiedAt *time.Time     `json:"last_notified_at,omitempty"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
}
