package models

import "time"

// DeviceEntry is one string-keyed value of a session's device storage.
type DeviceEntry struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (DeviceEntry) TableName() string { return "device_entries" }
