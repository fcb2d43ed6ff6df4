package localstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulseras/storefront-backend/pkg/db/models"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

// Database keeps device entries in the device_entries table.
type Database struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db, now: time.Now}
}

func (d *Database) GetSession(ctx context.Context, sessionID, key string) (string, bool, error) {
	var entry models.DeviceEntry
	err := d.db.WithContext(ctx).
		Where("session_id = ? AND entry_key = ?", sessionID, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read device entry")
	}
	return entry.Value, true, nil
}

func (d *Database) SetSession(ctx context.Context, sessionID, key, value string) error {
	entry := models.DeviceEntry{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		UpdatedAt: d.now().UTC(),
	}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write device entry")
	}
	return nil
}

func (d *Database) RemoveSession(ctx context.Context, sessionID, key string) error {
	err := d.db.WithContext(ctx).
		Where("session_id = ? AND entry_key = ?", sessionID, key).
		Delete(&models.DeviceEntry{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove device entry")
	}
	return nil
}
